package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainUntil polls Drain until n results have arrived or the deadline passes.
func drainUntil(t *testing.T, s *System, n int) []Result {
	t.Helper()
	var out []Result
	deadline := time.Now().Add(2 * time.Second)
	for len(out) < n && time.Now().Before(deadline) {
		out = append(out, s.Drain()...)
		time.Sleep(time.Millisecond)
	}
	require.Len(t, out, n)
	return out
}

func TestSystem_RunsJobsAndPublishesResults(t *testing.T) {
	s := New(3)
	s.Handle(KindDownloadURL, func(ctx context.Context, job Job) (any, error) {
		return job.(DownloadURL).Dest, nil
	})
	s.Start(context.Background())
	defer s.Close()

	for _, dest := range []string{"a", "b", "c", "d"} {
		s.Enqueue(DownloadURL{URL: "http://example", Dest: dest})
	}

	results := drainUntil(t, s, 4)
	seen := map[string]bool{}
	for _, r := range results {
		require.NoError(t, r.Err)
		seen[r.Value.(string)] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 0, s.Outstanding())
}

func TestSystem_HandlerErrorIsPublished(t *testing.T) {
	s := New(1)
	boom := errors.New("boom")
	s.Handle(KindCheckUpdates, func(ctx context.Context, job Job) (any, error) {
		return nil, boom
	})
	s.Start(context.Background())
	defer s.Close()

	s.Enqueue(CheckUpdates{})
	results := drainUntil(t, s, 1)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.Nil(t, results[0].Value)
}

func TestSystem_PanicBecomesFailedResult(t *testing.T) {
	s := New(1)
	s.Handle(KindSearchGame, func(ctx context.Context, job Job) (any, error) {
		panic("plugin exploded")
	})
	s.Start(context.Background())
	defer s.Close()

	s.Enqueue(SearchGame{Name: "x"})
	results := drainUntil(t, s, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "panicked")

	// Worker survives and keeps serving
	s.Enqueue(SearchGame{Name: "y"})
	drainUntil(t, s, 1)
}

func TestSystem_MissingHandler(t *testing.T) {
	s := New(1)
	s.Start(context.Background())
	defer s.Close()

	s.Enqueue(LoadImage{Path: "nothing.png"})
	results := drainUntil(t, s, 1)
	assert.ErrorIs(t, results[0].Err, ErrNoHandler)
}

func TestSystem_ConcurrentEnqueue(t *testing.T) {
	s := New(4)
	var count atomic.Int64
	s.Handle(KindLoadImage, func(ctx context.Context, job Job) (any, error) {
		count.Add(1)
		return nil, nil
	})
	s.Start(context.Background())
	defer s.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				s.Enqueue(LoadImage{Path: "p"})
			}
		}()
	}
	wg.Wait()

	drainUntil(t, s, 200)
	assert.Equal(t, int64(200), count.Load())
}

func TestSystem_CloseStopsWorkers(t *testing.T) {
	s := New(2)
	s.Start(context.Background())
	require.NoError(t, s.Close())

	// Enqueue after close is refused
	assert.False(t, s.Enqueue(CheckUpdates{}))
	assert.Equal(t, 0, s.Outstanding())
}

func TestSystem_EnqueueRefusedAfterCloseWithoutStart(t *testing.T) {
	s := New(1)
	assert.True(t, s.Enqueue(CheckUpdates{}))
	require.NoError(t, s.Close())
	assert.False(t, s.Enqueue(CheckUpdates{}))
	assert.Equal(t, 0, s.Outstanding(), "close drops queued jobs")
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindLoadImage:      "LoadImage",
		KindSearchGame:     "SearchGame",
		KindSearchPlatform: "SearchPlatform",
		KindDownloadURL:    "DownloadUrl",
		KindCheckUpdates:   "CheckUpdates",
		Kind(99):           "Unknown",
	}
	for k, want := range tests {
		assert.Equal(t, want, k.String())
	}
}
