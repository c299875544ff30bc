package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/yaffe/jobs"
)

func TestNeedsUpdating(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.2.3", "1.2.4", true},
		{"1.2.3", "1.2.3", false},
		{"1.3.0", "1.2.9", false},
		{"1.2", "1.2.1", true},
		{"1.2.0", "1.2", false},
		{"v1.9.9", "v1.10.0", true},
		{"2.0.0", "", false},
		{"0.0.0", "0.0.1", true},
	}
	for _, tc := range tests {
		if got := NeedsUpdating(tc.current, tc.latest); got != tc.want {
			t.Errorf("NeedsUpdating(%q, %q) = %v, want %v", tc.current, tc.latest, got, tc.want)
		}
	}
}

func manifestServer(t *testing.T, version string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/latest.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"` + version + `","downloads":{"` + runtime.GOOS + "-" + runtime.GOARCH + `":"http://` + r.Host + `/yaffe"}}`))
	})
	mux.HandleFunc("/yaffe", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new binary"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	srv := manifestServer(t, "1.2.4")
	c := NewChecker(srv.URL + "/latest.json")

	c.Current = "1.2.3"
	got, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", got.Latest)
	assert.Equal(t, srv.URL+"/yaffe", got.URL)

	c.Current = "1.2.4"
	got, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.URL)

	_, err = NewChecker("").Check(context.Background())
	assert.ErrorIs(t, err, ErrNoUpdateURL)

	_, err = NewChecker(srv.URL + "/missing").Check(context.Background())
	assert.Error(t, err)
}

func TestDownloadJobAndInstall(t *testing.T) {
	srv := manifestServer(t, "9.9.9")
	c := NewChecker(srv.URL + "/latest.json")

	dir := t.TempDir()
	patch := filepath.Join(dir, "updates", "yaffe.new")
	v, err := c.HandleDownloadURL(context.Background(), jobs.DownloadURL{URL: srv.URL + "/yaffe", Dest: patch})
	require.NoError(t, err)
	assert.Equal(t, patch, v)

	app := filepath.Join(dir, "yaffe")
	require.NoError(t, os.WriteFile(app, []byte("old binary"), 0755))
	require.NoError(t, Install(patch, app))

	data, err := os.ReadFile(app)
	require.NoError(t, err)
	assert.Equal(t, "new binary", string(data))
	_, err = os.Stat(patch)
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, Install(patch, app), "a missing patch fails immediately")
}

func TestHandleCheckUpdatesRejectsOtherJobs(t *testing.T) {
	_, err := NewChecker("http://unused").HandleCheckUpdates(context.Background(), jobs.DownloadURL{})
	assert.Error(t, err)
}
