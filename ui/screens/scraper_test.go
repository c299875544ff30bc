package screens

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/scraper"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

func TestPlatformFoundSingleMatch(t *testing.T) {
	f := newFixture(t)
	s := NewScanner(f.st, f.db, f.cb)
	gen := f.st.NextGeneration()

	ctx := newContext()
	s.PlatformFound(ctx, scraper.PlatformResult{
		Job:     jobs.SearchPlatform{Generation: gen, Name: "Genesis", Path: "/usr/bin/blastem", Args: "%ROM%", Folder: "/roms/md"},
		Matches: []scraper.PlatformMatch{{ID: 18, Name: "Sega Genesis"}},
		Files:   []string{"/roms/md/Sonic (USA).md", "/roms/md/Streets_of_Rage.md"},
	})

	require.Len(t, f.cb.jobs, 2)
	first, ok := f.cb.jobs[0].(jobs.SearchGame)
	require.True(t, ok)
	assert.Equal(t, gen, first.Generation)
	assert.Equal(t, "Sonic", first.Name)
	assert.Equal(t, "/roms/md/Sonic (USA).md", first.Exe)
	assert.Equal(t, int64(18), first.Platform)
	assert.Equal(t, "Streets of Rage", f.cb.jobs[1].(jobs.SearchGame).Name)

	p, err := f.db.Platform(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Genesis", p.Name)
	assert.Equal(t, int64(18), p.ScraperID)
	assert.True(t, f.st.TakeDirty())
	assert.Equal(t, []widget.Intent{widget.Toast{Text: "Saved Genesis, 2 new games", Duration: style.ToastDuration}}, ctx.Deferred.Pending())
}

func TestPlatformFoundSkipsKnownGames(t *testing.T) {
	f := newFixture(t)
	s := NewScanner(f.st, f.db, f.cb)
	gen := f.st.NextGeneration()

	ctx := newContext()
	s.PlatformFound(ctx, scraper.PlatformResult{
		Job: jobs.SearchPlatform{Generation: gen, ID: f.snes, Name: "SNES", Path: "/usr/bin/bsnes"},
		Matches: []scraper.PlatformMatch{
			{ID: 6, Name: "Super Nintendo (SNES)"},
			{ID: 4918, Name: "Super Famicom"},
		},
		Files: []string{"/roms/g1.sfc", "/roms/new.sfc"},
	})
	assert.Empty(t, f.cb.jobs, "waits for a pick")

	req := topModal(t, ctx)
	req.Handler.OnClose(ctx, false, req.Content)
	assert.Empty(t, f.cb.jobs, "cancel aborts")

	require.NoError(t, req.Handler.Validate(req.Content))
	req.Handler.OnClose(ctx, true, req.Content)
	require.Len(t, f.cb.jobs, 1)
	assert.Equal(t, "/roms/new.sfc", f.cb.jobs[0].(jobs.SearchGame).Exe)

	p, err := f.db.Platform(f.snes)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/bsnes", p.Path)
	assert.Equal(t, int64(6), p.ScraperID)
}

func TestStaleResultsDropped(t *testing.T) {
	f := newFixture(t)
	s := NewScanner(f.st, f.db, f.cb)
	old := f.st.NextGeneration()
	f.st.NextGeneration()

	ctx := newContext()
	s.PlatformFound(ctx, scraper.PlatformResult{
		Job:   jobs.SearchPlatform{Generation: old, Name: "Genesis"},
		Files: []string{"/roms/md/Sonic.md"},
	})
	s.GameFound(ctx, scraper.GameResult{
		Job: jobs.SearchGame{Generation: old, ID: f.snes, Name: "new", Exe: "/roms/new.sfc"},
	})
	s.Failed(ctx, jobs.SearchGame{Generation: old, ID: f.snes, Name: "new", Exe: "/roms/new.sfc"}, errors.New("timeout"))

	assert.Empty(t, f.cb.jobs)
	assert.Empty(t, ctx.Deferred.Pending())
	assert.False(t, f.st.TakeDirty())
	_, ok := f.game(t, "/roms/new.sfc")
	assert.False(t, ok)
}

func TestGameFound(t *testing.T) {
	f := newFixture(t)
	s := NewScanner(f.st, f.db, f.cb)
	gen := f.st.NextGeneration()
	job := jobs.SearchGame{Generation: gen, ID: f.snes, Name: "chrono", Exe: "/roms/chrono.sfc", Platform: 6}

	s.GameFound(newContext(), scraper.GameResult{Job: job, Matches: []scraper.GameMatch{{
		ID:       1,
		Name:     "Chrono Trigger",
		Overview: "Time travel.",
		Players:  1,
		Rating:   storage.RatingEveryone,
		Released: "1995-03-11",
		Boxart:   "https://cdn.example/boxart/1.jpg",
	}}})

	g, ok := f.game(t, "/roms/chrono.sfc")
	require.True(t, ok)
	assert.Equal(t, "Chrono Trigger", g.Name)
	assert.Equal(t, "Time travel.", g.Overview)
	assert.Equal(t, storage.RatingEveryone, g.Rating)
	assert.Equal(t, "https://cdn.example/boxart/1.jpg", g.Boxart)
	assert.True(t, f.st.TakeDirty())

	// A second result for the same file is ignored
	s.GameFound(newContext(), scraper.GameResult{Job: job})
	games, err := f.db.Games(f.snes)
	require.NoError(t, err)
	assert.Len(t, games, 7)
}

func TestGameFoundPickCancelled(t *testing.T) {
	f := newFixture(t)
	s := NewScanner(f.st, f.db, f.cb)
	gen := f.st.NextGeneration()

	ctx := newContext()
	s.GameFound(ctx, scraper.GameResult{
		Job: jobs.SearchGame{Generation: gen, ID: f.snes, Name: "mario", Exe: "/roms/mario.sfc"},
		Matches: []scraper.GameMatch{
			{ID: 1, Name: "Super Mario World"},
			{ID: 2, Name: "Super Mario Kart"},
		},
	})
	_, ok := f.game(t, "/roms/mario.sfc")
	assert.False(t, ok)

	req := topModal(t, ctx)
	req.Handler.OnClose(ctx, false, req.Content)
	g, ok := f.game(t, "/roms/mario.sfc")
	require.True(t, ok)
	assert.Equal(t, "mario", g.Name)
}

func TestFailedSearchAddsBareGame(t *testing.T) {
	f := newFixture(t)
	s := NewScanner(f.st, f.db, f.cb)
	gen := f.st.NextGeneration()

	ctx := newContext()
	s.Failed(ctx, jobs.SearchGame{Generation: gen, ID: f.snes, Name: "earthbound", Exe: "/roms/eb.sfc"}, errors.New("timeout"))
	g, ok := f.game(t, "/roms/eb.sfc")
	require.True(t, ok)
	assert.Equal(t, "earthbound", g.Name)

	s.Failed(ctx, jobs.SearchPlatform{Generation: gen, Name: "Genesis"}, errors.New("timeout"))
	assert.Equal(t, []widget.Intent{widget.Toast{Text: "Search for Genesis failed: timeout", Duration: style.ToastDuration}}, ctx.Deferred.Pending())
}
