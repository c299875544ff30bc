package screens

import (
	"fmt"
	"log"

	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/scraper"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// Scanner turns scraper results into catalog rows. Results from a scan
// older than the state's current generation are dropped.
type Scanner struct {
	st      *state.State
	catalog Catalog
	cb      Callback
}

// NewScanner creates a scanner saving into catalog.
func NewScanner(st *state.State, catalog Catalog, cb Callback) *Scanner {
	return &Scanner{st: st, catalog: catalog, cb: cb}
}

func (s *Scanner) stale(gen uint64) bool {
	if gen != s.st.Generation() {
		log.Printf("Dropping result of stale scan %d", gen)
		return true
	}
	return false
}

// PlatformFound saves the platform of a finished search. With several
// matches the user picks one; cancelling the pick aborts the save.
func (s *Scanner) PlatformFound(ctx *widget.Context, r scraper.PlatformResult) {
	if s.stale(r.Job.Generation) {
		return
	}
	switch len(r.Matches) {
	case 0:
		s.save(ctx, r, 0)
	case 1:
		s.save(ctx, r, r.Matches[0].ID)
	default:
		req, list := modal.List("Select "+r.Job.Name, r.Matches, func(ctx *widget.Context, m scraper.PlatformMatch) {
			s.save(ctx, r, m.ID)
		})
		list.Selected = 0
		ctx.Deferred.Modal(req)
	}
}

func (s *Scanner) save(ctx *widget.Context, r scraper.PlatformResult, scraperID int64) {
	p := storage.Platform{
		ID:        r.Job.ID,
		Name:      r.Job.Name,
		Path:      r.Job.Path,
		Args:      r.Job.Args,
		Folder:    r.Job.Folder,
		ScraperID: scraperID,
	}
	if p.ID == 0 {
		id, err := s.catalog.InsertPlatform(p)
		if err != nil {
			showError(ctx, fmt.Errorf("failed to add %s: %w", p.Name, err))
			return
		}
		p.ID = id
	} else if err := s.catalog.UpdatePlatform(p); err != nil {
		showError(ctx, fmt.Errorf("failed to update %s: %w", p.Name, err))
		return
	}
	s.st.MarkDirty()

	queued := 0
	for _, f := range r.Files {
		has, err := s.catalog.HasGame(p.ID, f)
		if err != nil {
			log.Printf("Failed to check %s: %v", f, err)
			continue
		}
		if has {
			continue
		}
		s.cb.Enqueue(jobs.SearchGame{
			Generation: r.Job.Generation,
			ID:         p.ID,
			Name:       scraper.GameName(f),
			Exe:        f,
			Platform:   scraperID,
		})
		queued++
	}
	ctx.Deferred.Toast(fmt.Sprintf("Saved %s, %d new games", p.Name, queued), style.ToastDuration)
}

// GameFound adds the game of a finished search. With several matches the
// user picks one; cancelling the pick adds the game without metadata.
func (s *Scanner) GameFound(ctx *widget.Context, r scraper.GameResult) {
	if s.stale(r.Job.Generation) {
		return
	}
	switch len(r.Matches) {
	case 0:
		s.insert(ctx, r.Job, nil)
	case 1:
		s.insert(ctx, r.Job, &r.Matches[0])
	default:
		req, list := modal.List(r.Job.Name, r.Matches, nil)
		list.Selected = 0
		req.Handler = widget.ModalFuncs{
			ValidateFunc: req.Handler.Validate,
			CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
				if m, ok := list.SelectedItem(); accepted && ok {
					s.insert(ctx, r.Job, &m)
					return
				}
				s.insert(ctx, r.Job, nil)
			},
		}
		ctx.Deferred.Modal(req)
	}
}

func (s *Scanner) insert(ctx *widget.Context, j jobs.SearchGame, m *scraper.GameMatch) {
	has, err := s.catalog.HasGame(j.ID, j.Exe)
	if err != nil {
		log.Printf("Failed to check %s: %v", j.Exe, err)
		return
	}
	if has {
		return
	}
	g := storage.Game{PlatformID: j.ID, Name: j.Name, File: j.Exe}
	if m != nil {
		g.Name = m.Name
		g.Overview = m.Overview
		g.Players = m.Players
		g.Rating = m.Rating
		g.Released = m.Released
		g.Boxart = m.Boxart
	}
	if err := s.catalog.InsertGames([]storage.Game{g}); err != nil {
		showError(ctx, fmt.Errorf("failed to add %s: %w", g.Name, err))
		return
	}
	s.st.MarkDirty()
}

// Failed reports a failed scraper job. A game whose search failed is still
// added, without metadata.
func (s *Scanner) Failed(ctx *widget.Context, job jobs.Job, err error) {
	switch j := job.(type) {
	case jobs.SearchGame:
		if s.stale(j.Generation) {
			return
		}
		log.Printf("Failed to search for %s: %v", j.Name, err)
		s.insert(ctx, j, nil)
	case jobs.SearchPlatform:
		if s.stale(j.Generation) {
			return
		}
		ctx.Deferred.Toast(fmt.Sprintf("Search for %s failed: %v", j.Name, err), style.ToastDuration)
	}
}
