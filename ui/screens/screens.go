// Package screens builds the front-end's widget trees: the main screen with
// its platform list and tile grid, and the contents of the management
// modals (menu, settings, platform detail, scraper results, overlay).
package screens

import (
	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/widget"
)

// Callback is what the screens need from the application.
type Callback interface {
	// Enqueue hands a job to the worker pool.
	Enqueue(job jobs.Job)
	// SettingsChanged saves the settings file and applies the new values.
	SettingsChanged() error
	// Exit ends the application after the current frame.
	Exit()
}

// Catalog is the part of the metadata store the management screens write.
// *storage.DB satisfies it.
type Catalog interface {
	Platform(id int64) (storage.Platform, error)
	InsertPlatform(p storage.Platform) (int64, error)
	UpdatePlatform(p storage.Platform) error
	DeletePlatform(id int64) error
	HasGame(platformID int64, file string) (bool, error)
	InsertGames(games []storage.Game) error
}

// requireUnlocked runs fn directly when restricted mode is unlocked.
// Otherwise it asks for the passcode first and runs fn unlocked, locking
// again afterwards.
func requireUnlocked(ctx *widget.Context, st *state.State, fn func(ctx *widget.Context)) {
	if !st.Locked() {
		fn(ctx)
		return
	}
	code := st.Passcode()
	ctx.Deferred.Modal(modal.Passcode(code, func(ctx *widget.Context) {
		st.Unlock(code)
		defer st.Lock()
		fn(ctx)
	}))
}

func showError(ctx *widget.Context, err error) {
	ctx.Deferred.Message("Error", err.Error())
}
