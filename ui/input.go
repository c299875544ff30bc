package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/user-none/yaffe/ui/input"
)

// InputManager polls the router once per frame and handles the window keys
// that never reach the widget tree.
type InputManager struct {
	router *input.Router
}

// NewInputManager creates an input manager with the default bindings.
func NewInputManager() *InputManager {
	return &InputManager{router: input.NewRouter()}
}

// Update returns this frame's actions. F11 toggles fullscreen.
func (im *InputManager) Update() []input.Action {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	return im.router.Poll()
}
