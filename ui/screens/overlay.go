package screens

import (
	"log"

	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// maxTitleLen bounds the running game's name in the overlay title.
const maxTitleLen = 40

type overlayChoice struct {
	label string
	kill  bool
}

func (c overlayChoice) DisplayString() string { return c.label }

// OverlayModal is shown over a running game: resume it or end it.
func OverlayModal(st *state.State) widget.ModalRequest {
	_, name := st.Running()
	title, _ := style.TruncateEnd(name, maxTitleLen)
	choices := []overlayChoice{{label: "Resume"}, {label: "Exit Game", kill: true}}
	req, list := modal.List(title, choices, func(ctx *widget.Context, c overlayChoice) {
		if !c.kill {
			return
		}
		if err := st.KillProcess(); err != nil {
			log.Printf("Failed to stop %s: %v", name, err)
		}
		if err := st.RefreshRecents(); err != nil {
			log.Printf("Failed to refresh recents: %v", err)
		}
	})
	list.Selected = 0
	req.Size = widget.ModalThird
	return req
}
