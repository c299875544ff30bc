package modal

import (
	"errors"

	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

var (
	// ErrNoSelection is the validation error of a list modal with nothing selected.
	ErrNoSelection = errors.New("Select an item first")

	// ErrWrongPasscode is the validation error of a passcode modal.
	ErrWrongPasscode = errors.New("Incorrect passcode")
)

// List builds a list modal. The list starts with nothing selected; Accept
// is refused until an item is picked, then onPick runs.
func List[T widget.ListItem](title string, items []T, onPick func(ctx *widget.Context, item T)) (widget.ModalRequest, *widget.List[T]) {
	list := widget.NewList(items)
	list.Selected = -1
	content := widget.NewContainer(widget.Column).Add(list, widget.Fill())

	req := widget.ModalRequest{
		Title:   title,
		Confirm: "Select",
		Content: content,
		Size:    widget.ModalHalf,
		Focus:   list.ID(),
		Handler: widget.ModalFuncs{
			ValidateFunc: func(*widget.Container) error {
				if _, ok := list.SelectedItem(); !ok {
					return ErrNoSelection
				}
				return nil
			},
			CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
				if !accepted || onPick == nil {
					return
				}
				if item, ok := list.SelectedItem(); ok {
					onPick(ctx, item)
				}
			},
		},
	}
	return req, list
}

// Message builds a read-only message modal closed by Accept or Back.
func Message(title, text string) widget.ModalRequest {
	label := widget.NewLabel(text)
	label.Wrap = true
	return widget.ModalRequest{
		Title:   title,
		Confirm: "OK",
		Content: widget.NewContainer(widget.Column).Add(label, widget.Shrink(style.FontSize)),
		Size:    widget.ModalHalf,
	}
}

// Passcode builds the restricted-mode code entry modal. Accept is refused
// until the typed code matches; then onUnlock runs.
func Passcode(code string, onUnlock func(ctx *widget.Context)) widget.ModalRequest {
	box := widget.NewPasswordBox(8)
	box.Placeholder = "Passcode"
	return widget.ModalRequest{
		Title:   "Restricted",
		Confirm: "Unlock",
		Content: widget.NewContainer(widget.Column).Add(box, widget.Fixed(style.FontSize+2*style.SmallSpacing)),
		Size:    widget.ModalThird,
		Focus:   box.ID(),
		Handler: widget.ModalFuncs{
			ValidateFunc: func(*widget.Container) error {
				if box.Text() != code {
					box.SetText("")
					return ErrWrongPasscode
				}
				return nil
			},
			CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
				if accepted && onUnlock != nil {
					onUnlock(ctx)
				}
			},
		},
	}
}
