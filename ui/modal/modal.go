// Package modal is the stack of modal layers drawn above the widget tree.
// Only the top modal receives input. Accept asks the modal's handler to
// validate before closing; Back always closes without validation.
package modal

import (
	"sync"

	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// Modal is one layer of the stack.
type Modal struct {
	Title   string
	Confirm string
	Size    widget.ModalSize
	Content *widget.Container
	Handler widget.ModalHandler

	frame *widget.Container
	tree  *widget.Tree
}

func newModal(req widget.ModalRequest) *Modal {
	m := &Modal{
		Title:   req.Title,
		Confirm: req.Confirm,
		Size:    req.Size,
		Content: req.Content,
		Handler: req.Handler,
	}
	if m.Content == nil {
		m.Content = widget.NewContainer(widget.Column)
	}

	title := widget.NewLabel(req.Title)
	title.FontSize = style.TitleFontSize
	titleBar := widget.NewContainer(widget.Row).
		WithBackground(widget.Solid(style.Accent)).
		WithPadding(style.SmallSpacing).
		Add(title, widget.Fill())

	m.frame = widget.NewContainer(widget.Column).
		WithBackground(widget.PanelOf(style.Surface)).
		Add(titleBar, widget.Fixed(style.TitleBarHeight)).
		Add(m.Content.WithPadding(style.DefaultPadding), widget.Fill())
	if req.Confirm != "" {
		m.frame.Add(toolbar(req.Confirm), widget.Fixed(style.ToolbarHeight))
	}
	m.tree = widget.NewTree(m.frame)
	return m
}

func toolbar(confirm string) *widget.Container {
	bar := widget.NewContainer(widget.Row).WithPadding(style.TinySpacing)
	bar.Justify = widget.End
	icon := style.ToolbarHeight - 2*style.TinySpacing
	accept := widget.NewLabel(confirm)
	cancel := widget.NewLabel("Cancel")
	return bar.
		Add(widget.NewImage(assets.Static(assets.ImageButtonA)), widget.Fixed(icon)).
		Add(accept, widget.Shrink(0)).
		Add(widget.NewContainer(widget.Row), widget.Fixed(style.DefaultSpacing)).
		Add(widget.NewImage(assets.Static(assets.ImageButtonB)), widget.Fixed(icon)).
		Add(cancel, widget.Shrink(0))
}

// Tree returns the modal's own widget tree. Focus inside a modal is kept
// separately from the main tree.
func (m *Modal) Tree() *widget.Tree {
	return m.tree
}

// Rect returns the modal's rectangle within window: centered horizontally,
// width by size class, height from the content's natural size.
func (m *Modal) Rect(g widget.Graphics, window widget.Rect) widget.Rect {
	w := window.W * m.Size.Fraction()
	h := window.H
	if m.Size != widget.ModalFull {
		h = style.TitleBarHeight + m.contentHeight(g) + 2*style.DefaultPadding
		if m.Confirm != "" {
			h += style.ToolbarHeight
		}
		if max := window.H * 0.8; h > max {
			h = max
		}
	}
	return widget.Rect{
		X: window.X + (window.W-w)/2,
		Y: window.Y + (window.H-h)/2,
		W: w,
		H: h,
	}
}

func (m *Modal) contentHeight(g widget.Graphics) float32 {
	var h float32
	for _, c := range m.Content.Children() {
		h += c.Size(g).H
	}
	return h
}

// Stack holds the open modals, top last.
type Stack struct {
	mu     sync.Mutex
	modals []*Modal
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Len returns the number of open modals.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.modals)
}

// Top returns the top modal.
func (s *Stack) Top() (*Modal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.modals) == 0 {
		return nil, false
	}
	return s.modals[len(s.modals)-1], true
}

// Push opens a modal and focuses req.Focus inside it.
func (s *Stack) Push(ctx *widget.Context, req widget.ModalRequest) *Modal {
	m := newModal(req)
	s.mu.Lock()
	s.modals = append(s.modals, m)
	s.mu.Unlock()

	if req.Focus != widget.NoID {
		m.tree.Focus(ctx, req.Focus)
	}
	return m
}

// Close closes the top modal. An accepting close runs the handler's
// Validate first; a validation error keeps the modal open and is shown as
// a toast. It reports whether a modal was closed.
func (s *Stack) Close(ctx *widget.Context, accepted bool) bool {
	m, ok := s.Top()
	if !ok {
		return false
	}
	if accepted && m.Handler != nil {
		if err := m.Handler.Validate(m.Content); err != nil {
			ctx.Deferred.Toast(err.Error(), style.ToastDuration)
			return false
		}
	}

	s.mu.Lock()
	s.modals = s.modals[:len(s.modals)-1]
	s.mu.Unlock()

	if m.Handler != nil {
		m.Handler.OnClose(ctx, accepted, m.Content)
	}
	return true
}

// Action delivers a to the top modal. Back always requests a cancelling
// close. Accept that no content widget consumes requests an accepting
// close. It reports false when no modal is open.
func (s *Stack) Action(ctx *widget.Context, a input.Action) bool {
	m, ok := s.Top()
	if !ok {
		return false
	}
	if a.Kind == input.Back {
		ctx.Deferred.Close(false)
		return true
	}
	if m.tree.Action(ctx, a) {
		return true
	}
	if a.Kind == input.Accept {
		ctx.Deferred.Close(true)
	}
	// The modal captures all input while open.
	return true
}

// Render darkens the window and draws the top modal.
func (s *Stack) Render(g widget.Graphics, window widget.Rect) {
	m, ok := s.Top()
	if !ok {
		return
	}
	g.FillRect(window, style.Overlay)
	m.tree.Render(g, m.Rect(g, window))
}

// Lookup resolves identities inside any open modal for the animation engine.
func (s *Stack) Lookup(id widget.ID) (anim.Animatable, bool) {
	s.mu.Lock()
	modals := append([]*Modal(nil), s.modals...)
	s.mu.Unlock()
	for i := len(modals) - 1; i >= 0; i-- {
		if a, ok := modals[i].tree.Lookup(id); ok {
			return a, true
		}
	}
	return nil, false
}
