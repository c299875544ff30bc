package widget

import (
	"log"
	"time"

	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/input"
)

// RevertDebounce is the window within which a second revert unwinds the
// focus stack instead of popping a single entry.
const RevertDebounce = 200 * time.Millisecond

// Tree is the widget tree with its focus stack. It is owned by the UI thread.
type Tree struct {
	root  Parent
	focus []ID

	lastRevert time.Time
}

// NewTree creates a tree. The root fills the window and starts focused.
func NewTree(root Parent) *Tree {
	return &Tree{root: root, focus: []ID{root.ID()}}
}

// Root returns the root container.
func (t *Tree) Root() Parent {
	return t.root
}

// SetRoot replaces the root and resets focus to it.
func (t *Tree) SetRoot(root Parent) {
	t.root = root
	t.focus = []ID{root.ID()}
}

// FindWidget searches the tree for id.
func (t *Tree) FindWidget(id ID) (Widget, bool) {
	path := t.Path(id)
	if len(path) == 0 {
		return nil, false
	}
	return path[len(path)-1], true
}

// Path returns the widgets from the root down to id, or nil when id is
// not in the tree.
func (t *Tree) Path(id ID) []Widget {
	var path []Widget
	if find(t.root, id, &path) {
		return path
	}
	return nil
}

func find(w Widget, id ID, path *[]Widget) bool {
	*path = append(*path, w)
	if w.ID() == id {
		return true
	}
	if p, ok := w.(Parent); ok {
		for _, c := range p.Children() {
			if find(c, id, path) {
				return true
			}
		}
	}
	*path = (*path)[:len(*path)-1]
	return false
}

// Focused returns the identity at the top of the focus stack.
func (t *Tree) Focused() ID {
	return t.focus[len(t.focus)-1]
}

// FocusStack returns a copy of the focus stack, bottom first.
func (t *Tree) FocusStack() []ID {
	out := make([]ID, len(t.focus))
	copy(out, t.focus)
	return out
}

// Focus pushes id onto the focus stack, notifying the previous and new
// widgets. Focusing the current top is a no-op.
func (t *Tree) Focus(ctx *Context, id ID) {
	prev := t.Focused()
	if prev == id {
		return
	}
	next, ok := t.FindWidget(id)
	if !ok {
		log.Printf("Failed to focus widget %d: not in tree", id)
		return
	}
	if w, ok := t.FindWidget(prev); ok {
		w.LostFocus(ctx)
	}
	t.focus = append(t.focus, id)
	next.GotFocus(ctx)
}

// RevertFocus pops the focus stack. A revert within RevertDebounce of the
// previous one unwinds to the first entry above the bottom, so a rapid
// double back leaves deep navigation in one step. The bottom entry is
// never popped.
func (t *Tree) RevertFocus(ctx *Context) {
	now := ctx.Now
	debounced := !t.lastRevert.IsZero() && now.Sub(t.lastRevert) <= RevertDebounce
	t.lastRevert = now

	if len(t.focus) <= 1 {
		return
	}
	prev := t.Focused()

	if debounced && len(t.focus) > 2 {
		t.focus = t.focus[:2]
	} else {
		t.focus = t.focus[:len(t.focus)-1]
	}
	t.collapse()

	top := t.Focused()
	if top == prev {
		return
	}
	if w, ok := t.FindWidget(prev); ok {
		w.LostFocus(ctx)
	}
	if w, ok := t.FindWidget(top); ok {
		w.GotFocus(ctx)
	}
}

// collapse drops consecutive duplicates at the top of the stack.
func (t *Tree) collapse() {
	for n := len(t.focus); n > 1 && t.focus[n-1] == t.focus[n-2]; n-- {
		t.focus = t.focus[:n-1]
	}
}

// Action delivers a to the focused widget, then bubbles it to each ancestor
// until one consumes it.
func (t *Tree) Action(ctx *Context, a input.Action) bool {
	path := t.Path(t.Focused())
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Action(ctx, a) {
			return true
		}
	}
	return false
}

// Render sizes the root to the window and draws the tree.
func (t *Tree) Render(g Graphics, window Rect) {
	t.root.SetBounds(window)
	g.SetBounds(window)
	t.root.Render(g, t.Focused())
}

// Lookup resolves identities for the animation engine.
func (t *Tree) Lookup(id ID) (anim.Animatable, bool) {
	w, ok := t.FindWidget(id)
	if !ok {
		return nil, false
	}
	a, ok := w.(anim.Animatable)
	return a, ok
}
