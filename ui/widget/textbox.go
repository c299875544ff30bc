package widget

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/style"
)

// TextBox is a single line of editable text. Characters arrive as KeyPress
// actions, typed or from the gamepad buttons in input.ButtonRunes; Left and
// Right move the cursor.
type TextBox struct {
	Base
	Placeholder string
	// MaxLen limits the number of runes, 0 for no limit.
	MaxLen   int
	OnChange func(ctx *Context, text string)

	text   []rune
	cursor int
	mask   rune
}

// NewTextBox creates a text box holding text.
func NewTextBox(text string) *TextBox {
	t := &TextBox{Base: NewBase()}
	t.SetText(text)
	return t
}

// Text returns the current contents.
func (t *TextBox) Text() string {
	return string(t.text)
}

// SetText replaces the contents and moves the cursor to the end.
func (t *TextBox) SetText(s string) {
	t.text = []rune(s)
	if t.MaxLen > 0 && len(t.text) > t.MaxLen {
		t.text = t.text[:t.MaxLen]
	}
	t.cursor = len(t.text)
}

// Cursor returns the cursor position in runes.
func (t *TextBox) Cursor() int {
	return t.cursor
}

func (t *TextBox) insert(ctx *Context, s string) bool {
	changed := false
	for _, r := range s {
		if r < ' ' || r == 0x7f {
			continue
		}
		if t.MaxLen > 0 && len(t.text) >= t.MaxLen {
			break
		}
		t.text = append(t.text, 0)
		copy(t.text[t.cursor+1:], t.text[t.cursor:])
		t.text[t.cursor] = r
		t.cursor++
		changed = true
	}
	if changed {
		t.changed(ctx)
	}
	return changed
}

func (t *TextBox) changed(ctx *Context) {
	if t.OnChange != nil {
		t.OnChange(ctx, string(t.text))
	}
}

func (t *TextBox) Action(ctx *Context, a input.Action) bool {
	if r, ok := a.IsChar(); ok {
		t.insert(ctx, string(r))
		return true
	}
	if r, ok := a.IsButtonChar(); ok {
		t.insert(ctx, string(r))
		return true
	}
	switch {
	case a.Kind == input.Left:
		if t.cursor > 0 {
			t.cursor--
		}
		return true
	case a.Kind == input.Right:
		if t.cursor < len(t.text) {
			t.cursor++
		}
		return true
	case a.IsKey(ebiten.KeyBackspace), a.IsButton(input.ButtonErase):
		if t.cursor > 0 {
			t.text = append(t.text[:t.cursor-1], t.text[t.cursor:]...)
			t.cursor--
			t.changed(ctx)
		}
		return true
	case a.IsKey(ebiten.KeyDelete):
		if t.cursor < len(t.text) {
			t.text = append(t.text[:t.cursor], t.text[t.cursor+1:]...)
			t.changed(ctx)
		}
		return true
	case a.IsKey(ebiten.KeyHome):
		t.cursor = 0
		return true
	case a.IsKey(ebiten.KeyEnd):
		t.cursor = len(t.text)
		return true
	case a.IsKey(ebiten.KeyV):
		if ctx.Clipboard != nil {
			t.insert(ctx, strings.ReplaceAll(ctx.Clipboard(), "\n", " "))
		}
		return true
	}
	return false
}

func (t *TextBox) display() string {
	if t.mask == 0 {
		return string(t.text)
	}
	return strings.Repeat(string(t.mask), len(t.text))
}

func (t *TextBox) Size(g Graphics) Size {
	s := g.MeasureText(t.display(), style.FontSize, 0)
	s.H += 2 * style.SmallSpacing
	return s
}

func (t *TextBox) Render(g Graphics, focused ID) {
	r := t.DrawRect()
	g.FillRect(r, style.Surface)

	shown, c := t.display(), style.Text
	if len(t.text) == 0 {
		shown, c = t.Placeholder, style.TextSecondary
	}
	x := r.X + style.SmallSpacing
	y := r.Y + (r.H-style.FontSize)/2
	g.DrawText(shown, x, y, style.FontSize, c, 0)

	if focused == t.id {
		prefix := string(t.text[:t.cursor])
		if t.mask != 0 {
			prefix = strings.Repeat(string(t.mask), t.cursor)
		}
		cx := x + g.MeasureText(prefix, style.FontSize, 0).W
		g.FillRect(Rect{X: cx, Y: y, W: 2, H: style.FontSize}, style.Text)
		g.StrokeRect(r, style.OutlineWidth, style.Accent)
	}
}

// PasswordBox is a TextBox that echoes a mask character.
type PasswordBox struct {
	TextBox
}

// NewPasswordBox creates a masked box holding at most maxLen runes.
func NewPasswordBox(maxLen int) *PasswordBox {
	p := &PasswordBox{TextBox: TextBox{Base: NewBase(), MaxLen: maxLen, mask: '*'}}
	return p
}
