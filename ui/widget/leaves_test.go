package widget_test

import (
	"slices"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
	"github.com/user-none/yaffe/ui/widget/widgettest"
)

func typeString(ctx *widget.Context, w widget.Widget, s string) {
	for _, r := range s {
		w.Action(ctx, input.Char(r))
	}
}

func TestTextBoxEditing(t *testing.T) {
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	tb := widget.NewTextBox("")
	var changes []string
	tb.OnChange = func(_ *widget.Context, s string) { changes = append(changes, s) }

	typeString(ctx, tb, "helo")
	tb.Action(ctx, input.Action{Kind: input.Left})
	typeString(ctx, tb, "l")
	if got := tb.Text(); got != "hello" {
		t.Fatalf("Text = %q, want hello", got)
	}
	if tb.Cursor() != 4 {
		t.Errorf("Cursor = %d, want 4", tb.Cursor())
	}

	tb.Action(ctx, input.Key(ebiten.KeyEnd))
	tb.Action(ctx, input.Key(ebiten.KeyBackspace))
	if got := tb.Text(); got != "hell" {
		t.Errorf("after backspace Text = %q", got)
	}
	tb.Action(ctx, input.Key(ebiten.KeyHome))
	tb.Action(ctx, input.Key(ebiten.KeyDelete))
	if got := tb.Text(); got != "ell" {
		t.Errorf("after delete Text = %q", got)
	}
	if changes[len(changes)-1] != "ell" || len(changes) != 7 {
		t.Errorf("changes = %v", changes)
	}

	if tb.Action(ctx, input.Action{Kind: input.Accept}) {
		t.Error("text box should not consume Accept")
	}
}

func TestTextBoxMaxLenAndPaste(t *testing.T) {
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	ctx.Clipboard = func() string { return "ab\ncdefgh" }

	tb := widget.NewTextBox("")
	tb.MaxLen = 5
	tb.Action(ctx, input.Key(ebiten.KeyV))
	if got := tb.Text(); got != "ab cd" {
		t.Errorf("Text = %q, want %q", got, "ab cd")
	}
	typeString(ctx, tb, "z")
	if got := tb.Text(); got != "ab cd" {
		t.Errorf("typing past MaxLen changed text to %q", got)
	}
}

func TestPasswordBoxMasks(t *testing.T) {
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	pb := widget.NewPasswordBox(8)
	typeString(ctx, pb, "123456789")
	if got := pb.Text(); got != "12345678" {
		t.Fatalf("Text = %q, want 8 runes", got)
	}

	g := widgettest.New()
	pb.SetBounds(widget.Rect{W: 200, H: 40})
	pb.Render(g, pb.ID())
	if texts := g.Texts(); !slices.Contains(texts, "********") || slices.Contains(texts, "12345678") {
		t.Errorf("rendered %v", texts)
	}
}

func TestTextBoxGamepadEntry(t *testing.T) {
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	pb := widget.NewPasswordBox(8)

	for _, b := range []ebiten.StandardGamepadButton{
		ebiten.StandardGamepadButtonFrontTopRight,
		ebiten.StandardGamepadButtonFrontBottomLeft,
		ebiten.StandardGamepadButtonFrontTopLeft,
	} {
		if !pb.Action(ctx, input.Button(b)) {
			t.Fatalf("button %d not consumed", b)
		}
	}
	if got := pb.Text(); got != "231" {
		t.Fatalf("Text = %q, want 231", got)
	}

	pb.Action(ctx, input.Button(input.ButtonErase))
	if got := pb.Text(); got != "23" {
		t.Errorf("after erase Text = %q, want 23", got)
	}
	if pb.Action(ctx, input.Button(ebiten.StandardGamepadButtonCenterCenter)) {
		t.Error("a button without a character should bubble")
	}
}

func TestCheckboxToggle(t *testing.T) {
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	cb := widget.NewCheckbox("Run at startup", false)
	var got []bool
	cb.OnChange = func(_ *widget.Context, v bool) { got = append(got, v) }

	cb.Action(ctx, input.Action{Kind: input.Accept})
	cb.Action(ctx, input.Action{Kind: input.Accept})
	if cb.Action(ctx, input.Action{Kind: input.Left}) {
		t.Error("Left should not be consumed")
	}
	if !slices.Equal(got, []bool{true, false}) || cb.Checked {
		t.Errorf("changes = %v checked=%v", got, cb.Checked)
	}
}

func TestListNavigation(t *testing.T) {
	engine := anim.NewEngine[widget.ID]()
	ctx := widget.NewContext(engine, time.Unix(0, 0))

	items := []widget.StringItem{"a", "b", "c", "d", "e", "f"}
	l := widget.NewList(items)
	l.SetBounds(widget.Rect{W: 100, H: 3 * style.ListRowHeight})
	var accepted []string
	l.OnAccept = func(_ *widget.Context, it widget.StringItem) { accepted = append(accepted, string(it)) }

	if l.Action(ctx, input.Action{Kind: input.Up}) {
		t.Error("Up at the top should bubble")
	}
	for i := 0; i < 3; i++ {
		l.Action(ctx, input.Action{Kind: input.Down})
	}
	if l.Selected != 3 {
		t.Fatalf("Selected = %d, want 3", l.Selected)
	}
	if !engine.IsDirty() {
		t.Error("moving past the last visible row should animate the scroll")
	}
	engine.Step(func(id widget.ID) (anim.Animatable, bool) { return l, id == l.ID() }, time.Second)
	if l.Scroll != style.ListRowHeight {
		t.Errorf("Scroll = %v, want one row", l.Scroll)
	}

	l.Action(ctx, input.Action{Kind: input.Accept})
	if !slices.Equal(accepted, []string{"d"}) {
		t.Errorf("accepted = %v", accepted)
	}

	l.SetItems(items[:2])
	if l.Selected != 1 || l.Scroll != 0 {
		t.Errorf("after SetItems selected=%d scroll=%v", l.Selected, l.Scroll)
	}
	l.SetItems(nil)
	if _, ok := l.SelectedItem(); ok {
		t.Error("empty list has no selection")
	}
}

func TestLabelAlignment(t *testing.T) {
	g := widgettest.New()
	l := widget.NewLabel("abcd")
	l.Align = widget.Center
	l.SetBounds(widget.Rect{X: 0, Y: 0, W: 100, H: 40})
	l.Render(g, widget.NoID)

	if len(g.Ops) != 1 {
		t.Fatalf("ops = %d, want 1", len(g.Ops))
	}
	// 4 runes at 10 units centered in 100
	if x := g.Ops[0].Rect.X; x != 30 {
		t.Errorf("x = %v, want 30", x)
	}
}

func TestImageFallback(t *testing.T) {
	g := widgettest.New()
	key := assets.File("/roms/boxart.png")
	img := widget.NewImage(key)
	img.SetBounds(widget.Rect{W: 10, H: 10})

	img.Render(g, widget.NoID)
	if len(g.Ops) != 2 || g.Ops[1].Key != assets.Static(assets.ImagePlaceholder) {
		t.Errorf("loading image should draw the placeholder, ops = %+v", g.Ops)
	}

	g.Reset()
	g.Ready[key] = true
	img.Render(g, widget.NoID)
	if len(g.Ops) != 1 {
		t.Errorf("loaded image should draw once, ops = %+v", g.Ops)
	}
}

func TestButtonPress(t *testing.T) {
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	presses := 0
	b := widget.NewButton("Browse", func(*widget.Context) { presses++ })

	if !b.Action(ctx, input.Action{Kind: input.Accept}) {
		t.Error("Accept should be consumed")
	}
	if presses != 1 {
		t.Errorf("presses = %d, want 1", presses)
	}
	if b.Action(ctx, input.Action{Kind: input.Down}) {
		t.Error("Down should bubble")
	}

	g := widgettest.New()
	b.SetBounds(widget.Rect{W: 200, H: 40})
	b.Render(g, b.ID())
	if g.Ops[0].Kind != "panel" || g.Ops[0].Color != style.Fade(style.Accent, 1) {
		t.Errorf("focused button drew %+v", g.Ops[0])
	}
	if texts := g.Texts(); !slices.Equal(texts, []string{"Browse"}) {
		t.Errorf("texts = %v", texts)
	}
}
