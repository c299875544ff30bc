package modal_test

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
	"github.com/user-none/yaffe/ui/widget/widgettest"
)

// stackTarget resolves modal intents against a stack.
type stackTarget struct {
	stack  *modal.Stack
	toasts []string
}

func (st *stackTarget) FocusWidget(ctx *widget.Context, id widget.ID) {
	if m, ok := st.stack.Top(); ok {
		m.Tree().Focus(ctx, id)
	}
}

func (st *stackTarget) RevertFocus(*widget.Context)                   {}
func (st *stackTarget) LoadPlugin(*widget.Context, widget.PluginLoad) {}
func (st *stackTarget) Reload(*widget.Context)                        {}

func (st *stackTarget) DisplayMessage(ctx *widget.Context, title, text string) {
	st.stack.Push(ctx, modal.Message(title, text))
}

func (st *stackTarget) DisplayModal(ctx *widget.Context, req widget.ModalRequest) {
	st.stack.Push(ctx, req)
}

func (st *stackTarget) CloseModal(ctx *widget.Context, accepted bool) {
	st.stack.Close(ctx, accepted)
}

func (st *stackTarget) Toast(_ *widget.Context, text string, _ time.Duration) {
	st.toasts = append(st.toasts, text)
}

func setup() (*modal.Stack, *stackTarget, *widget.Context) {
	stack := modal.NewStack()
	return stack, &stackTarget{stack: stack}, widget.NewContext(nil, time.Unix(0, 0))
}

func send(t *testing.T, stack *modal.Stack, st *stackTarget, ctx *widget.Context, k input.Kind) {
	t.Helper()
	require.True(t, stack.Action(ctx, input.Action{Kind: k}), "open modal should capture %v", k)
	ctx.Deferred.Drain(st, ctx)
}

func TestListModalValidation(t *testing.T) {
	stack, st, ctx := setup()

	var picked []widget.StringItem
	req, list := modal.List("Platform", []widget.StringItem{"NES", "SNES", "Genesis"},
		func(_ *widget.Context, item widget.StringItem) { picked = append(picked, item) })
	stack.Push(ctx, req)
	require.Equal(t, list.ID(), mustTop(t, stack).Tree().Focused())

	send(t, stack, st, ctx, input.Accept)
	assert.Equal(t, 1, stack.Len(), "modal should stay open without a selection")
	assert.Equal(t, []string{modal.ErrNoSelection.Error()}, st.toasts)
	assert.Empty(t, picked)

	send(t, stack, st, ctx, input.Down)
	send(t, stack, st, ctx, input.Down)
	send(t, stack, st, ctx, input.Accept)
	assert.Equal(t, 0, stack.Len())
	assert.Equal(t, []widget.StringItem{"SNES"}, picked)
}

func TestBackClosesWithoutValidation(t *testing.T) {
	stack, st, ctx := setup()

	var closes []bool
	validated := 0
	stack.Push(ctx, widget.ModalRequest{
		Title:   "Settings",
		Confirm: "Save",
		Size:    widget.ModalFull,
		Handler: widget.ModalFuncs{
			ValidateFunc: func(*widget.Container) error { validated++; return modal.ErrNoSelection },
			CloseFunc:    func(_ *widget.Context, accepted bool, _ *widget.Container) { closes = append(closes, accepted) },
		},
	})

	send(t, stack, st, ctx, input.Back)
	assert.Equal(t, 0, stack.Len())
	assert.Equal(t, []bool{false}, closes)
	assert.Zero(t, validated)

	assert.False(t, stack.Action(ctx, input.Action{Kind: input.Back}), "no modal open")
	assert.False(t, stack.Close(ctx, false))
}

func TestInputReachesTopOnly(t *testing.T) {
	stack, st, ctx := setup()

	lowerReq, lower := modal.List("Lower", []widget.StringItem{"a", "b"}, nil)
	upperReq, upper := modal.List("Upper", []widget.StringItem{"x", "y"}, nil)
	stack.Push(ctx, lowerReq)
	stack.Push(ctx, upperReq)

	send(t, stack, st, ctx, input.Down)
	assert.Equal(t, 0, upper.Selected)
	assert.Equal(t, -1, lower.Selected)

	send(t, stack, st, ctx, input.Back)
	require.Equal(t, 1, stack.Len())
	assert.Equal(t, "Lower", mustTop(t, stack).Title)
}

func TestPasscodeModal(t *testing.T) {
	stack, st, ctx := setup()

	unlocked := false
	stack.Push(ctx, modal.Passcode("4321", func(*widget.Context) { unlocked = true }))

	for _, r := range "1234" {
		stack.Action(ctx, input.Char(r))
	}
	send(t, stack, st, ctx, input.Accept)
	assert.False(t, unlocked)
	assert.Equal(t, 1, stack.Len())
	assert.Equal(t, []string{modal.ErrWrongPasscode.Error()}, st.toasts)

	for _, r := range "4321" {
		stack.Action(ctx, input.Char(r))
	}
	send(t, stack, st, ctx, input.Accept)
	assert.True(t, unlocked)
	assert.Equal(t, 0, stack.Len())
}

func TestPasscodeModalGamepadOnly(t *testing.T) {
	stack, st, ctx := setup()

	unlocked := false
	stack.Push(ctx, modal.Passcode("2413", func(*widget.Context) { unlocked = true }))
	ctx.Deferred.Drain(st, ctx)

	for _, b := range []ebiten.StandardGamepadButton{
		ebiten.StandardGamepadButtonFrontTopRight,
		ebiten.StandardGamepadButtonFrontBottomRight,
		ebiten.StandardGamepadButtonFrontTopLeft,
		ebiten.StandardGamepadButtonFrontBottomLeft,
	} {
		require.True(t, stack.Action(ctx, input.Button(b)))
	}
	send(t, stack, st, ctx, input.Accept)
	assert.Empty(t, st.toasts)
	assert.True(t, unlocked)
	assert.Equal(t, 0, stack.Len())
}

func TestNestedModalFromOnClose(t *testing.T) {
	stack, st, ctx := setup()

	req, _ := modal.List("Pick", []widget.StringItem{"one"}, func(ctx *widget.Context, item widget.StringItem) {
		ctx.Deferred.Message("Picked", string(item))
	})
	stack.Push(ctx, req)
	send(t, stack, st, ctx, input.Down)
	send(t, stack, st, ctx, input.Accept)

	require.Equal(t, 1, stack.Len())
	assert.Equal(t, "Picked", mustTop(t, stack).Title)
}

func TestRenderCentersTopModal(t *testing.T) {
	stack, _, ctx := setup()
	stack.Push(ctx, modal.Message("Info", "Hello"))

	g := widgettest.New()
	window := widget.Rect{W: 1000, H: 600}
	stack.Render(g, window)

	require.NotEmpty(t, g.Ops)
	assert.Equal(t, "fill", g.Ops[0].Kind)
	assert.Equal(t, window, g.Ops[0].Rect)
	assert.Equal(t, style.Overlay, g.Ops[0].Color)

	panel := g.Ops[1]
	assert.Equal(t, "panel", panel.Kind)
	wantH := style.TitleBarHeight + style.FontSize + 2*style.DefaultPadding + style.ToolbarHeight
	assert.Equal(t, widget.Rect{X: 250, Y: (600 - wantH) / 2, W: 500, H: wantH}, panel.Rect)
	assert.Contains(t, g.Texts(), "Hello")
	assert.Contains(t, g.Texts(), "Info")
}

func mustTop(t *testing.T, stack *modal.Stack) *modal.Modal {
	t.Helper()
	m, ok := stack.Top()
	require.True(t, ok)
	return m
}
