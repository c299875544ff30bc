package widget_test

import (
	"testing"
	"time"

	"github.com/user-none/yaffe/ui/widget"
)

// chain queues another chain until n reaches zero, then a toast.
type chain struct{ n int }

func (c chain) Resolve(t widget.Target, ctx *widget.Context) {
	if c.n == 0 {
		ctx.Deferred.Toast("done", time.Second)
		return
	}
	ctx.Deferred.Push(chain{n: c.n - 1})
}

// forever requeues itself.
type forever struct{}

func (forever) Resolve(_ widget.Target, ctx *widget.Context) {
	ctx.Deferred.Push(forever{})
}

func TestDrainRunsToFixpoint(t *testing.T) {
	tree, _, _ := buildTree("a")
	tt := &treeTarget{tree: tree}
	ctx := widget.NewContext(nil, time.Unix(0, 0))

	ctx.Deferred.Push(chain{n: 3})
	ctx.Deferred.LoadPlugin(widget.PluginFetch)
	rounds := ctx.Deferred.Drain(tt, ctx)

	// chain 3,2,1,0 then the toast it queues
	if rounds != 5 {
		t.Errorf("rounds = %d, want 5", rounds)
	}
	if len(tt.toasts) != 1 || tt.toasts[0] != "done" {
		t.Errorf("toasts = %v", tt.toasts)
	}
	if len(tt.loads) != 1 || tt.loads[0] != widget.PluginFetch {
		t.Errorf("loads = %v", tt.loads)
	}
	if ctx.Deferred.Len() != 0 {
		t.Error("queue should be empty")
	}
}

func TestDrainBounded(t *testing.T) {
	tree, _, _ := buildTree("a")
	ctx := widget.NewContext(nil, time.Unix(0, 0))
	ctx.Deferred.Push(forever{})

	if rounds := ctx.Deferred.Drain(&treeTarget{tree: tree}, ctx); rounds != widget.MaxDrainRounds {
		t.Errorf("rounds = %d, want %d", rounds, widget.MaxDrainRounds)
	}
	if ctx.Deferred.Len() != 0 {
		t.Error("leftover intents should be dropped")
	}
}

func TestDrainIntentKinds(t *testing.T) {
	tree, _, p := buildTree("a", "b")
	tt := &treeTarget{tree: tree}
	ctx := widget.NewContext(nil, time.Unix(0, 0))

	d := ctx.Deferred
	d.Focus(p[1].ID())
	d.Message("Error", "boom")
	d.Modal(widget.ModalRequest{Title: "Pick", Size: widget.ModalHalf})
	d.Close(true)
	if d.Len() != 4 {
		t.Fatalf("Len = %d, want 4", d.Len())
	}
	d.Drain(tt, ctx)

	if tree.Focused() != p[1].ID() {
		t.Error("focus intent not applied")
	}
	if len(tt.toasts) != 1 || tt.toasts[0] != "message:boom" {
		t.Errorf("messages = %v", tt.toasts)
	}
	if len(tt.modals) != 1 || tt.modals[0].Title != "Pick" {
		t.Errorf("modals = %v", tt.modals)
	}
	if len(tt.closes) != 1 || !tt.closes[0] {
		t.Errorf("closes = %v", tt.closes)
	}
}

func TestModalSizeFraction(t *testing.T) {
	tests := []struct {
		size widget.ModalSize
		want float32
	}{
		{widget.ModalThird, 1.0 / 3},
		{widget.ModalHalf, 0.5},
		{widget.ModalFull, 1},
	}
	for _, tc := range tests {
		if got := tc.size.Fraction(); got != tc.want {
			t.Errorf("Fraction(%d) = %v, want %v", tc.size, got, tc.want)
		}
	}
}
