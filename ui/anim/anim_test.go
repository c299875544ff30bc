package anim

import (
	"math"
	"testing"
	"time"
)

type box struct {
	x, alpha float32
}

func (b *box) AnimatedField(f Field) *float32 {
	switch f {
	case OffsetX:
		return &b.x
	case Alpha:
		return &b.alpha
	}
	return nil
}

func lookupOf(widgets map[int]*box) Lookup[int] {
	return func(id int) (Animatable, bool) {
		b, ok := widgets[id]
		return b, ok
	}
}

func TestAnimationTerminates(t *testing.T) {
	tests := []struct {
		name     string
		start    float32
		target   float32
		duration time.Duration
		dt       time.Duration
	}{
		{"exact frames", 0, 100, 160 * time.Millisecond, 16 * time.Millisecond},
		{"partial last frame", 10, -50, 250 * time.Millisecond, 16 * time.Millisecond},
		{"frame longer than duration", 1, 0, 5 * time.Millisecond, 33 * time.Millisecond},
		{"zero duration", 3, 7, 0, 16 * time.Millisecond},
		{"uneven step", 0, 1, time.Second, 7 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &box{x: tt.start}
			widgets := map[int]*box{1: b}
			e := NewEngine[int]()
			e.Animate(1, OffsetX, tt.target, tt.duration)

			limit := int(math.Ceil(float64(tt.duration)/float64(tt.dt))) + 1
			frames := 0
			for e.IsDirty() {
				e.Step(lookupOf(widgets), tt.dt)
				frames++
				if frames > limit+1 {
					t.Fatalf("animation still running after %d frames", frames)
				}
				if b.x == tt.target {
					break
				}
			}
			if b.x != tt.target {
				t.Errorf("x = %v, want %v", b.x, tt.target)
			}
			if frames > limit {
				t.Errorf("reached target after %d frames, limit %d", frames, limit)
			}

			// The terminal frame is retained once, then dropped.
			if !e.IsDirty() {
				t.Fatal("expected animation to survive one more frame")
			}
			e.Step(lookupOf(widgets), tt.dt)
			if e.IsDirty() {
				t.Error("expected animation to be dropped")
			}
		})
	}
}

func TestAnimationMonotonic(t *testing.T) {
	b := &box{}
	e := NewEngine[int]()
	e.Animate(1, Alpha, 1, 100*time.Millisecond)

	prev := b.alpha
	for e.IsDirty() {
		e.Step(lookupOf(map[int]*box{1: b}), 10*time.Millisecond)
		if b.alpha < prev {
			t.Fatalf("alpha decreased from %v to %v", prev, b.alpha)
		}
		prev = b.alpha
	}
	if b.alpha != 1 {
		t.Errorf("alpha = %v, want 1", b.alpha)
	}
}

func TestAnimateReplacesSameField(t *testing.T) {
	b := &box{}
	e := NewEngine[int]()
	e.Animate(1, OffsetX, 100, time.Second)
	e.Animate(1, Alpha, 1, time.Second)
	e.Animate(1, OffsetX, -100, 0)

	if e.Len() != 2 {
		t.Fatalf("Len = %d, want 2", e.Len())
	}
	e.Step(lookupOf(map[int]*box{1: b}), time.Millisecond)
	if b.x != -100 {
		t.Errorf("x = %v, want -100", b.x)
	}
}

func TestAnimationDroppedWhenWidgetGone(t *testing.T) {
	e := NewEngine[int]()
	e.Animate(7, OffsetX, 10, time.Second)
	e.Step(lookupOf(map[int]*box{}), 16*time.Millisecond)
	if e.IsDirty() {
		t.Error("animation on a missing widget should be dropped")
	}
}

func TestAnimationDroppedForUnknownField(t *testing.T) {
	e := NewEngine[int]()
	e.Animate(1, Scroll, 10, time.Second)
	e.Step(lookupOf(map[int]*box{1: {}}), 16*time.Millisecond)
	if e.IsDirty() {
		t.Error("animation on an unsupported field should be dropped")
	}
}

func TestCancel(t *testing.T) {
	e := NewEngine[int]()
	e.Animate(1, OffsetX, 10, time.Second)
	e.Animate(2, OffsetX, 10, time.Second)
	e.Cancel(1)
	if e.Len() != 1 {
		t.Errorf("Len = %d, want 1", e.Len())
	}
}
