// Package anim interpolates float fields of widgets over time.
//
// Animations target a widget by identity and a field by name rather than by
// pointer, so a widget that leaves the tree simply stops being animated.
package anim

import "time"

// Field names an animatable float32 field.
type Field uint8

const (
	OffsetX Field = iota
	OffsetY
	Alpha
	Scale
	Scroll
)

func (f Field) String() string {
	switch f {
	case OffsetX:
		return "OffsetX"
	case OffsetY:
		return "OffsetY"
	case Alpha:
		return "Alpha"
	case Scale:
		return "Scale"
	case Scroll:
		return "Scroll"
	default:
		return "Unknown"
	}
}

// Animatable is implemented by widgets with animated fields. AnimatedField
// returns nil for fields the widget does not have.
type Animatable interface {
	AnimatedField(f Field) *float32
}

// Lookup resolves an identity to a live widget.
type Lookup[K comparable] func(id K) (Animatable, bool)

type animation[K comparable] struct {
	id        K
	field     Field
	target    float32
	remaining time.Duration
	done      bool
}

// Engine holds the active animations. It is owned by the UI thread.
type Engine[K comparable] struct {
	active []animation[K]
}

// NewEngine creates an empty engine.
func NewEngine[K comparable]() *Engine[K] {
	return &Engine[K]{}
}

// Animate moves field of widget id to target over d. An animation already
// running on the same widget and field is replaced.
func (e *Engine[K]) Animate(id K, field Field, target float32, d time.Duration) {
	a := animation[K]{id: id, field: field, target: target, remaining: d}
	for i := range e.active {
		if e.active[i].id == id && e.active[i].field == field {
			e.active[i] = a
			return
		}
	}
	e.active = append(e.active, a)
}

// Cancel drops every animation on widget id, leaving its fields as they are.
func (e *Engine[K]) Cancel(id K) {
	kept := e.active[:0]
	for _, a := range e.active {
		if a.id != id {
			kept = append(kept, a)
		}
	}
	e.active = kept
}

// Step advances every animation by dt. The step is linear over the remaining
// time, so a field reaches its target on the frame its duration runs out.
// That frame is kept one more step so the terminal value is rendered before
// the animation is dropped.
func (e *Engine[K]) Step(lookup Lookup[K], dt time.Duration) {
	kept := e.active[:0]
	for _, a := range e.active {
		if a.done {
			continue
		}
		w, ok := lookup(a.id)
		if !ok {
			continue
		}
		v := w.AnimatedField(a.field)
		if v == nil {
			continue
		}

		if dt >= a.remaining {
			*v = a.target
			a.remaining = 0
			a.done = true
		} else {
			f := float32(dt) / float32(a.remaining)
			*v += (a.target - *v) * f
			a.remaining -= dt
		}
		kept = append(kept, a)
	}
	clear(e.active[len(kept):])
	e.active = kept
}

// IsDirty reports whether any animation is still running. The render loop
// keeps producing frames while it is true.
func (e *Engine[K]) IsDirty() bool {
	return len(e.active) > 0
}

// Len returns the number of active animations.
func (e *Engine[K]) Len() int {
	return len(e.active)
}
