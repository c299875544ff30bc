package input

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/user-none/yaffe/ui/style"
)

const (
	// StickThreshold is the deflection an analog axis must exceed to count.
	StickThreshold = 0.5

	// StickDebounce is the minimum interval between two stick directions.
	StickDebounce = 100 * time.Millisecond
)

// StickFilter converts left-stick samples into directional actions.
// The dominant axis wins; ties and small deflections produce nothing.
type StickFilter struct {
	Threshold float64
	Debounce  time.Duration
	last      time.Time
}

// NewStickFilter creates a filter with the default threshold and debounce.
func NewStickFilter() *StickFilter {
	return &StickFilter{Threshold: StickThreshold, Debounce: StickDebounce}
}

// Sample returns the direction for one stick reading, if any.
// y is positive downwards as reported by ebiten.
func (f *StickFilter) Sample(x, y float64, now time.Time) (Kind, bool) {
	ax, ay := math.Abs(x), math.Abs(y)
	var dir Kind
	switch {
	case ax > ay && ax > f.Threshold:
		dir = Right
		if x < 0 {
			dir = Left
		}
	case ay > ax && ay > f.Threshold:
		dir = Down
		if y < 0 {
			dir = Up
		}
	default:
		return None, false
	}

	if !f.last.IsZero() && now.Sub(f.last) < f.Debounce {
		return None, false
	}
	f.last = now
	return dir, true
}

// Repeater produces repeated directions while one is held, starting after
// style.NavInitialDelay and accelerating down to style.NavMinInterval.
type Repeater struct {
	dir         Kind
	startTime   time.Time
	lastMove    time.Time
	repeatDelay time.Duration
}

// NewRepeater creates a repeater in the released state.
func NewRepeater() *Repeater {
	return &Repeater{repeatDelay: style.NavStartInterval}
}

// Update is called once per frame with the direction currently held
// (None when released) and reports whether a move should fire.
func (r *Repeater) Update(held Kind, now time.Time) bool {
	switch {
	case held == None:
		r.dir = None
		r.repeatDelay = style.NavStartInterval
		return false
	case held != r.dir:
		// Direction changed - move immediately and start tracking
		r.dir = held
		r.startTime = now
		r.lastMove = now
		r.repeatDelay = style.NavStartInterval
		return true
	}

	if now.Sub(r.startTime) < style.NavInitialDelay || now.Sub(r.lastMove) < r.repeatDelay {
		return false
	}
	r.lastMove = now
	r.repeatDelay -= style.NavAcceleration
	if r.repeatDelay < style.NavMinInterval {
		r.repeatDelay = style.NavMinInterval
	}
	return true
}

// Router polls ebiten each tick and produces actions.
type Router struct {
	Keys    KeyboardMap
	Buttons GamepadMap

	stick  *StickFilter
	repeat *Repeater
	now    func() time.Time

	gamepads []ebiten.GamepadID
	chars    []rune
}

// NewRouter creates a router with the default bindings.
func NewRouter() *Router {
	return &Router{
		Keys:    DefaultKeyboardMap(),
		Buttons: DefaultGamepadMap(),
		stick:   NewStickFilter(),
		repeat:  NewRepeater(),
		now:     time.Now,
	}
}

// Poll reads the current input state and returns this tick's actions.
// Must be called from ebiten's Update.
func (r *Router) Poll() []Action {
	var actions []Action
	now := r.now()

	keys := r.Keys.Sorted()
	held := heldDirection(keys, r.Keys, ebiten.IsKeyPressed)
	for _, k := range keys {
		if kind := r.Keys[k]; !kind.IsDirection() && inpututil.IsKeyJustPressed(k) {
			actions = append(actions, Action{Kind: kind})
		}
	}

	r.gamepads = ebiten.AppendGamepadIDs(r.gamepads[:0])
	for _, id := range r.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
			kind, mapped := r.Buttons[b]
			if mapped && kind.IsDirection() {
				if held == None && ebiten.IsStandardGamepadButtonPressed(id, b) {
					held = kind
				}
				continue
			}
			if !inpututil.IsStandardGamepadButtonJustPressed(id, b) {
				continue
			}
			if mapped {
				actions = append(actions, Action{Kind: kind})
			} else {
				actions = append(actions, Button(b))
			}
		}

		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if dir, ok := r.stick.Sample(x, y, now); ok {
			actions = append(actions, Action{Kind: dir})
		}
	}

	if r.repeat.Update(held, now) {
		actions = append(actions, Action{Kind: held})
	}

	r.chars = ebiten.AppendInputChars(r.chars[:0])
	for _, c := range r.chars {
		actions = append(actions, Char(c))
	}
	for _, k := range editKeys {
		if inpututil.IsKeyJustPressed(k) {
			actions = append(actions, Key(k))
		}
	}
	if (ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)) &&
		inpututil.IsKeyJustPressed(ebiten.KeyV) {
		actions = append(actions, Key(ebiten.KeyV))
	}
	return actions
}

// heldDirection returns the direction bound to the first pressed key of
// keys, or None. Keyboard directions win over gamepad ones.
func heldDirection(keys []ebiten.Key, m KeyboardMap, pressed func(ebiten.Key) bool) Kind {
	for _, k := range keys {
		if kind := m[k]; kind.IsDirection() && pressed(k) {
			return kind
		}
	}
	return None
}

// editKeys are unmapped keys forwarded to text entry widgets.
var editKeys = []ebiten.Key{
	ebiten.KeyBackspace,
	ebiten.KeyDelete,
	ebiten.KeyHome,
	ebiten.KeyEnd,
}
