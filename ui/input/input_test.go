package input

import (
	"slices"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/yaffe/ui/style"
)

func TestStickFilterDominance(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Kind
		ok   bool
	}{
		{"right", 0.9, 0.1, Right, true},
		{"left", -0.8, 0.3, Left, true},
		{"down", 0.2, 0.7, Down, true},
		{"up", -0.1, -0.95, Up, true},
		{"diagonal tie", 0.7, 0.7, None, false},
		{"below threshold", 0.4, 0.0, None, false},
		{"centered", 0, 0, None, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewStickFilter()
			got, ok := f.Sample(tc.x, tc.y, time.Unix(100, 0))
			if got != tc.want || ok != tc.ok {
				t.Errorf("Sample(%v, %v) = %v, %v; want %v, %v", tc.x, tc.y, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestStickFilterDebounce(t *testing.T) {
	f := NewStickFilter()
	start := time.Unix(100, 0)

	if _, ok := f.Sample(1, 0, start); !ok {
		t.Fatal("first sample should fire")
	}
	if _, ok := f.Sample(1, 0, start.Add(50*time.Millisecond)); ok {
		t.Error("sample within debounce should be suppressed")
	}
	if _, ok := f.Sample(0, 0, start.Add(60*time.Millisecond)); ok {
		t.Error("centered stick should not fire")
	}
	if dir, ok := f.Sample(0, -1, start.Add(StickDebounce)); !ok || dir != Up {
		t.Errorf("sample after debounce = %v, %v; want Up, true", dir, ok)
	}
}

func TestRepeater(t *testing.T) {
	r := NewRepeater()
	start := time.Unix(100, 0)

	if !r.Update(Down, start) {
		t.Fatal("initial press should move")
	}
	if r.Update(Down, start.Add(style.NavInitialDelay-time.Millisecond)) {
		t.Error("should not repeat before initial delay")
	}
	at := start.Add(style.NavInitialDelay)
	if !r.Update(Down, at) {
		t.Error("should repeat after initial delay")
	}
	if r.Update(Down, at.Add(style.NavStartInterval-style.NavAcceleration-time.Millisecond)) {
		t.Error("should not repeat before accelerated interval")
	}
	if !r.Update(Down, at.Add(style.NavStartInterval-style.NavAcceleration)) {
		t.Error("should repeat at accelerated interval")
	}
	if !r.Update(Up, at.Add(time.Second)) {
		t.Error("direction change should move immediately")
	}
	if r.Update(None, at.Add(2*time.Second)) {
		t.Error("release should not move")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Action{Kind: Accept}, "Accept"},
		{Char('x'), `KeyPress('x')`},
		{Button(ebiten.StandardGamepadButtonLeftStick), "KeyPress(Gamepad(10))"},
		{Action{Kind: Kind(200)}, "Kind(200)"},
	}
	for _, tc := range tests {
		if got := tc.action.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestActionHelpers(t *testing.T) {
	if r, ok := Char('a').IsChar(); !ok || r != 'a' {
		t.Errorf("IsChar = %q, %v", r, ok)
	}
	if _, ok := (Action{Kind: Accept}).IsChar(); ok {
		t.Error("Accept is not a character")
	}
	if !Key(ebiten.KeyBackspace).IsKey(ebiten.KeyBackspace) {
		t.Error("IsKey should match")
	}
	if r, ok := Button(ebiten.StandardGamepadButtonFrontTopLeft).IsButtonChar(); !ok || r != '1' {
		t.Errorf("IsButtonChar = %q, %v", r, ok)
	}
	if _, ok := Char('1').IsButtonChar(); ok {
		t.Error("typed characters are not buttons")
	}
	if !Button(ButtonErase).IsButton(ButtonErase) || Key(ebiten.KeyBackspace).IsButton(ButtonErase) {
		t.Error("IsButton mismatch")
	}
	if !Left.IsDirection() || Accept.IsDirection() {
		t.Error("IsDirection mismatch")
	}
}

func TestDefaultMapsCoverCoreActions(t *testing.T) {
	need := []Kind{Up, Down, Left, Right, Accept, Back, Info, Filter, ToggleOverlay, ShowMenu}
	keys := map[Kind]bool{}
	for _, k := range DefaultKeyboardMap() {
		keys[k] = true
	}
	pad := map[Kind]bool{}
	for _, k := range DefaultGamepadMap() {
		pad[k] = true
	}
	for _, k := range need {
		if !keys[k] {
			t.Errorf("keyboard map missing %v", k)
		}
		if !pad[k] {
			t.Errorf("gamepad map missing %v", k)
		}
	}
}

func TestButtonRunesAreUnbound(t *testing.T) {
	pad := DefaultGamepadMap()
	seen := map[rune]bool{}
	for b, r := range ButtonRunes {
		if kind, ok := pad[b]; ok {
			t.Errorf("button %d types %q but is bound to %v", b, r, kind)
		}
		if seen[r] {
			t.Errorf("rune %q typed by two buttons", r)
		}
		seen[r] = true
	}
	if _, ok := pad[ButtonErase]; ok {
		t.Error("erase button is bound")
	}
}

func TestHeldDirectionIsStable(t *testing.T) {
	m := KeyboardMap{
		ebiten.KeyArrowUp:   Up,
		ebiten.KeyW:         Up,
		ebiten.KeyArrowDown: Down,
		ebiten.KeyS:         Down,
		ebiten.KeyEnter:     Accept,
	}
	keys := m.Sorted()
	if !slices.IsSorted(keys) || len(keys) != len(m) {
		t.Fatalf("Sorted() = %v", keys)
	}

	pressed := func(down ...ebiten.Key) func(ebiten.Key) bool {
		return func(k ebiten.Key) bool { return slices.Contains(down, k) }
	}
	want := m[min(ebiten.KeyW, ebiten.KeyArrowDown)]
	for i := 0; i < 50; i++ {
		if got := heldDirection(m.Sorted(), m, pressed(ebiten.KeyArrowDown, ebiten.KeyW)); got != want {
			t.Fatalf("round %d: heldDirection = %v, want %v", i, got, want)
		}
	}

	if got := heldDirection(keys, m, pressed(ebiten.KeyEnter)); got != None {
		t.Errorf("non-direction key held: got %v", got)
	}
	if got := heldDirection(keys, m, pressed(ebiten.KeyS)); got != Down {
		t.Errorf("got %v, want Down", got)
	}
}
