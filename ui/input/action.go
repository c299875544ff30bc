// Package input turns keyboard and gamepad state into UI actions.
package input

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Kind is a UI action.
type Kind uint8

const (
	None Kind = iota
	Up
	Down
	Left
	Right
	Accept
	Back
	Info
	Filter
	ToggleOverlay
	ShowMenu
	KeyPress
)

var kindNames = [...]string{
	None:          "None",
	Up:            "Up",
	Down:          "Down",
	Left:          "Left",
	Right:         "Right",
	Accept:        "Accept",
	Back:          "Back",
	Info:          "Info",
	Filter:        "Filter",
	ToggleOverlay: "ToggleOverlay",
	ShowMenu:      "ShowMenu",
	KeyPress:      "KeyPress",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsDirection reports whether k is one of the four directions.
func (k Kind) IsDirection() bool {
	return k >= Up && k <= Right
}

// Source is the device a raw key came from.
type Source uint8

const (
	Keyboard Source = iota
	Gamepad
	Text
)

// RawKey is the payload of a KeyPress action. Text carries a typed
// character; Keyboard and Gamepad carry the unmapped key or button.
type RawKey struct {
	Source Source
	Key    ebiten.Key
	Button ebiten.StandardGamepadButton
	Rune   rune
}

// Action is one input event delivered to the UI.
type Action struct {
	Kind Kind
	Raw  RawKey
}

// Char returns an action carrying a typed character.
func Char(r rune) Action {
	return Action{Kind: KeyPress, Raw: RawKey{Source: Text, Rune: r}}
}

// Key returns a KeyPress action for an unmapped keyboard key.
func Key(k ebiten.Key) Action {
	return Action{Kind: KeyPress, Raw: RawKey{Source: Keyboard, Key: k}}
}

// Button returns a KeyPress action for an unmapped gamepad button.
func Button(b ebiten.StandardGamepadButton) Action {
	return Action{Kind: KeyPress, Raw: RawKey{Source: Gamepad, Button: b}}
}

// IsChar reports whether a is a typed character and returns it.
func (a Action) IsChar() (rune, bool) {
	if a.Kind == KeyPress && a.Raw.Source == Text {
		return a.Raw.Rune, true
	}
	return 0, false
}

// ButtonRunes are the characters typed by gamepad buttons the default map
// leaves unbound. A passcode made of these digits can be entered with a
// gamepad alone.
var ButtonRunes = map[ebiten.StandardGamepadButton]rune{
	ebiten.StandardGamepadButtonFrontTopLeft:     '1',
	ebiten.StandardGamepadButtonFrontTopRight:    '2',
	ebiten.StandardGamepadButtonFrontBottomLeft:  '3',
	ebiten.StandardGamepadButtonFrontBottomRight: '4',
	ebiten.StandardGamepadButtonLeftStick:        '5',
	ebiten.StandardGamepadButtonRightStick:       '6',
}

// IsButtonRune reports whether r can be typed with a gamepad button.
func IsButtonRune(r rune) bool {
	for _, br := range ButtonRunes {
		if br == r {
			return true
		}
	}
	return false
}

// ButtonErase is the gamepad button that deletes the character before the
// cursor in text entry widgets.
const ButtonErase = ebiten.StandardGamepadButtonCenterLeft

// IsButtonChar reports whether a is a gamepad button that types a character
// and returns it.
func (a Action) IsButtonChar() (rune, bool) {
	if a.Kind != KeyPress || a.Raw.Source != Gamepad {
		return 0, false
	}
	r, ok := ButtonRunes[a.Raw.Button]
	return r, ok
}

// IsButton reports whether a is a KeyPress for gamepad button b.
func (a Action) IsButton(b ebiten.StandardGamepadButton) bool {
	return a.Kind == KeyPress && a.Raw.Source == Gamepad && a.Raw.Button == b
}

// IsKey reports whether a is a KeyPress for keyboard key k.
func (a Action) IsKey(k ebiten.Key) bool {
	return a.Kind == KeyPress && a.Raw.Source == Keyboard && a.Raw.Key == k
}

func (a Action) String() string {
	if a.Kind != KeyPress {
		return a.Kind.String()
	}
	switch a.Raw.Source {
	case Text:
		return fmt.Sprintf("KeyPress(%q)", a.Raw.Rune)
	case Gamepad:
		return fmt.Sprintf("KeyPress(Gamepad(%d))", int(a.Raw.Button))
	default:
		return fmt.Sprintf("KeyPress(%s)", a.Raw.Key)
	}
}

// KeyboardMap maps keys to actions.
type KeyboardMap map[ebiten.Key]Kind

// Sorted returns the bound keys in ascending key order.
func (m KeyboardMap) Sorted() []ebiten.Key {
	return slices.Sorted(maps.Keys(m))
}

// GamepadMap maps standard gamepad buttons to actions.
type GamepadMap map[ebiten.StandardGamepadButton]Kind

// DefaultKeyboardMap returns the built-in keyboard bindings.
func DefaultKeyboardMap() KeyboardMap {
	return KeyboardMap{
		ebiten.KeyArrowUp:    Up,
		ebiten.KeyArrowDown:  Down,
		ebiten.KeyArrowLeft:  Left,
		ebiten.KeyArrowRight: Right,
		ebiten.KeyEnter:      Accept,
		ebiten.KeyEscape:     Back,
		ebiten.KeyF3:         Info,
		ebiten.KeyF4:         Filter,
		ebiten.KeyF1:         ToggleOverlay,
		ebiten.KeyF2:         ShowMenu,
	}
}

// DefaultGamepadMap returns the built-in gamepad bindings.
func DefaultGamepadMap() GamepadMap {
	return GamepadMap{
		ebiten.StandardGamepadButtonLeftTop:      Up,
		ebiten.StandardGamepadButtonLeftBottom:   Down,
		ebiten.StandardGamepadButtonLeftLeft:     Left,
		ebiten.StandardGamepadButtonLeftRight:    Right,
		ebiten.StandardGamepadButtonRightBottom:  Accept,
		ebiten.StandardGamepadButtonRightRight:   Back,
		ebiten.StandardGamepadButtonRightTop:     Info,
		ebiten.StandardGamepadButtonRightLeft:    Filter,
		ebiten.StandardGamepadButtonCenterCenter: ToggleOverlay,
		ebiten.StandardGamepadButtonCenterRight:  ShowMenu,
	}
}
