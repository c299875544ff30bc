package state

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/storage"
)

// MaxPasscodeLen is the longest restricted-mode passcode in runes.
const MaxPasscodeLen = 8

// ErrRestricted is returned for actions blocked by restricted mode.
var ErrRestricted = errors.New("this requires the restricted mode passcode")

// RestrictedEnabled reports whether a passcode is set.
func (s *State) RestrictedEnabled() bool {
	return s.passcode != ""
}

// Locked reports whether restricted actions are currently blocked.
func (s *State) Locked() bool {
	return s.locked
}

// Passcode returns the restricted-mode passcode.
func (s *State) Passcode() string {
	return s.passcode
}

// Allowed reports whether t may be launched without the passcode.
func (s *State) Allowed(t Tile) bool {
	return !s.locked || !t.Restricted
}

// Unlock lifts restricted mode until Lock is called. It reports whether
// code matched.
func (s *State) Unlock(code string) bool {
	if code != s.passcode {
		return false
	}
	s.locked = false
	return true
}

// Lock blocks restricted actions again when a passcode is set.
func (s *State) Lock() {
	s.locked = s.passcode != ""
}

// ValidatePasscode checks that code is 1 to MaxPasscodeLen characters, all
// of which a gamepad can type.
func ValidatePasscode(code string) error {
	if n := utf8.RuneCountInString(code); n == 0 || n > MaxPasscodeLen {
		return fmt.Errorf("passcode must be 1 to %d characters", MaxPasscodeLen)
	}
	for _, r := range code {
		if !input.IsButtonRune(r) {
			return fmt.Errorf("passcode may only use the digits 1 to %d", len(input.ButtonRunes))
		}
	}
	return nil
}

// EnableRestricted sets the passcode and locks. The caller saves settings.
func (s *State) EnableRestricted(code string) error {
	if err := ValidatePasscode(code); err != nil {
		return err
	}
	if err := s.Settings.Set(storage.KeyRestrictedPasscode, storage.String(code)); err != nil {
		return err
	}
	s.passcode = code
	s.locked = true
	return nil
}

// DisableRestricted clears the passcode. Callers verify the passcode first.
func (s *State) DisableRestricted() error {
	if s.locked {
		return ErrRestricted
	}
	if err := s.Settings.Set(storage.KeyRestrictedPasscode, storage.String("")); err != nil {
		return err
	}
	s.passcode = ""
	s.locked = false
	return nil
}
