package session

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/kbukum/locator/errors"
)

// Session identifies the current tenant or scope. Two sessions occupy the
// same cache slot iff their keys are equal; other fields are payload.
// Keys must be comparable.
type Session interface {
	Key() any
}

// SameSlot reports whether a and b address the same cache slot.
func SameSlot(a, b Session) bool {
	return a.Key() == b.Key()
}

// RemakePolicy tells providers what to evict when the session is updated.
type RemakePolicy int

const (
	// RemakeNone evicts nothing extra; an update to the same key is a no-op.
	RemakeNone RemakePolicy = iota
	// RemakeForce evicts the slot of the new session so it is made afresh.
	RemakeForce
	// RemakeClearAll evicts every cached slot.
	RemakeClearAll
)

func (p RemakePolicy) String() string {
	switch p {
	case RemakeNone:
		return "none"
	case RemakeForce:
		return "force"
	case RemakeClearAll:
		return "clearAll"
	default:
		return fmt.Sprintf("RemakePolicy(%d)", int(p))
	}
}

// ParseRemakePolicy maps "none", "force" or "clearAll" (case-insensitive)
// to a RemakePolicy. An empty string is RemakeNone.
func ParseRemakePolicy(s string) (RemakePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return RemakeNone, nil
	case "force":
		return RemakeForce, nil
	case "clearall", "clear_all":
		return RemakeClearAll, nil
	default:
		return RemakeNone, apperrors.Validation(fmt.Sprintf("unknown remake policy %q", s))
	}
}

// ValidateKey returns a WRONG_SESSION error when s cannot address a slot.
func ValidateKey(s Session) error {
	key := s.Key()
	if key == nil {
		return apperrors.WrongSession(fmt.Sprintf("session %T has a nil key", s))
	}
	if !reflect.ValueOf(key).Comparable() {
		return apperrors.WrongSession(fmt.Sprintf("session %T key of type %T is not comparable", s, key))
	}
	return nil
}

// Void is a session with a single fixed slot. Services scoped to it live
// until the next ClearServices.
type Void struct{}

// Key implements Session.
func (Void) Key() any { return Void{} }
