package noise

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind      = errors.New("unknown node kind")
	ErrUnknownMember    = errors.New("unknown member")
	ErrTypeMismatch     = errors.New("member type mismatch")
	ErrUnknownEnumValue = errors.New("unknown enum value")
	ErrEngineRejected   = errors.New("engine rejected value")
	ErrDecodeFailed     = errors.New("encoded node tree could not be decoded")
)

// MemberError reports a failed member assignment. Err is one of the
// member-level sentinels above.
type MemberError struct {
	Kind   string // normalized kind name
	Member string // member name as passed by the caller
	Value  any
	Err    error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%s.%s = %v: %v", e.Kind, e.Member, e.Value, e.Err)
}

func (e *MemberError) Unwrap() error {
	return e.Err
}
