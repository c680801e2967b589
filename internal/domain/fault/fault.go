// Package fault defines the error kinds raised by the session engine.
//
// Every failure carries the operation that detected it and one sentinel kind
// so callers can branch with errors.Is without parsing messages.
package fault

import (
	"errors"
	"fmt"
)

// Sentinel kinds shared by all domain packages.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrDuplicateID = errors.New("duplicate id")
	ErrOutOfScope  = errors.New("out of scope")
)

// Error is a classified failure raised by a named operation.
type Error struct {
	Op   string // operation that failed, e.g. "ledger.record_move"
	Kind error  // one of the sentinel kinds above, or a caller-defined kind
	Err  error  // underlying cause; may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind without an underlying cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Newf returns an error of the given kind with a formatted detail message.
func Newf(op string, kind error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WrapKind classifies err under kind. A nil err yields nil.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap annotates err with op, keeping whatever kind it already carries.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// KindOf reports which sentinel kind err carries, or nil if it carries none.
func KindOf(err error) error {
	for _, k := range []error{ErrNotFound, ErrValidation, ErrDuplicateID, ErrOutOfScope} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Label returns a short snake_case name for err's kind, suitable for metrics
// labels and API error codes.
func Label(err error) string {
	switch KindOf(err) {
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	case ErrDuplicateID:
		return "duplicate_id"
	case ErrOutOfScope:
		return "out_of_scope"
	default:
		return "internal"
	}
}
