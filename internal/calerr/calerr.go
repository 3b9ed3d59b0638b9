// Package calerr defines the typed failures shared by the calendar packages.
//
// Every conversion or resolution error carries a Kind so that callers can
// decide on a retry policy (for example falling back to a lenient parse)
// without inspecting message text.
package calerr

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-historic/internal/config"
)

// Kind classifies a calendar error.
type Kind string

const (
	FieldOutOfRange      Kind = "FIELD_OUT_OF_RANGE"
	UnknownVariant       Kind = "UNKNOWN_VARIANT"
	ImplausibleDualYear  Kind = "IMPLAUSIBLE_DUAL_YEAR"
	VariantRangeExceeded Kind = "VARIANT_RANGE_EXCEEDED"
	AmbiguousEra         Kind = "AMBIGUOUS_ERA"
	MalformedInput       Kind = "MALFORMED_INPUT"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrFieldOutOfRange      = &Error{Kind: FieldOutOfRange}
	ErrUnknownVariant       = &Error{Kind: UnknownVariant}
	ErrImplausibleDualYear  = &Error{Kind: ImplausibleDualYear}
	ErrVariantRangeExceeded = &Error{Kind: VariantRangeExceeded}
	ErrAmbiguousEra         = &Error{Kind: AmbiguousEra}
	ErrMalformedInput       = &Error{Kind: MalformedInput}
)

// Error is a calendar failure. Field names the offending input ("month",
// "day", "year", "era", "variant"...), Value its textual value.
type Error struct {
	Kind   Kind
	Field  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	msg := e.Kind.message()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s=%q", msg, e.Field, e.Value)
	}
	if e.Reason != "" {
		msg = msg + " (" + e.Reason + ")"
	}
	return msg
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (k Kind) message() string {
	switch k {
	case FieldOutOfRange:
		return config.ErrFieldOutOfRange
	case UnknownVariant:
		return config.ErrUnknownVariant
	case ImplausibleDualYear:
		return config.ErrImplausibleDualYear
	case VariantRangeExceeded:
		return config.ErrVariantRangeExceeded
	case AmbiguousEra:
		return config.ErrAmbiguousEra
	case MalformedInput:
		return config.ErrMalformedInput
	default:
		return string(k)
	}
}

// OutOfRange builds a FieldOutOfRange error for an integer field.
func OutOfRange(field string, value int, format string, args ...any) *Error {
	return &Error{
		Kind:   FieldOutOfRange,
		Field:  field,
		Value:  fmt.Sprint(value),
		Reason: fmt.Sprintf(format, args...),
	}
}

// Unknown builds an UnknownVariant error for a lookup key.
func Unknown(key string) *Error {
	return &Error{Kind: UnknownVariant, Field: "variant", Value: key}
}

// New builds an error of any kind.
func New(kind Kind, field, value, reason string) *Error {
	return &Error{Kind: kind, Field: field, Value: value, Reason: reason}
}

// KindOf extracts the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}
