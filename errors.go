package hxwidget

import (
	"errors"
	"fmt"
)

// Sentinel errors for widget operations.
var (
	ErrConfiguration     = errors.New("hxwidget: invalid widget configuration")
	ErrDuplicateWidgetID = errors.New("hxwidget: duplicate widget id")
	ErrDecode            = errors.New("hxwidget: widget value out of bounds")
	ErrDecryptFailed     = errors.New("hxwidget: state decryption failed")
	ErrSignatureInvalid  = errors.New("hxwidget: signature verification failed")
	ErrInvalidFormat     = errors.New("hxwidget: invalid state format")
)

// configErrorf returns an error wrapping ErrConfiguration.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// DuplicateWidgetIDError reports two widgets in one run that resolved to
// the same identity, or that share a user key.
type DuplicateWidgetIDError struct {
	ID      WidgetID
	Kind    string
	UserKey string
}

func (e *DuplicateWidgetIDError) Error() string {
	if e.UserKey != "" {
		return fmt.Sprintf(
			"hxwidget: there are multiple widgets with the key %q; "+
				"to fix this, pass a unique key to each %s widget",
			e.UserKey, e.Kind)
	}
	return fmt.Sprintf(
		"hxwidget: there are multiple identical %s widgets with the same "+
			"generated id %s; pass a unique key to each of them",
		e.Kind, e.ID)
}

func (e *DuplicateWidgetIDError) Unwrap() error {
	return ErrDuplicateWidgetID
}

// DecodeError reports a wire value referencing an option index that does
// not exist in the current option sequence.
type DecodeError struct {
	ID    WidgetID
	Index int
	Len   int
}

func (e *DecodeError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("hxwidget: widget %s: index %d out of range [0,%d)", e.ID, e.Index, e.Len)
	}
	return fmt.Sprintf("hxwidget: index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// IsConfigurationError checks if err is a widget configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsDuplicateWidgetID checks if err reports an identity collision.
func IsDuplicateWidgetID(err error) bool {
	return errors.Is(err, ErrDuplicateWidgetID)
}

// IsDecodeError checks if err is a wire value decode failure.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsTokenError checks if err is a frontend state token error.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrInvalidFormat)
}
