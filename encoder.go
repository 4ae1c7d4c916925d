package hxwidget

import (
	"errors"
	"fmt"

	"github.com/pthm/hxwidget/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates a new encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// WireEncode implements encoding.Encodable.
func (v WidgetValues) WireEncode() map[string]any {
	widgets := make(map[string]any, len(v))
	for id, raw := range v {
		if raw == nil {
			raw = []int{}
		}
		widgets[string(id)] = raw
	}
	return map[string]any{"w": widgets}
}

// WireDecode implements encoding.Decodable.
func (v *WidgetValues) WireDecode(m map[string]any) error {
	out := WidgetValues{}
	if raw, ok := m["w"]; ok && raw != nil {
		widgets, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: widgets must be a map, got %T", encoding.ErrInvalidFormat, raw)
		}
		for id, value := range widgets {
			indices, err := encoding.Ints(value)
			if err != nil {
				return fmt.Errorf("widget %s: %w", id, err)
			}
			if indices == nil {
				indices = []int{}
			}
			out[WidgetID(id)] = indices
		}
	}
	*v = out
	return nil
}

// EncodeWidgetValues encodes frontend values into a state token.
func EncodeWidgetValues(enc *Encoder, values WidgetValues, sensitive bool) (string, error) {
	token, err := enc.Encode(values, sensitive)
	return token, wrapEncodingError(err)
}

// DecodeWidgetValues decodes a state token produced by EncodeWidgetValues.
func DecodeWidgetValues(enc *Encoder, token string, sensitive bool) (WidgetValues, error) {
	var values WidgetValues
	if err := enc.Decode(token, sensitive, &values); err != nil {
		return nil, wrapEncodingError(err)
	}
	return values, nil
}

// wrapEncodingError wraps encoding package errors with hxwidget sentinel errors.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
