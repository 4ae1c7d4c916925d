package hxwidget

// WidgetSerializer converts a semantic widget value to its wire form.
type WidgetSerializer[T any] func(value T) ([]int, error)

// WidgetDeserializer converts a wire value back into a semantic value.
// A nil raw value means the frontend has not reported anything and the
// widget's defaults apply.
type WidgetDeserializer[T any] func(raw []int) (T, error)

// MultiSelectSerde maps between selected option values and the wire form,
// an ordered list of option indices.
type MultiSelectSerde[V any] struct {
	options  Options[V]
	defaults []int
}

// NewMultiSelectSerde creates a serde over opts, seeded with default indices.
func NewMultiSelectSerde[V any](opts Options[V], defaults []int) *MultiSelectSerde[V] {
	d := make([]int, len(defaults))
	copy(d, defaults)
	return &MultiSelectSerde[V]{options: opts, defaults: d}
}

// Serialize maps each value to the index of its first matching option.
// The result has the same length and order as values.
func (s *MultiSelectSerde[V]) Serialize(values []V) ([]int, error) {
	indices := make([]int, 0, len(values))
	for _, v := range values {
		idx, ok := s.options.IndexOf(v)
		if !ok {
			return nil, configErrorf("value %v is not part of the options", v)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// Deserialize maps indices back to option values. A nil raw value yields
// the default selection.
func (s *MultiSelectSerde[V]) Deserialize(raw []int) ([]V, error) {
	if raw == nil {
		raw = s.defaults
	}
	values := make([]V, 0, len(raw))
	for _, idx := range raw {
		if idx < 0 || idx >= s.options.Len() {
			return nil, &DecodeError{Index: idx, Len: s.options.Len()}
		}
		values = append(values, s.options.At(idx))
	}
	return values, nil
}

// FeedbackSerde encodes a single optional sentiment through a
// MultiSelectSerde over the feedback kind's option indices, so feedback
// widgets share the multi-select wire format.
type FeedbackSerde struct {
	multi *MultiSelectSerde[int]
}

// NewFeedbackSerde creates a serde over the index labels returned by
// MappedOptions.
func NewFeedbackSerde(optionIndices []int) *FeedbackSerde {
	return &FeedbackSerde{
		multi: NewMultiSelectSerde(ComparableOptions(optionIndices), nil),
	}
}

// Serialize wraps the sentiment in a one-element index list, or returns an
// empty list when nothing is selected.
func (s *FeedbackSerde) Serialize(sentiment *int) ([]int, error) {
	if sentiment == nil {
		return []int{}, nil
	}
	return s.multi.Serialize([]int{*sentiment})
}

// Deserialize returns the selected sentiment, or nil when nothing is
// selected.
func (s *FeedbackSerde) Deserialize(raw []int) (*int, error) {
	values, err := s.multi.Deserialize(raw)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	v := values[0]
	return &v, nil
}
