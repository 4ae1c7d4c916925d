package hxwidget

// Options is an ordered, indexable sequence of user option values.
//
// Options never deduplicates: two positions may hold equal values, and
// lookups return the first match. Widgets identify options by position,
// so duplicate values never corrupt the wire encoding.
type Options[V any] struct {
	values []V
	eq     func(a, b V) bool
}

// NewOptions builds an option sequence with a caller-supplied equality
// function. The input slice is copied; order is preserved.
func NewOptions[V any](values []V, eq func(a, b V) bool) Options[V] {
	cp := make([]V, len(values))
	copy(cp, values)
	return Options[V]{values: cp, eq: eq}
}

// ComparableOptions builds an option sequence that compares with ==.
func ComparableOptions[V comparable](values []V) Options[V] {
	return NewOptions(values, func(a, b V) bool { return a == b })
}

// Len returns the number of options.
func (o Options[V]) Len() int {
	return len(o.values)
}

// At returns the option at index i. It panics if i is out of range.
func (o Options[V]) At(i int) V {
	return o.values[i]
}

// Values returns a copy of the option values in order.
func (o Options[V]) Values() []V {
	cp := make([]V, len(o.values))
	copy(cp, o.values)
	return cp
}

// IndexOf returns the index of the first option equal to v.
func (o Options[V]) IndexOf(v V) (int, bool) {
	if o.eq == nil {
		return -1, false
	}
	for i, opt := range o.values {
		if o.eq(opt, v) {
			return i, true
		}
	}
	return -1, false
}

// DefaultIndices maps default values to option indices in the order given.
// A nil or empty defaults slice selects nothing.
func DefaultIndices[V any](opts Options[V], defaults []V) ([]int, error) {
	if len(defaults) == 0 {
		return []int{}, nil
	}
	if opts.eq == nil {
		return nil, configErrorf("options have no equality function")
	}
	indices := make([]int, 0, len(defaults))
	for _, d := range defaults {
		idx, ok := opts.IndexOf(d)
		if !ok {
			return nil, configErrorf("default value %v is not part of the options", d)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// DefaultIndex maps a single default value to a one-element index list.
func DefaultIndex[V any](opts Options[V], v V) ([]int, error) {
	return DefaultIndices(opts, []V{v})
}
