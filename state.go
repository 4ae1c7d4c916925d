package hxwidget

import (
	"context"
	"errors"

	"pkt.systems/pslog"
)

// WidgetValues holds raw wire values reported by the frontend, keyed by
// widget id.
type WidgetValues map[WidgetID][]int

// WidgetCallback is invoked when a widget's value changed since the
// previous run. It receives the positional and named arguments bound at
// declaration time.
type WidgetCallback func(args []any, kwargs map[string]any)

// WidgetRegistration describes how a widget's value is decoded, encoded
// and reported.
type WidgetRegistration[T any] struct {
	Kind         string
	UserKey      string
	Default      []int
	Serializer   WidgetSerializer[T]
	Deserializer WidgetDeserializer[T]
	OnChange     WidgetCallback
	Args         []any
	Kwargs       map[string]any
}

// RegisterResult is the reconciled value of a widget for the current run.
type RegisterResult[T any] struct {
	Value   T
	Changed bool
	// Reset is set when the reported or stored raw value no longer
	// decoded and the default was stored instead. The frontend must be
	// told the new value.
	Reset bool
}

type widgetState struct {
	kind    string
	userKey string
	raw     []int
}

// SessionOption configures a SessionState.
type SessionOption func(*SessionState)

// WithStrictDecode makes out-of-bounds wire values fail registration
// instead of falling back to the widget default.
func WithStrictDecode(strict bool) SessionOption {
	return func(s *SessionState) {
		s.strictDecode = strict
	}
}

// WithPolicies replaces the widget policies checked before registration.
func WithPolicies(p WidgetPolicies) SessionOption {
	return func(s *SessionState) {
		s.policies = p
	}
}

// SessionState is the widget registry of one session.
//
// A session runs one script at a time, so SessionState is not safe for
// concurrent use and needs no locking. Sessions are isolated from each
// other by owning separate SessionState values.
type SessionState struct {
	id           string
	widgets      map[WidgetID]*widgetState
	keyed        map[string]WidgetID
	frontend     WidgetValues
	keyedValues  map[string][]int
	tracker      *IDTracker
	runs         int
	strictDecode bool
	policies     WidgetPolicies
}

// NewSessionState creates an empty registry for a session.
func NewSessionState(id string, opts ...SessionOption) *SessionState {
	s := &SessionState{
		id:          id,
		widgets:     make(map[WidgetID]*widgetState),
		keyed:       make(map[string]WidgetID),
		frontend:    make(WidgetValues),
		keyedValues: make(map[string][]int),
		tracker:     NewIDTracker(),
		policies:    DefaultPolicies{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *SessionState) ID() string {
	return s.id
}

// Runs returns the number of script runs started in this session.
func (s *SessionState) Runs() int {
	return s.runs
}

// BeginRun starts a script run with the values the frontend reported
// since the previous run. Every widget is unseen until declared again.
func (s *SessionState) BeginRun(ctx context.Context, values WidgetValues) *ScriptRun {
	s.runs++
	s.tracker = NewIDTracker()
	s.frontend = make(WidgetValues, len(values))
	for id, raw := range values {
		s.frontend[id] = cloneIndices(raw)
	}
	log := pslog.Ctx(ctx).With("session", s.id, "run", s.runs)
	log.Debug("script run started", "frontend_values", len(values))
	return &ScriptRun{
		ctx:        pslog.ContextWithLogger(ctx, log),
		state:      s,
		formatters: make(map[WidgetID]func(int) string),
	}
}

// EndRun drops state for every widget that was not declared in the run,
// along with pending SetValueByKey values for undeclared keys.
func (s *SessionState) EndRun(ctx context.Context) {
	dropped := 0
	for id, w := range s.widgets {
		if s.tracker.Seen(id) {
			continue
		}
		if w.userKey != "" && s.keyed[w.userKey] == id {
			delete(s.keyed, w.userKey)
		}
		delete(s.widgets, id)
		dropped++
	}
	for key := range s.keyedValues {
		if !s.tracker.KeySeen(key) {
			delete(s.keyedValues, key)
		}
	}
	s.frontend = make(WidgetValues)
	if dropped > 0 {
		pslog.Ctx(ctx).Debug("dropped stale widget state", "dropped", dropped)
	}
}

// SetValueByKey assigns the raw value of the widget bound to key. The
// value is applied when the widget is next registered, as if the
// frontend had reported it. A pending value is discarded at the end of a
// run that did not declare a widget with that key.
func (s *SessionState) SetValueByKey(key string, raw []int) {
	s.keyedValues[key] = cloneIndices(raw)
}

// KeySetByAPI reports whether a value is pending for key via SetValueByKey.
func (s *SessionState) KeySetByAPI(key string) bool {
	_, ok := s.keyedValues[key]
	return ok
}

// WidgetIDForKey returns the id of the widget last registered with key.
func (s *SessionState) WidgetIDForKey(key string) (WidgetID, bool) {
	id, ok := s.keyed[key]
	return id, ok
}

// RawValue returns the last known raw value of a widget.
func (s *SessionState) RawValue(id WidgetID) ([]int, bool) {
	w, ok := s.widgets[id]
	if !ok {
		return nil, false
	}
	return cloneIndices(w.raw), true
}

// Len returns the number of widgets with stored state.
func (s *SessionState) Len() int {
	return len(s.widgets)
}

// ScriptRun is the context of one script execution in a session. A nil
// *ScriptRun means no script is running; registration then returns the
// widget defaults without touching any state.
type ScriptRun struct {
	ctx        context.Context
	state      *SessionState
	formatters map[WidgetID]func(int) string
}

// Context returns the run context carrying the run logger.
func (r *ScriptRun) Context() context.Context {
	if r == nil {
		return context.Background()
	}
	return r.ctx
}

// Session returns the session this run belongs to.
func (r *ScriptRun) Session() *SessionState {
	if r == nil {
		return nil
	}
	return r.state
}

// End finishes the run and drops state of undeclared widgets.
func (r *ScriptRun) End() {
	if r == nil {
		return
	}
	r.state.EndRun(r.ctx)
}

// RegisterElementID computes the id of a widget and records it for the
// current run, failing on duplicates. Without an active run the id is
// computed but not tracked.
func (r *ScriptRun) RegisterElementID(kind, userKey, formID string, config any) (WidgetID, error) {
	fp, err := Fingerprint(config)
	if err != nil {
		return "", err
	}
	id := ComputeID(kind, userKey, formID, fp)
	if r == nil {
		return id, nil
	}
	if err := r.state.tracker.Track(id, kind, userKey); err != nil {
		pslog.Ctx(r.ctx).Error("duplicate widget id", "widget", id, "kind", kind, "key", userKey)
		return "", err
	}
	return id, nil
}

// Formatter returns the option formatter saved for a widget in this run.
func (r *ScriptRun) Formatter(id WidgetID) (func(int) string, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.formatters[id]
	return f, ok
}

func (r *ScriptRun) saveFormatter(id WidgetID, f func(int) string) {
	if r == nil || f == nil {
		return
	}
	r.formatters[id] = f
}

// RegisterWidget reconciles a declared widget with the session state.
//
// The raw value is the one the frontend reported for id in this run, else
// the last known raw value, else the declared default. Changed is true
// when the raw value differs from the last known one; OnChange then runs
// once before RegisterWidget returns. The first registration of a widget
// never counts as a change unless the frontend reported a value that
// differs from the default. Values assigned with SetValueByKey mark the
// widget changed without running OnChange. A raw value that no longer
// decodes is replaced by the default and reported as Reset; OnChange does
// not run for it.
func RegisterWidget[T any](run *ScriptRun, id WidgetID, reg WidgetRegistration[T]) (RegisterResult[T], error) {
	if run == nil {
		value, err := reg.Deserializer(cloneIndices(reg.Default))
		if err != nil {
			return RegisterResult[T]{}, annotateDecodeError(err, id)
		}
		return RegisterResult[T]{Value: value}, nil
	}

	s := run.state
	log := pslog.Ctx(run.ctx).With("widget", id, "kind", reg.Kind)

	lastRaw := reg.Default
	if w, ok := s.widgets[id]; ok {
		lastRaw = w.raw
	}
	raw := lastRaw
	if v, ok := s.frontend[id]; ok {
		raw = v
	}
	fromAPI := false
	if reg.UserKey != "" {
		if v, ok := s.keyedValues[reg.UserKey]; ok {
			raw = v
			fromAPI = true
			delete(s.keyedValues, reg.UserKey)
		}
	}
	raw = cloneIndices(raw)
	changed := !equalIndices(raw, lastRaw)

	reset := false
	value, err := reg.Deserializer(raw)
	if err != nil {
		err = annotateDecodeError(err, id)
		if s.strictDecode || !IsDecodeError(err) {
			return RegisterResult[T]{}, err
		}
		log.Warn("stored widget value no longer valid, using default", "err", err)
		raw = cloneIndices(reg.Default)
		value, err = reg.Deserializer(raw)
		if err != nil {
			return RegisterResult[T]{}, annotateDecodeError(err, id)
		}
		reset = true
	}

	// Neither a default reset nor a value assigned through SetValueByKey
	// is user interaction.
	if changed && !reset && !fromAPI && reg.OnChange != nil {
		log.Debug("invoking widget callback")
		reg.OnChange(reg.Args, reg.Kwargs)
	}

	s.widgets[id] = &widgetState{kind: reg.Kind, userKey: reg.UserKey, raw: raw}
	if reg.UserKey != "" {
		s.keyed[reg.UserKey] = id
	}
	log.Trace("widget registered", "changed", changed, "reset", reset)
	return RegisterResult[T]{Value: value, Changed: changed, Reset: reset}, nil
}

func annotateDecodeError(err error, id WidgetID) error {
	var de *DecodeError
	if errors.As(err, &de) && de.ID == "" {
		return &DecodeError{ID: id, Index: de.Index, Len: de.Len}
	}
	return err
}

func cloneIndices(raw []int) []int {
	if raw == nil {
		return nil
	}
	cp := make([]int, len(raw))
	copy(cp, raw)
	return cp
}

// equalIndices compares wire values; nil and empty are equal.
func equalIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
