package hxwidget

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// indexRegistration registers a plain index-list widget with an optional
// callback counter.
func indexRegistration(n int, defaults []int, calls *int) WidgetRegistration[[]string] {
	values := make([]string, n)
	for i := range values {
		values[i] = string(rune('a' + i))
	}
	serde := NewMultiSelectSerde(ComparableOptions(values), defaults)
	reg := WidgetRegistration[[]string]{
		Kind:         KindButtonGroup,
		Default:      defaults,
		Serializer:   serde.Serialize,
		Deserializer: serde.Deserialize,
	}
	if calls != nil {
		reg.OnChange = func(args []any, kwargs map[string]any) { *calls++ }
	}
	return reg
}

// registerTracked records id for the run, as RegisterElementID would, and
// registers the widget.
func registerTracked[T any](t *testing.T, run *ScriptRun, id WidgetID, reg WidgetRegistration[T]) (RegisterResult[T], error) {
	t.Helper()
	if err := run.state.tracker.Track(id, reg.Kind, reg.UserKey); err != nil {
		t.Fatalf("Track(%s) error = %v", id, err)
	}
	return RegisterWidget(run, id, reg)
}

func TestRegisterWidget_ChangeDetection(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")
	const id WidgetID = "w"
	calls := 0

	// First run: default only, never a change.
	run := state.BeginRun(ctx, nil)
	res, err := registerTracked(t, run, id, indexRegistration(3, []int{0}, &calls))
	if err != nil {
		t.Fatalf("RegisterWidget() error = %v", err)
	}
	run.End()
	if res.Changed || calls != 0 {
		t.Errorf("initial registration: changed=%v calls=%d, want false/0", res.Changed, calls)
	}
	if diff := cmp.Diff([]string{"a"}, res.Value); diff != "" {
		t.Errorf("initial value mismatch (-want +got):\n%s", diff)
	}

	// Frontend reports [1]: change and one callback.
	run = state.BeginRun(ctx, WidgetValues{id: {1}})
	res, err = registerTracked(t, run, id, indexRegistration(3, []int{0}, &calls))
	if err != nil {
		t.Fatalf("RegisterWidget() error = %v", err)
	}
	run.End()
	if !res.Changed || calls != 1 {
		t.Errorf("after [1]: changed=%v calls=%d, want true/1", res.Changed, calls)
	}
	if diff := cmp.Diff([]string{"b"}, res.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}

	// Frontend reports [1] again: no change.
	run = state.BeginRun(ctx, WidgetValues{id: {1}})
	res, _ = registerTracked(t, run, id, indexRegistration(3, []int{0}, &calls))
	run.End()
	if res.Changed || calls != 1 {
		t.Errorf("repeat [1]: changed=%v calls=%d, want false/1", res.Changed, calls)
	}

	// Nothing reported: the stored value carries over unchanged.
	run = state.BeginRun(ctx, nil)
	res, _ = registerTracked(t, run, id, indexRegistration(3, []int{0}, &calls))
	run.End()
	if res.Changed || calls != 1 {
		t.Errorf("no report: changed=%v calls=%d, want false/1", res.Changed, calls)
	}
	if diff := cmp.Diff([]string{"b"}, res.Value); diff != "" {
		t.Errorf("carried value mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterWidget_StoredZeroThenOne(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")
	const id WidgetID = "w"
	calls := 0

	run := state.BeginRun(ctx, WidgetValues{id: {0}})
	if _, err := registerTracked(t, run, id, indexRegistration(2, nil, nil)); err != nil {
		t.Fatalf("RegisterWidget() error = %v", err)
	}
	run.End()

	run = state.BeginRun(ctx, WidgetValues{id: {1}})
	res, _ := registerTracked(t, run, id, indexRegistration(2, nil, &calls))
	run.End()
	if !res.Changed || calls != 1 {
		t.Errorf("[0] -> [1]: changed=%v calls=%d, want true/1", res.Changed, calls)
	}

	run = state.BeginRun(ctx, WidgetValues{id: {1}})
	res, _ = registerTracked(t, run, id, indexRegistration(2, nil, &calls))
	run.End()
	if res.Changed || calls != 1 {
		t.Errorf("[1] -> [1]: changed=%v calls=%d, want false/1", res.Changed, calls)
	}
}

func TestRegisterWidget_CallbackArgs(t *testing.T) {
	state := NewSessionState("s1")
	const id WidgetID = "w"

	var gotArgs []any
	var gotKwargs map[string]any
	reg := indexRegistration(2, nil, nil)
	reg.OnChange = func(args []any, kwargs map[string]any) {
		gotArgs, gotKwargs = args, kwargs
	}
	reg.Args = []any{"row", 3}
	reg.Kwargs = map[string]any{"source": "test"}

	run := state.BeginRun(context.Background(), WidgetValues{id: {1}})
	if _, err := RegisterWidget(run, id, reg); err != nil {
		t.Fatalf("RegisterWidget() error = %v", err)
	}
	if diff := cmp.Diff([]any{"row", 3}, gotArgs); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"source": "test"}, gotKwargs); diff != "" {
		t.Errorf("kwargs mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterWidget_DecodeFallback(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")
	const id WidgetID = "w"

	// Old state references option 4, but the widget now has 2 options.
	run := state.BeginRun(ctx, WidgetValues{id: {4}})
	res, err := registerTracked(t, run, id, indexRegistration(2, []int{1}, nil))
	if err != nil {
		t.Fatalf("RegisterWidget() error = %v, want fallback to default", err)
	}
	run.End()
	if diff := cmp.Diff([]string{"b"}, res.Value); diff != "" {
		t.Errorf("fallback value mismatch (-want +got):\n%s", diff)
	}
	raw, _ := state.RawValue(id)
	if diff := cmp.Diff([]int{1}, raw); diff != "" {
		t.Errorf("stored raw mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterWidget_StrictDecode(t *testing.T) {
	state := NewSessionState("s1", WithStrictDecode(true))
	const id WidgetID = "w"

	run := state.BeginRun(context.Background(), WidgetValues{id: {4}})
	_, err := RegisterWidget(run, id, indexRegistration(2, nil, nil))
	if !IsDecodeError(err) {
		t.Fatalf("RegisterWidget() error = %v, want decode error", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.ID != id {
		t.Errorf("decode error should name the widget: %v", err)
	}
	if _, ok := state.RawValue(id); ok {
		t.Error("failed registration must not store state")
	}
}

func TestRegisterWidget_NoRun(t *testing.T) {
	calls := 0
	res, err := RegisterWidget(nil, "w", indexRegistration(3, []int{2}, &calls))
	if err != nil {
		t.Fatalf("RegisterWidget(nil run) error = %v", err)
	}
	if res.Changed || calls != 0 {
		t.Errorf("nil run: changed=%v calls=%d, want false/0", res.Changed, calls)
	}
	if diff := cmp.Diff([]string{"c"}, res.Value); diff != "" {
		t.Errorf("nil run value mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionState_EndRunDropsUndeclared(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")

	run := state.BeginRun(ctx, nil)
	for _, key := range []string{"keep", "drop"} {
		id, err := run.RegisterElementID(KindButtonGroup, key, "", nil)
		if err != nil {
			t.Fatalf("RegisterElementID(%s) error = %v", key, err)
		}
		reg := indexRegistration(2, nil, nil)
		reg.UserKey = key
		if _, err := RegisterWidget(run, id, reg); err != nil {
			t.Fatalf("RegisterWidget(%s) error = %v", key, err)
		}
	}
	run.End()
	if state.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", state.Len())
	}

	run = state.BeginRun(ctx, nil)
	id, _ := run.RegisterElementID(KindButtonGroup, "keep", "", nil)
	reg := indexRegistration(2, nil, nil)
	reg.UserKey = "keep"
	if _, err := RegisterWidget(run, id, reg); err != nil {
		t.Fatalf("RegisterWidget(keep) error = %v", err)
	}
	run.End()

	if state.Len() != 1 {
		t.Errorf("Len() = %d after dropping, want 1", state.Len())
	}
	if _, ok := state.WidgetIDForKey("drop"); ok {
		t.Error("key of dropped widget should be unbound")
	}
	if got, ok := state.WidgetIDForKey("keep"); !ok || got != id {
		t.Errorf("WidgetIDForKey(keep) = %q, %v", got, ok)
	}
	if state.Runs() != 2 {
		t.Errorf("Runs() = %d, want 2", state.Runs())
	}
}

func TestSessionState_SetValueByKey(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")
	calls := 0

	register := func() RegisterResult[[]string] {
		t.Helper()
		run := state.BeginRun(ctx, nil)
		defer run.End()
		id, err := run.RegisterElementID(KindButtonGroup, "pick", "", nil)
		if err != nil {
			t.Fatalf("RegisterElementID() error = %v", err)
		}
		reg := indexRegistration(3, nil, &calls)
		reg.UserKey = "pick"
		res, err := RegisterWidget(run, id, reg)
		if err != nil {
			t.Fatalf("RegisterWidget() error = %v", err)
		}
		return res
	}

	register()
	state.SetValueByKey("pick", []int{2})
	if !state.KeySetByAPI("pick") {
		t.Error("KeySetByAPI should report the pending value")
	}

	res := register()
	if !res.Changed {
		t.Error("assigned value should mark the widget changed")
	}
	if calls != 0 {
		t.Errorf("assigned value ran the callback %d times, want 0", calls)
	}
	if diff := cmp.Diff([]string{"c"}, res.Value); diff != "" {
		t.Errorf("assigned value mismatch (-want +got):\n%s", diff)
	}
	if state.KeySetByAPI("pick") {
		t.Error("pending value should be consumed by registration")
	}
}

func TestSessionState_Isolation(t *testing.T) {
	ctx := context.Background()
	a := NewSessionState("a")
	b := NewSessionState("b")
	const id WidgetID = "shared"

	runA := a.BeginRun(ctx, WidgetValues{id: {1}})
	if _, err := RegisterWidget(runA, id, indexRegistration(2, nil, nil)); err != nil {
		t.Fatalf("RegisterWidget(a) error = %v", err)
	}
	runA.End()

	runB := b.BeginRun(ctx, nil)
	res, err := RegisterWidget(runB, id, indexRegistration(2, nil, nil))
	if err != nil {
		t.Fatalf("RegisterWidget(b) error = %v", err)
	}
	runB.End()
	if len(res.Value) != 0 {
		t.Errorf("session b sees %v, sessions must not share state", res.Value)
	}
}

func TestRegisterElementID_Duplicates(t *testing.T) {
	state := NewSessionState("s1")
	run := state.BeginRun(context.Background(), nil)
	cfg := IdentityConfig([]ButtonOption{{Content: "a"}}, []int{}, SelectionSingle, StyleSegment)

	first, err := run.RegisterElementID(KindButtonGroup, "", "", cfg)
	if err != nil {
		t.Fatalf("first RegisterElementID() error = %v", err)
	}
	if _, err := run.RegisterElementID(KindButtonGroup, "", "", cfg); !IsDuplicateWidgetID(err) {
		t.Errorf("second RegisterElementID() error = %v, want duplicate", err)
	}
	run.End()

	// A new run starts with a clean tracker.
	run = state.BeginRun(context.Background(), nil)
	again, err := run.RegisterElementID(KindButtonGroup, "", "", cfg)
	if err != nil || again != first {
		t.Errorf("next run RegisterElementID() = %q, %v; want %q", again, err, first)
	}

	var nilRun *ScriptRun
	id1, _ := nilRun.RegisterElementID(KindButtonGroup, "", "", cfg)
	id2, err := nilRun.RegisterElementID(KindButtonGroup, "", "", cfg)
	if err != nil || id1 != id2 {
		t.Errorf("nil run should compute ids without tracking: %q %q %v", id1, id2, err)
	}
}

func TestSessionState_PendingKeyDroppedWhenUndeclared(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")

	state.SetValueByKey("ghost", []int{1})
	state.SetValueByKey("pick", []int{1})

	run := state.BeginRun(ctx, nil)
	id, err := run.RegisterElementID(KindButtonGroup, "other", "", nil)
	if err != nil {
		t.Fatalf("RegisterElementID() error = %v", err)
	}
	reg := indexRegistration(2, nil, nil)
	reg.UserKey = "other"
	if _, err := RegisterWidget(run, id, reg); err != nil {
		t.Fatalf("RegisterWidget() error = %v", err)
	}
	// Assigned during the run for a key that was declared: kept.
	state.SetValueByKey("other", []int{0})
	run.End()

	if state.KeySetByAPI("ghost") || state.KeySetByAPI("pick") {
		t.Error("pending values for undeclared keys should be dropped at the end of the run")
	}
	if !state.KeySetByAPI("other") {
		t.Error("pending value for a declared key should survive the run")
	}
}

func TestRegisterWidget_ResetDoesNotRunCallback(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState("s1")
	const id WidgetID = "w"
	calls := 0

	run := state.BeginRun(ctx, WidgetValues{id: {4}})
	res, err := registerTracked(t, run, id, indexRegistration(5, []int{0}, &calls))
	run.End()
	if err != nil || !res.Changed || res.Reset || calls != 1 {
		t.Fatalf("select 4: changed=%v reset=%v calls=%d err=%v", res.Changed, res.Reset, calls, err)
	}

	tests := []struct {
		name   string
		values WidgetValues
	}{
		{"stored value out of range", nil},
		{"frontend repeats stale value", WidgetValues{id: {4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Put the stale selection back before each case.
			state.widgets[id].raw = []int{4}
			before := calls

			run := state.BeginRun(ctx, tt.values)
			res, err := registerTracked(t, run, id, indexRegistration(2, []int{0}, &calls))
			run.End()
			if err != nil {
				t.Fatalf("RegisterWidget() error = %v", err)
			}
			if calls != before {
				t.Errorf("callback ran %d times on reset, want 0", calls-before)
			}
			if res.Changed || !res.Reset {
				t.Errorf("changed=%v reset=%v, want false/true", res.Changed, res.Reset)
			}
			if diff := cmp.Diff([]string{"a"}, res.Value); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
