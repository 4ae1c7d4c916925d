package hxwidget

import (
	"bytes"
	"context"
	"strings"
)

// Script is a widget script executed once per run.
type Script func(run *ScriptRun, dg Container) error

// TestApp drives a script through repeated runs of one session, feeding
// simulated frontend interaction between runs.
//
//	app := hxwidget.NewTestApp(script)
//	first, _ := app.Run()
//	id := first.ButtonGroups()[0].ID
//	second, _ := app.Select(id, 1).Run()
type TestApp struct {
	ctx     context.Context
	session *SessionState
	script  Script
	pending WidgetValues
}

// TestRunResult holds the output of one TestApp run.
type TestRunResult struct {
	Elements []Enqueued
	run      *ScriptRun
	block    *Block
}

// NewTestApp creates a test driver for script with a fresh session.
func NewTestApp(script Script, opts ...SessionOption) *TestApp {
	return NewTestAppWithContext(context.Background(), script, opts...)
}

// NewTestAppWithContext is NewTestApp with a custom context, typically one
// carrying a test logger.
func NewTestAppWithContext(ctx context.Context, script Script, opts ...SessionOption) *TestApp {
	return &TestApp{
		ctx:     ctx,
		session: NewSessionState("test", opts...),
		script:  script,
		pending: WidgetValues{},
	}
}

// Session returns the session state driven by the app.
func (a *TestApp) Session() *SessionState {
	return a.session
}

// Select reports raw option indices for a widget in the next run, as the
// frontend would after a click.
func (a *TestApp) Select(id WidgetID, indices ...int) *TestApp {
	if indices == nil {
		indices = []int{}
	}
	a.pending[id] = indices
	return a
}

// Clear reports an empty selection for a widget in the next run.
func (a *TestApp) Clear(id WidgetID) *TestApp {
	return a.Select(id)
}

// Run executes the script once and ends the run.
func (a *TestApp) Run() (*TestRunResult, error) {
	run := a.session.BeginRun(a.ctx, a.pending)
	a.pending = WidgetValues{}

	block := NewBlock()
	err := a.script(run, block)
	run.End()

	result := &TestRunResult{
		Elements: block.Elements(),
		run:      run,
		block:    block,
	}
	return result, err
}

// ButtonGroups returns the button group declarations of the run in order.
func (r *TestRunResult) ButtonGroups() []*ButtonGroupDeclaration {
	var out []*ButtonGroupDeclaration
	for _, e := range r.Elements {
		if d, ok := e.Element.(*ButtonGroupDeclaration); ok {
			out = append(out, d)
		}
	}
	return out
}

// ByKey returns the declaration whose id embeds the given user key.
func (r *TestRunResult) ByKey(key string) *ButtonGroupDeclaration {
	for _, d := range r.ButtonGroups() {
		if UserKeyFromID(d.ID) == key {
			return d
		}
	}
	return nil
}

// OptionText returns the display text of option i of a widget, using the
// formatter saved during the run.
func (r *TestRunResult) OptionText(id WidgetID, i int) (string, bool) {
	f, ok := r.run.Formatter(id)
	if !ok {
		return "", false
	}
	return f(i), true
}

// InspectHTML renders the run's element queue with Block.Inspect.
func (r *TestRunResult) InspectHTML() string {
	var buf bytes.Buffer
	if err := r.block.Inspect().Render(context.Background(), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// HTMLContains checks if the inspected HTML contains a substring.
func (r *TestRunResult) HTMLContains(substr string) bool {
	return strings.Contains(r.InspectHTML(), substr)
}
