// Package hxwidget provides the identity and state reconciliation core for
// script-declared widgets.
//
// A backend script runs from top to bottom on every interaction and
// declares its widgets each time. hxwidget gives each widget a stable id,
// reconciles the value the frontend reported with the new declaration, and
// hands an immutable declaration to an output sink.
//
// # Identity
//
// Widget ids are content-derived:
//
//	id := hxwidget.ComputeID(kind, userKey, formID, fingerprint)
//
// Without a user key the fingerprint (a hash of options, defaults, selection
// mode and style) is part of the id, so changing the configuration yields a
// new widget. With a key the id only depends on kind, key and form, so the
// widget keeps its state across configuration changes. Two widgets that
// resolve to the same id in one run fail with ErrDuplicateWidgetID.
//
// # Wire values
//
// Every button group value travels as an ordered list of option indices.
// MultiSelectSerde maps option values to indices; FeedbackSerde reuses it for
// single sentiments, so both share one wire format.
//
// # Reconciliation
//
// Each session owns a SessionState. A run starts with the values the
// frontend reported:
//
//	run := state.BeginRun(ctx, values)
//	sel, err := hxwidget.Pills(run, block, "Tags", opts, hxwidget.ButtonGroupConfig[string]{})
//	run.End()
//
// RegisterWidget compares the reported raw value with the last known one,
// runs the OnChange callback once when it changed, and stores the raw value
// for the next run. Out-of-range values left over from older option lists
// fall back to the default.
//
// # Sessions
//
// Sessions partitions SessionState by session id. Sessions never share
// widget state, so no locking happens inside a run. Frontend values can be
// carried as signed or encrypted tokens:
//
//	sessions := hxwidget.NewSessions(key)
//	run, err := sessions.BeginRun(ctx, sessionID, token)
//
// # Logging
//
// hxwidget logs through the pslog logger stored in the context passed to
// BeginRun.
package hxwidget
