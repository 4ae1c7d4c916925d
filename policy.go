package hxwidget

import (
	"pkt.systems/pslog"
)

// ValidateSelectionMode parses a selection mode name.
func ValidateSelectionMode(mode string) (SelectionMode, error) {
	switch mode {
	case "single":
		return SelectionSingle, nil
	case "multi":
		return SelectionMulti, nil
	}
	return 0, configErrorf(
		"the selection_mode argument must be one of [single multi]; the argument passed was %q", mode)
}

// ValidateStyle parses a button group style name.
func ValidateStyle(style string) (Style, error) {
	switch Style(style) {
	case StyleSegment, StylePills, StyleBorderless:
		return Style(style), nil
	}
	return "", configErrorf(
		"the style argument must be one of [segment pills borderless]; the argument passed was %q", style)
}

// ValidateSingleDefault rejects more than one default in single mode.
func ValidateSingleDefault(mode SelectionMode, defaults []int) error {
	if mode == SelectionSingle && len(defaults) > 1 {
		return configErrorf("the default argument must be a single value when selection_mode is single")
	}
	return nil
}

// ValidateIconsLength checks that icons, when given, match the options.
func ValidateIconsLength(icons []string, options int) error {
	if icons != nil && len(icons) != options {
		return configErrorf("the number of icons (%d) must match the number of options (%d)", len(icons), options)
	}
	return nil
}

// ValidateLabel checks the label visibility and warns about empty labels.
func ValidateLabel(run *ScriptRun, label string, visibility LabelVisibility) error {
	switch visibility {
	case LabelVisible, LabelHidden, LabelCollapsed:
	default:
		return configErrorf(
			"unsupported label_visibility %q; use one of [visible hidden collapsed]", visibility)
	}
	if label == "" {
		pslog.Ctx(run.Context()).Warn("widget label is empty; provide a label for accessibility",
			"label_visibility", string(visibility))
	}
	return nil
}

// WidgetPolicies checks session and form rules that apply to every widget.
// Check runs before the widget id is computed and must not change state.
type WidgetPolicies interface {
	Check(run *ScriptRun, scope FormScope, key string, hasCallback, hasDefault bool) error
}

// DefaultPolicies enforces the standard widget rules:
//   - callbacks are not allowed on widgets inside a form
//   - a default on a widget whose key was assigned programmatically is
//     ignored, which is logged as a warning
type DefaultPolicies struct{}

// Check implements WidgetPolicies.
func (DefaultPolicies) Check(run *ScriptRun, scope FormScope, key string, hasCallback, hasDefault bool) error {
	if hasCallback && scope != nil && scope.CurrentFormID() != "" {
		return configErrorf(
			"within a form, callbacks can only be defined on the form submit button; " +
				"widgets inside a form cannot have an on_change callback")
	}
	if run == nil || key == "" || !hasDefault {
		return nil
	}
	if run.state.KeySetByAPI(key) {
		pslog.Ctx(run.ctx).Warn("widget created with a default value but its value was also set by key",
			"key", key)
	}
	return nil
}

// policiesFor returns the policies of the run's session.
func policiesFor(run *ScriptRun) WidgetPolicies {
	if run == nil || run.state.policies == nil {
		return DefaultPolicies{}
	}
	return run.state.policies
}
