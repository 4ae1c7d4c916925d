package hxwidget

import (
	"fmt"
)

// ButtonGroupConfig configures ButtonGroup and Pills.
type ButtonGroupConfig[V any] struct {
	// Key binds the widget to a stable id that survives configuration
	// changes. Without a key the id is derived from the configuration.
	Key string
	// Icons holds one icon per option, or nil.
	Icons []string
	// Default lists the initially selected values.
	Default []V
	// SelectionMode is "single" (the default) or "multi".
	SelectionMode string
	// Style is "segment" (the default), "pills" or "borderless".
	Style    string
	Disabled bool
	// Format renders an option's display text. Defaults to fmt.Sprint.
	Format func(V) string

	OnChange WidgetCallback
	Args     []any
	Kwargs   map[string]any

	// Label, Help and LabelVisibility are used by Pills.
	Label           string
	Help            string
	LabelVisibility LabelVisibility
}

// Selection is the value of a button group in the current run.
type Selection[V any] struct {
	ID      WidgetID
	Values  []V
	Changed bool
}

// Single returns the selected value of a single-select group.
func (s Selection[V]) Single() (V, bool) {
	if len(s.Values) == 0 {
		var zero V
		return zero, false
	}
	return s.Values[0], true
}

// FeedbackConfig configures Feedback.
type FeedbackConfig struct {
	Key      string
	Disabled bool
	OnChange WidgetCallback
	Args     []any
	Kwargs   map[string]any
}

// FeedbackResult is the value of a feedback widget in the current run.
type FeedbackResult struct {
	ID WidgetID
	// Sentiment is nil until the user selects an option. Thumbs report 0
	// for down and 1 for up; faces and stars report 0 to 4.
	Sentiment *int
	Changed   bool
}

// groupSpec is the widget-type independent part of a button group
// declaration.
type groupSpec struct {
	key             string
	options         int
	format          func(i int, icon string) ButtonOption
	icons           []string
	defaults        []int
	selectionMode   string
	style           string
	disabled        bool
	visualization   SelectionVisualization
	label           *string
	labelVisibility LabelVisibility
	help            string
}

// ButtonGroup declares a segmented button group over opts.
func ButtonGroup[V any](run *ScriptRun, dg Container, opts Options[V], cfg ButtonGroupConfig[V]) (Selection[V], error) {
	if cfg.Style == "" {
		cfg.Style = string(StyleSegment)
	}
	return selectGroup(run, dg, opts, cfg, nil)
}

// Pills declares a labeled pill-style button group over opts.
func Pills[V any](run *ScriptRun, dg Container, label string, opts Options[V], cfg ButtonGroupConfig[V]) (Selection[V], error) {
	if cfg.LabelVisibility == "" {
		cfg.LabelVisibility = LabelVisible
	}
	if err := ValidateLabel(run, label, cfg.LabelVisibility); err != nil {
		return Selection[V]{}, err
	}
	cfg.Style = string(StylePills)
	return selectGroup(run, dg, opts, cfg, &label)
}

func selectGroup[V any](run *ScriptRun, dg Container, opts Options[V], cfg ButtonGroupConfig[V], label *string) (Selection[V], error) {
	defaults, err := DefaultIndices(opts, cfg.Default)
	if err != nil {
		return Selection[V]{}, err
	}
	serde := NewMultiSelectSerde(opts, defaults)

	format := cfg.Format
	if format == nil {
		format = func(v V) string { return fmt.Sprint(v) }
	}
	mode := cfg.SelectionMode
	if mode == "" {
		mode = SelectionSingle.String()
	}

	group := groupSpec{
		key:     cfg.Key,
		options: opts.Len(),
		format: func(i int, icon string) ButtonOption {
			return ButtonOption{Content: format(opts.At(i)), ContentIcon: icon}
		},
		icons:           cfg.Icons,
		defaults:        defaults,
		selectionMode:   mode,
		style:           cfg.Style,
		disabled:        cfg.Disabled,
		visualization:   VisualizeOnlySelected,
		label:           label,
		labelVisibility: cfg.LabelVisibility,
		help:            cfg.Help,
	}
	reg := WidgetRegistration[[]V]{
		Kind:         KindButtonGroup,
		UserKey:      cfg.Key,
		Default:      defaults,
		Serializer:   serde.Serialize,
		Deserializer: serde.Deserialize,
		OnChange:     cfg.OnChange,
		Args:         cfg.Args,
		Kwargs:       cfg.Kwargs,
	}
	res, decl, err := buttonGroup(run, dg, group, reg)
	if err != nil {
		return Selection[V]{}, err
	}
	run.saveFormatter(decl.ID, func(i int) string { return format(opts.At(i)) })
	return Selection[V]{ID: decl.ID, Values: res.Value, Changed: res.Changed}, nil
}

// Feedback declares an icon-based rating widget.
func Feedback(run *ScriptRun, dg Container, kind string, cfg FeedbackConfig) (FeedbackResult, error) {
	fk, err := ValidateFeedbackKind(kind)
	if err != nil {
		return FeedbackResult{}, err
	}
	mapped, indices, err := MappedOptions(fk)
	if err != nil {
		return FeedbackResult{}, err
	}
	serde := NewFeedbackSerde(indices)

	group := groupSpec{
		key:     cfg.Key,
		options: len(mapped),
		format: func(i int, _ string) ButtonOption {
			return mapped[i]
		},
		selectionMode: SelectionSingle.String(),
		style:         string(StyleBorderless),
		disabled:      cfg.Disabled,
		visualization: feedbackVisualization(fk),
	}
	reg := WidgetRegistration[*int]{
		Kind:         KindButtonGroup,
		UserKey:      cfg.Key,
		Serializer:   serde.Serialize,
		Deserializer: serde.Deserialize,
		OnChange:     cfg.OnChange,
		Args:         cfg.Args,
		Kwargs:       cfg.Kwargs,
	}
	res, decl, err := buttonGroup(run, dg, group, reg)
	if err != nil {
		return FeedbackResult{}, err
	}
	return FeedbackResult{ID: decl.ID, Sentiment: res.Value, Changed: res.Changed}, nil
}

// buttonGroup validates, identifies, registers and enqueues a button
// group. Nothing is mutated until every validation has passed.
func buttonGroup[T any](run *ScriptRun, dg Container, group groupSpec, reg WidgetRegistration[T]) (RegisterResult[T], *ButtonGroupDeclaration, error) {
	var zero RegisterResult[T]

	mode, err := ValidateSelectionMode(group.selectionMode)
	if err != nil {
		return zero, nil, err
	}
	if err := ValidateSingleDefault(mode, group.defaults); err != nil {
		return zero, nil, err
	}
	style, err := ValidateStyle(group.style)
	if err != nil {
		return zero, nil, err
	}
	hasDefault := len(group.defaults) > 0
	if err := policiesFor(run).Check(run, dg, group.key, reg.OnChange != nil, hasDefault); err != nil {
		return zero, nil, err
	}
	if err := ValidateIconsLength(group.icons, group.options); err != nil {
		return zero, nil, err
	}

	formID := dg.CurrentFormID()
	formatted := make([]ButtonOption, group.options)
	for i := range formatted {
		icon := ""
		if group.icons != nil {
			icon = group.icons[i]
		}
		formatted[i] = group.format(i, icon)
	}
	defaults := group.defaults
	if defaults == nil {
		defaults = []int{}
	}

	id, err := run.RegisterElementID(KindButtonGroup, group.key, formID, IdentityConfig(formatted, defaults, mode, style))
	if err != nil {
		return zero, nil, err
	}

	decl := &ButtonGroupDeclaration{
		ID:                     id,
		FormID:                 formID,
		Options:                formatted,
		Default:                defaults,
		Disabled:               group.disabled,
		ClickMode:              mode,
		Style:                  style,
		SelectionVisualization: group.visualization,
	}
	if group.label != nil {
		decl.HasLabel = true
		decl.Label = *group.label
		decl.LabelVisibility = group.labelVisibility
		decl.Help = group.help
	}

	res, err := RegisterWidget(run, id, reg)
	if err != nil {
		return zero, nil, err
	}
	if res.Changed || res.Reset {
		value, err := reg.Serializer(res.Value)
		if err != nil {
			return zero, nil, err
		}
		decl.Value = value
		decl.SetValue = true
	}

	dg.Enqueue(KindButtonGroup, decl)
	return res, decl, nil
}

// IdentityConfig returns the configuration of a button group that feeds
// its fingerprint.
func IdentityConfig(options []ButtonOption, defaults []int, mode SelectionMode, style Style) any {
	return identityConfig{
		Options:   options,
		Default:   defaults,
		ClickMode: mode.String(),
		Style:     style,
	}
}
