package hxwidget

// WidgetID identifies a widget instance across script runs.
type WidgetID string

// KindButtonGroup is the element kind shared by button groups, pills and
// feedback widgets.
const KindButtonGroup = "button_group"

// SelectionMode controls how many options may be selected at once.
type SelectionMode int

const (
	SelectionSingle SelectionMode = iota
	SelectionMulti
)

func (m SelectionMode) String() string {
	if m == SelectionMulti {
		return "multi"
	}
	return "single"
}

// Style is the visual style requested for a button group.
type Style string

const (
	StyleSegment    Style = "segment"
	StylePills      Style = "pills"
	StyleBorderless Style = "borderless"
)

// SelectionVisualization controls which options the frontend highlights.
type SelectionVisualization int

const (
	// VisualizeOnlySelected highlights just the selected options.
	VisualizeOnlySelected SelectionVisualization = iota
	// VisualizeAllUpToSelected highlights every option up to the selected
	// one, as star ratings do.
	VisualizeAllUpToSelected
)

// LabelVisibility controls how a widget label is shown.
type LabelVisibility string

const (
	LabelVisible   LabelVisibility = "visible"
	LabelHidden    LabelVisibility = "hidden"
	LabelCollapsed LabelVisibility = "collapsed"
)

// ButtonOption is one rendered option of a button group.
type ButtonOption struct {
	Content             string `msgpack:"content" yaml:"content,omitempty"`
	ContentIcon         string `msgpack:"content_icon" yaml:"content_icon,omitempty"`
	SelectedContentIcon string `msgpack:"selected_content_icon" yaml:"selected_content_icon,omitempty"`
}

// Element is a declaration handed to a Sink.
type Element interface {
	ElementID() WidgetID
}

// ButtonGroupDeclaration is the record produced for a button group in one
// script run. It is not modified after it has been enqueued.
type ButtonGroupDeclaration struct {
	ID                     WidgetID
	FormID                 string
	Options                []ButtonOption
	Default                []int
	Disabled               bool
	ClickMode              SelectionMode
	Style                  Style
	Label                  string
	HasLabel               bool
	LabelVisibility        LabelVisibility
	Help                   string
	SelectionVisualization SelectionVisualization

	// Value and SetValue are filled when the registered value changed or
	// was reset to the default, so the frontend resyncs.
	Value    []int
	SetValue bool
}

// ElementID implements Element.
func (d *ButtonGroupDeclaration) ElementID() WidgetID {
	return d.ID
}

// identityConfig is the part of a declaration that feeds the fingerprint.
type identityConfig struct {
	Options   []ButtonOption `msgpack:"options"`
	Default   []int          `msgpack:"default"`
	ClickMode string         `msgpack:"click_mode"`
	Style     Style          `msgpack:"style"`
}
