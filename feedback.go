package hxwidget

// FeedbackKind selects the icon set of a feedback widget.
type FeedbackKind string

const (
	FeedbackThumbs FeedbackKind = "thumbs"
	FeedbackFaces  FeedbackKind = "faces"
	FeedbackStars  FeedbackKind = "stars"
)

// Icons used by feedback widgets.
var (
	thumbIcons = []string{":material/thumb_up:", ":material/thumb_down:"}
	faceIcons  = []string{
		":material/sentiment_sad:",
		":material/sentiment_dissatisfied:",
		":material/sentiment_neutral:",
		":material/sentiment_satisfied:",
		":material/sentiment_very_satisfied:",
	}
)

const (
	numberStars      = 5
	starIcon         = ":material/star:"
	selectedStarIcon = ":material/star_filled:"
)

// ValidateFeedbackKind parses a feedback kind name.
func ValidateFeedbackKind(kind string) (FeedbackKind, error) {
	switch FeedbackKind(kind) {
	case FeedbackThumbs, FeedbackFaces, FeedbackStars:
		return FeedbackKind(kind), nil
	}
	return "", configErrorf(
		"the options argument to feedback must be one of [thumbs faces stars]; the argument passed was %q", kind)
}

// MappedOptions returns the rendered options of a feedback kind and, for
// each rendered position, the sentiment it stands for.
//
// Thumbs render thumb-up first but keep sentiment 0 for thumb-down and 1
// for thumb-up, so the index labels are reversed.
func MappedOptions(kind FeedbackKind) ([]ButtonOption, []int, error) {
	var (
		options []ButtonOption
		indices []int
	)
	switch kind {
	case FeedbackThumbs:
		for i := range thumbIcons {
			indices = append(indices, len(thumbIcons)-1-i)
		}
		for _, icon := range thumbIcons {
			options = append(options, ButtonOption{ContentIcon: icon})
		}
	case FeedbackFaces:
		for i, icon := range faceIcons {
			indices = append(indices, i)
			options = append(options, ButtonOption{ContentIcon: icon})
		}
	case FeedbackStars:
		star := ButtonOption{ContentIcon: starIcon, SelectedContentIcon: selectedStarIcon}
		for i := 0; i < numberStars; i++ {
			indices = append(indices, i)
			options = append(options, star)
		}
	default:
		_, err := ValidateFeedbackKind(string(kind))
		return nil, nil, err
	}
	return options, indices, nil
}

// feedbackVisualization returns how selection is highlighted for kind.
func feedbackVisualization(kind FeedbackKind) SelectionVisualization {
	if kind == FeedbackStars {
		return VisualizeAllUpToSelected
	}
	return VisualizeOnlySelected
}
