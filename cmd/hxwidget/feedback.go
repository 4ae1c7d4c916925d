package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/hxwidget"
)

type feedbackReport struct {
	Kind           string                  `yaml:"kind"`
	AllUpToChecked bool                    `yaml:"all_up_to_selected"`
	Options        []hxwidget.ButtonOption `yaml:"options"`
	Sentiments     []int                   `yaml:"sentiments"`
}

func newFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback KIND",
		Short: "Print the rendered options and sentiments of a feedback kind (thumbs, faces, stars)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := hxwidget.ValidateFeedbackKind(args[0])
			if err != nil {
				return err
			}
			options, sentiments, err := hxwidget.MappedOptions(kind)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), feedbackReport{
				Kind:           string(kind),
				AllUpToChecked: kind == hxwidget.FeedbackStars,
				Options:        options,
				Sentiments:     sentiments,
			})
		},
	}
}
