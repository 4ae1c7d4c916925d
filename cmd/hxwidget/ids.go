package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/hxwidget"
	"pkt.systems/pslog"
)

// declarationFile lists widget declarations in script order.
type declarationFile struct {
	Widgets []widgetDecl `yaml:"widgets"`
}

type widgetDecl struct {
	Feedback      string   `yaml:"feedback,omitempty"`
	Label         string   `yaml:"label,omitempty"`
	Key           string   `yaml:"key,omitempty"`
	Form          string   `yaml:"form,omitempty"`
	Options       []string `yaml:"options,omitempty"`
	Icons         []string `yaml:"icons,omitempty"`
	Default       []string `yaml:"default,omitempty"`
	SelectionMode string   `yaml:"selection_mode,omitempty"`
	Style         string   `yaml:"style,omitempty"`
}

type idReport struct {
	Index int    `yaml:"index"`
	ID    string `yaml:"id,omitempty"`
	Form  string `yaml:"form,omitempty"`
	Error string `yaml:"error,omitempty"`
}

func newIDsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ids FILE",
		Short: "Compute widget ids for a YAML declaration file and report collisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file declarationFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			reports, failed := computeIDs(cmd, file, hxwidget.WithStrictDecode(cfg.State.StrictDecode))
			if err := writeYAML(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d widgets failed", failed, len(file.Widgets))
			}
			return nil
		},
	}
}

// computeIDs declares every widget in one simulated script run.
func computeIDs(cmd *cobra.Command, file declarationFile, opts ...hxwidget.SessionOption) ([]idReport, int) {
	state := hxwidget.NewSessionState("cli", opts...)
	run := state.BeginRun(cmd.Context(), nil)
	defer run.End()
	log := pslog.Ctx(run.Context())

	root := hxwidget.NewBlock()
	reports := make([]idReport, 0, len(file.Widgets))
	failed := 0
	for i, w := range file.Widgets {
		dg := root
		if w.Form != "" {
			dg = root.Form(w.Form)
		}
		id, err := declare(run, dg, w)
		report := idReport{Index: i, ID: string(id), Form: w.Form}
		if err != nil {
			failed++
			report.Error = err.Error()
			log.Warn("widget declaration failed", "index", i, "err", err)
		}
		reports = append(reports, report)
	}
	return reports, failed
}

func declare(run *hxwidget.ScriptRun, dg *hxwidget.Block, w widgetDecl) (hxwidget.WidgetID, error) {
	if w.Feedback != "" {
		res, err := hxwidget.Feedback(run, dg, w.Feedback, hxwidget.FeedbackConfig{Key: w.Key})
		return res.ID, err
	}
	opts := hxwidget.ComparableOptions(w.Options)
	cfg := hxwidget.ButtonGroupConfig[string]{
		Key:           w.Key,
		Icons:         w.Icons,
		Default:       w.Default,
		SelectionMode: w.SelectionMode,
		Style:         w.Style,
	}
	if w.Label != "" {
		sel, err := hxwidget.Pills(run, dg, w.Label, opts, cfg)
		return sel.ID, err
	}
	sel, err := hxwidget.ButtonGroup(run, dg, opts, cfg)
	return sel.ID, err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
