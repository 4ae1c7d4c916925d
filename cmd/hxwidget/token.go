package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/hxwidget"
)

func newTokenCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode and decode frontend state tokens",
	}
	cmd.AddCommand(newTokenEncodeCmd(cfgPath))
	cmd.AddCommand(newTokenDecodeCmd(cfgPath))
	return cmd
}

func newTokenEncodeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [FILE]",
		Short: "Encode a YAML map of widget id to option indices (stdin when FILE is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgPath)
			if err != nil {
				return err
			}
			key, err := cfg.EncodingKey()
			if err != nil {
				return err
			}
			sessions := hxwidget.NewSessions(key, hxwidget.WithStrictDecode(cfg.State.StrictDecode))
			if cfg.Encoding.Sensitive {
				sessions.Sensitive()
			}
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			data, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			raw := map[string][]int{}
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("parse widget values: %w", err)
			}
			values := make(hxwidget.WidgetValues, len(raw))
			for id, indices := range raw {
				values[hxwidget.WidgetID(id)] = indices
			}
			token, err := sessions.StateToken(values)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}

func newTokenDecodeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Decode a frontend state token into YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgPath)
			if err != nil {
				return err
			}
			key, err := cfg.EncodingKey()
			if err != nil {
				return err
			}
			enc, err := hxwidget.NewEncoder(key)
			if err != nil {
				return err
			}
			values, err := hxwidget.DecodeWidgetValues(enc, strings.TrimSpace(args[0]), cfg.Encoding.Sensitive)
			if err != nil {
				return err
			}
			out := make(map[string][]int, len(values))
			for id, indices := range values {
				out[string(id)] = indices
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
}
