package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/hxwidget/internal/config"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

const version = "0.1.0"

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("hxwidget command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "hxwidget",
		Short:         "Inspect widget identities, feedback mappings and frontend state tokens",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(newIDsCmd(&cfgPath))
	root.AddCommand(newFeedbackCmd())
	root.AddCommand(newTokenCmd(&cfgPath))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the config and installs its logger on the command.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), cfg.Logger(cmd.ErrOrStderr())))
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("hxwidget version " + version + "\n"))
			return err
		},
	}
}
