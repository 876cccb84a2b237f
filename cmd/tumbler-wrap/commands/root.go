package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/ironsheep/tumbler-wrap/internal/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetBuildInfo records the values injected by the linker.
func SetBuildInfo(v, built, commit string) {
	version, buildTime, gitCommit = v, built, commit
}

// app is the state shared by subcommands once the root pre-run hook has completed.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func Execute() error {
	root, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return root.Execute()
}

func newRootCmd() (*cobra.Command, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "tumbler-wrap",
		Short:         "Print-ready wraps for straight and tapered tumblers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.logger = a.cfg.NewLogger(cmd.ErrOrStderr())
			slog.SetDefault(a.logger)
			if lvl, _ := config.ParseLevel(a.cfg.LogLevel); lvl <= slog.LevelDebug {
				gg.SetLogger(a.logger.With("component", "gg"))
			}
			return nil
		},
	}
	a.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		mcpCmd(a),
		serveCmd(a),
		generateCmd(a),
		sectorCmd(a),
		searchCmd(a),
		presetsCmd(a),
		versionCmd(),
	)
	return root, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tumbler-wrap %s\n", version)
			fmt.Fprintf(out, "  Build time: %s\n", buildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", gitCommit)
			return nil
		},
	}
}
