package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/tumbler-wrap/internal/gateway"
	"github.com/ironsheep/tumbler-wrap/internal/imaging"
	"github.com/ironsheep/tumbler-wrap/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: "Serve /search, /generate, /presets and /healthz. With --domain the gateway " +
			"listens on :80 and :443 and obtains certificates from Let's Encrypt.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if a.cfg.APIKey == "" {
				a.logger.Warn("FREEPIK_API_KEY is not set; /search will answer 500")
			}
			gw := gateway.New(a.cfg, a.cfg.SearchClient(a.logger), imaging.NewLoader(gateway.NewSourceClient(30*time.Second)), a.logger)
			return gw.ListenAndServe(ctx)
		},
	}
	cmd.Flags().IntVar(&a.cfg.Port, "port", a.cfg.Port, "HTTP listen port (ignored with --domain)")
	cmd.Flags().StringVar(&a.cfg.Domain, "domain", a.cfg.Domain, "serve HTTPS for this domain with automatic certificates")
	cmd.Flags().StringVar(&a.cfg.CertDir, "cert-dir", a.cfg.CertDir, "certificate cache directory")
	cmd.Flags().StringSliceVar(&a.cfg.SourceHosts, "source-host", a.cfg.SourceHosts,
		"only fetch /generate images from these hosts or their subdomains (repeatable)")
	return cmd
}

func mcpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the wrap tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Debug("mcp server starting", "version", version, "built", buildTime, "commit", gitCommit)
			srv := server.New(server.Options{
				Config:  a.cfg,
				Logger:  a.logger,
				Version: version,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
			})
			return srv.Run(ctx)
		},
	}
}
