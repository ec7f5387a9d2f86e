package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/talentflow/pkg/cli/internal/output"
	"github.com/getmockd/talentflow/pkg/cli/internal/ports"
	"github.com/getmockd/talentflow/pkg/config"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	addr         string
	chaosProfile string
	timelineMode string
	noSeed       bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulated API over HTTP",
		Long: `Open the entity store, seed it on first run, and serve the simulated API.

Every request waits a random latency and writes fail at the configured rate
(see 'talentflow chaos profiles'). Unknown paths answer 404.`,
		Example: `  # Start with defaults
  talentflow serve

  # Fast, reliable backend for UI work
  talentflow serve --chaos off

  # Custom address and store
  talentflow serve --addr :8080 --db ./dev.db

  # Record real stage changes in candidate timelines
  talentflow serve --timeline recorded`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			setFlag(cmd, cfg, "addr", "server.addr", func() { cfg.Server.Addr = f.addr })
			setFlag(cmd, cfg, "chaos", "chaos.profile", func() { cfg.Chaos.Profile = f.chaosProfile })
			setFlag(cmd, cfg, "timeline", "timeline.mode", func() { cfg.Timeline.Mode = f.timelineMode })
			setFlag(cmd, cfg, "no-seed", "seed.enabled", func() { cfg.Seed.Enabled = !f.noSeed })

			if exposed(cfg.Server.Addr) {
				output.Warn(cmd.ErrOrStderr(), "listening on all interfaces (%s); the simulated API has no authentication", cfg.Server.Addr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", config.DefaultAddr, "Listen address")
	cmd.Flags().StringVar(&f.chaosProfile, "chaos", "", "Chaos profile: demo, off, slow, flaky, offline")
	cmd.Flags().StringVar(&f.timelineMode, "timeline", "", "Timeline mode: demo or recorded")
	cmd.Flags().BoolVar(&f.noSeed, "no-seed", false, "Skip first-run seeding")
	return cmd
}

// exposed reports whether addr binds beyond the loopback interface.
func exposed(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "" || host == "localhost" {
		return host == ""
	}
	ip := net.ParseIP(host)
	return ip == nil || !ip.IsLoopback()
}

// runServe serves until ctx is done, then shuts down gracefully.
func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ports.Check(cfg.Server.Addr); err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if _, err := a.seed(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.dispatcher,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("serving simulated API",
			"addr", cfg.Server.Addr,
			"store", cfg.Storage.Path,
			"chaos", a.injector.IsEnabled(),
			"timeline", cfg.Timeline.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	stats := a.injector.Stats()
	a.log.Info("stopped",
		"requests", stats.TotalRequests,
		"latencyInjected", stats.LatencyInjected,
		"errorsInjected", stats.ErrorsInjected,
	)
	return nil
}
