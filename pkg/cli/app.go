package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/talentflow/pkg/chaos"
	"github.com/getmockd/talentflow/pkg/config"
	"github.com/getmockd/talentflow/pkg/dispatch"
	"github.com/getmockd/talentflow/pkg/logging"
	"github.com/getmockd/talentflow/pkg/mutation"
	"github.com/getmockd/talentflow/pkg/responselog"
	"github.com/getmockd/talentflow/pkg/seed"
	"github.com/getmockd/talentflow/pkg/store/sqlite"
)

// loadConfig resolves file and environment settings, then applies the
// persistent flags the user set.
func (f *rootFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{Path: f.configFile, DotEnv: []string{".env"}})
	if err != nil {
		return nil, err
	}
	setFlag(cmd, cfg, "db", "storage.path", func() { cfg.Storage.Path = f.db })
	setFlag(cmd, cfg, "log-level", "log.level", func() { cfg.Log.Level = f.logLevel })
	return cfg, nil
}

// setFlag applies a flag to cfg when the user set it on the command line.
func setFlag(cmd *cobra.Command, cfg *config.Config, flag, key string, apply func()) {
	if cmd.Flags().Changed(flag) {
		apply()
		cfg.Set(key, config.SourceFlag)
	}
}

// app is the wired simulated backend: stores, router, policy and dispatcher.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	store      *sqlite.Store
	responses  *responselog.SQLiteStore
	injector   *chaos.Injector
	dispatcher *dispatch.Dispatcher
	closers    []io.Closer
}

// openApp validates cfg and opens everything the commands need. The caller
// must Close the returned app.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, logCloser, err := logging.NewFromStrings(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}
	if err := a.open(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// open wires the stores, policy and dispatcher. Everything opened is
// registered in a.closers, so Close releases it even on failure.
func (a *app) open(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	var err error

	a.store, err = sqlite.Open(ctx, sqlite.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: cfg.BusyTimeout(),
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, a.store)

	a.responses, err = responselog.Open(ctx, responselog.Config{
		Path:        cfg.ResponseLogPath(),
		BusyTimeout: cfg.BusyTimeout(),
		MaxPerJob:   cfg.ResponseLog.MaxPerJob,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("open response log: %w", err)
	}
	a.closers = append(a.closers, a.responses)

	chaosCfg, err := cfg.ChaosPolicy()
	if err != nil {
		return err
	}
	a.injector, err = chaos.NewInjector(chaosCfg, chaos.WithLogger(log))
	if err != nil {
		return fmt.Errorf("chaos: %w", err)
	}

	router, err := mutation.New(mutation.Config{
		Store:     a.store,
		Responses: a.responses,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	a.dispatcher, err = dispatch.New(dispatch.Config{
		Store:        a.store,
		Router:       router,
		Policy:       a.injector,
		Query:        cfg.DispatchQuery(),
		TimelineMode: cfg.Timeline.Mode,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       log,
	})
	return err
}

// seed runs the seeder when seeding is enabled.
func (a *app) seed(ctx context.Context) (seed.Result, error) {
	if !a.cfg.Seed.Enabled {
		return seed.Result{Skipped: true}, nil
	}
	s := &seed.Seeder{
		Store:    a.store,
		Fixtures: seed.NewRandomFixtures(a.cfg.Seed.FixtureSeed),
		Counts:   a.cfg.Seed.Counts,
		Logger:   a.log,
	}
	return s.Seed(ctx)
}

// Close releases resources in reverse opening order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
