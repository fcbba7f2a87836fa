package root

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"taskcade/internal/auth"
	"taskcade/internal/config"
	"taskcade/internal/engine"
	"taskcade/internal/game"
	"taskcade/internal/storage"
)

type app struct {
	auth   *auth.Service
	coord  *engine.Coordinator
	logger *log.Logger
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = flagDB
	}
	if flags.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
	cfg.Normalize()
	return cfg, cfg.Validate()
}

// openApp wires storage, auth and the coordinator. Notifications go to n
// and celebrations to cel; either may be nil.
func openApp(ctx context.Context, cmd *cobra.Command, n engine.Notifier, cel engine.Celebrator) (*app, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, logCloser, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	kv, err := storage.Open(ctx, cfg.Backend, cfg.DBPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = kv.Close()
		_ = logCloser.Close()
	}
	logger.Printf("opened %s store at %s", cfg.Backend, cfg.DBPath)

	authSvc := auth.NewService(kv, logger)
	coord, err := engine.NewCoordinator(ctx, kv, engine.Options{
		Registry:   game.DefaultRegistry(),
		Auth:       authSvc,
		Surface:    game.Surface{Width: 40, Height: 25},
		Notifier:   n,
		Celebrator: cel,
		Logger:     logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &app{auth: authSvc, coord: coord, logger: logger}, cleanup, nil
}
