package cmd

import (
	"context"
	"fmt"

	"github.com/guzus/teleterm/internal/bridge"
	"github.com/guzus/teleterm/internal/config"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/messaging/local"
	"github.com/guzus/teleterm/internal/store"
)

// configDir returns --config-dir when set, otherwise the default location.
func configDir() (string, error) {
	if configDirFlag != "" {
		return configDirFlag, nil
	}
	return config.Dir()
}

// loadConfig reads app.toml and applies the --backend override.
func loadConfig() (config.Config, error) {
	dir, err := configDir()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return cfg, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("%w: --backend: %v", config.ErrConfig, err)
		}
	}
	return cfg, nil
}

// openClient connects to the configured backend. watch controls whether
// the local backend follows changes made to its file by other processes.
func openClient(ctx context.Context, cfg config.Config, watch bool) (messaging.Client, error) {
	switch cfg.Backend {
	case config.BackendBridge:
		// The helper outlives ctx; it is stopped by Close.
		c, err := bridge.Start(context.Background(), cfg.BridgeCommand, cfg.BridgeArgs)
		if err != nil {
			return nil, err
		}
		syncCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
		defer cancel()
		if err := c.Sync(syncCtx); err != nil {
			c.Close()
			return nil, fmt.Errorf("bridge sync: %w", err)
		}
		return c, nil
	default:
		st, err := store.OpenPath(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		var opts []local.Option
		if !watch {
			opts = append(opts, local.WithoutWatcher())
		}
		c, err := local.New(st, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
