package main

import (
	"context"
	"fmt"
	"os"

	"checadas.com/ponches/config"
	"checadas.com/ponches/infrastructure/devops"
	"checadas.com/ponches/logging"
	"go.uber.org/zap"
)

// loadConfig reads PONCHES_CONFIG (file) and PONCHES_CONFIG_PARAM (SSM
// parameter) over the defaults. PONCHES_JWT_SECRET wins over both.
func loadConfig(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load(os.Getenv("PONCHES_CONFIG"))
	if err != nil {
		return cfg, err
	}

	if param := os.Getenv("PONCHES_CONFIG_PARAM"); param != "" {
		client, err := devops.ConnectParameterStore(ctx)
		if err != nil {
			return cfg, err
		}
		if err := devops.LoadConfig(ctx, client, param, &cfg); err != nil {
			return cfg, err
		}
	}

	if secret := os.Getenv("PONCHES_JWT_SECRET"); secret != "" {
		cfg.Web.JWTSecret = secret
	}
	return cfg, cfg.Validate()
}

func main() {
	cfg, err := loadConfig(context.Background())
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, true)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Web.JWTSecret == "" {
		logger.Warn("no jwt secret configured, the api is open")
	}
	logger.Info("listening", zap.String("address", cfg.Web.Address))

	if err := newRouter(cfg, logger).Run(cfg.Web.Address); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
