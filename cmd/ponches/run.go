package main

import (
	"context"
	"errors"
	"fmt"

	"checadas.com/ponches/config"
	"checadas.com/ponches/core"
	"checadas.com/ponches/infrastructure/devops"
	"checadas.com/ponches/job"
	"checadas.com/ponches/logging"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "read punch files and write the consolidated report",
		ArgsUsage: "[files...]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "directory scanned for punch files when no files are given",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "report path (default ponches.<format>)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "report format (csv, xlsx)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "report layout (basic, detailed)",
			},
			&cli.StringFlag{
				Name:  "id-order",
				Usage: "employee id ordering (numeric, lexical)",
			},
			&cli.StringFlag{
				Name:  "ssm-param",
				Usage: "SSM parameter holding a YAML config document",
			},
			&cli.StringFlag{
				Name:  "s3-bucket",
				Usage: "read punch files from this S3 bucket",
			},
			&cli.StringFlag{
				Name:  "s3-prefix",
				Usage: "key prefix of the punch files in the bucket",
			},
			&cli.StringFlag{
				Name:  "s3-key",
				Usage: "upload the report to the bucket under this key",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
			},
		},
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, false)
	if err != nil {
		return err
	}
	defer logger.Sync()
	ctx = logging.WithLogger(ctx, logger)

	deps, err := job.NewDeps(ctx, cfg)
	if err != nil {
		return err
	}

	summary, err := job.Run(ctx, cfg, deps)
	if errors.Is(err, core.ErrNoValidData) {
		fmt.Fprint(cmd.Root().Writer, job.FormatSummary(summary))
		return nil
	}
	if err != nil {
		logger.Error("run failed", zap.String("run_id", summary.RunID), zap.Error(err))
		return err
	}

	fmt.Fprint(cmd.Root().Writer, job.FormatSummary(summary))
	return nil
}

// loadConfig layers the config file, the SSM document and the flags over
// the defaults, in that order.
func loadConfig(ctx context.Context, cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	if param := cmd.String("ssm-param"); param != "" {
		client, err := devops.ConnectParameterStore(ctx)
		if err != nil {
			return cfg, err
		}
		if err := devops.LoadConfig(ctx, client, param, &cfg); err != nil {
			return cfg, err
		}
	}

	applyFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if files := cmd.Args().Slice(); len(files) > 0 {
		cfg.Input.Files = files
	}
	set := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	set("dir", &cfg.Input.Dir)
	set("out", &cfg.Output.Path)
	set("format", &cfg.Output.Format)
	set("mode", &cfg.Output.Mode)
	set("id-order", &cfg.IDOrder)
	set("s3-bucket", &cfg.Input.S3.Bucket)
	set("s3-prefix", &cfg.Input.S3.Prefix)
	set("s3-key", &cfg.Output.S3Key)
	set("log-level", &cfg.Log.Level)
}
