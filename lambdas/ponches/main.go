package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"checadas.com/ponches/config"
	"checadas.com/ponches/core"
	"checadas.com/ponches/infrastructure/devops"
	"checadas.com/ponches/job"
	"checadas.com/ponches/logging"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

const defaultParam = "ponches"

// loadConfig reads the YAML document named by PONCHES_CONFIG_PARAM from the
// parameter store. Without the variable the defaults are used.
func loadConfig(ctx context.Context) (config.Config, error) {
	cfg := config.Default()
	param := os.Getenv("PONCHES_CONFIG_PARAM")
	if param == "" {
		return cfg, nil
	}

	client, err := devops.ConnectParameterStore(ctx)
	if err != nil {
		return cfg, err
	}
	if err := devops.LoadConfig(ctx, client, param, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func handle(ctx context.Context, cfg config.Config, raw json.RawMessage, newDeps func(context.Context, config.Config) (job.Deps, error)) (job.Summary, error) {
	l := logging.FromContext(ctx)
	l.Info("event received", zap.ByteString("event", raw))

	ev, err := parseEvent(raw)
	if errors.Is(err, errIgnored) {
		l.Info("nothing to do", zap.Error(err))
		return job.Summary{NoData: true}, nil
	}
	if err != nil {
		return job.Summary{}, err
	}
	if err := ev.apply(&cfg); err != nil {
		return job.Summary{}, err
	}

	deps, err := newDeps(ctx, cfg)
	if err != nil {
		return job.Summary{}, err
	}

	summary, err := job.Run(ctx, cfg, deps)
	if errors.Is(err, core.ErrNoValidData) {
		return summary, nil
	}
	return summary, err
}

func HandleRequest(ctx context.Context, raw json.RawMessage) (job.Summary, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return job.Summary{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, true)
	if err != nil {
		return job.Summary{}, err
	}
	defer logger.Sync()

	return handle(logging.WithLogger(ctx, logger), cfg, raw, job.NewDeps)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	// local run: the event is read from the first argument or stdin
	var raw json.RawMessage
	var err error
	if len(os.Args) > 1 {
		raw = json.RawMessage(os.Args[1])
	} else {
		err = json.NewDecoder(os.Stdin).Decode(&raw)
	}
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	summary, err := HandleRequest(context.Background(), raw)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Printf("[SUCCESS] Summary:\n%s\n", string(out))
}
