package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"checadas.com/ponches/config"
	"checadas.com/ponches/security"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "createtoken",
		Usage: "print a bearer token for the ponches web API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file holding web.jwtSecret",
			},
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "base64 signing secret, overrides the config file",
				Sources: cli.EnvVars("PONCHES_JWT_SECRET"),
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "identity written to the token",
				Value: "ponches-client",
			},
			&cli.DurationFlag{
				Name:  "expires",
				Usage: "token lifetime",
				Value: time.Hour,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			secret := cfg.Web.JWTSecret
			if cmd.IsSet("secret") {
				secret = cmd.String("secret")
			}
			if secret == "" {
				return errors.New("no signing secret configured")
			}

			token, err := security.CreateIdentityToken(
				security.Identity{UniqueName: cmd.String("name"), Provider: "createtoken"},
				secret,
				cmd.Duration("expires"),
			)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
