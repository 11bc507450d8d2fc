package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/capacity-planner/cmd/app/commands"
	"github.com/allisson/capacity-planner/internal/app"
	"github.com/allisson/capacity-planner/internal/config"
)

func keyDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "key-dir",
		Aliases: []string{"k"},
		Usage:   "Directory holding private.pem and public.pem (defaults to KEY_DIRECTORY)",
	}
}

// loadKeyConfig applies the --key-dir override on top of the environment configuration.
func loadKeyConfig(cmd *cli.Command) *config.Config {
	cfg := config.Load()
	if cmd.IsSet("key-dir") {
		cfg.KeyDirectory = config.ExpandHome(cmd.String("key-dir"))
	}
	return cfg
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init-keys",
			Usage: "Load the RSA key pair, generating one if the key directory is empty",
			Flags: []cli.Flag{
				keyDirFlag(),
				&cli.BoolFlag{
					Name:  "force-new",
					Value: false,
					Usage: "Replace the existing key pair (stored values become unreadable)",
				},
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Value:   false,
					Usage:   "Skip the confirmation prompt for --force-new",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := loadKeyConfig(cmd)
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunInitKeys(
					ctx,
					container.KeyManager(),
					container.Logger(),
					commands.DefaultIO(),
					cfg.KeyDirectory,
					cmd.Bool("force-new"),
					cmd.Bool("yes"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "key-info",
			Usage: "Show the fingerprint and size of the installation key pair",
			Flags: []cli.Flag{
				keyDirFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := loadKeyConfig(cmd)
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyPair, err := container.KeyPair(ctx)
				if err != nil {
					return err
				}

				return commands.RunKeyInfo(
					commands.DefaultIO().Writer,
					cfg.KeyDirectory,
					keyPair,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "encrypt",
			Usage: "Encrypt a value and print the envelope blob",
			Flags: []cli.Flag{
				keyDirFlag(),
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Plaintext to encrypt",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(loadKeyConfig(cmd))
				defer func() { _ = container.Shutdown(ctx) }()

				fieldCipher, err := container.FieldCipher(ctx)
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					fieldCipher,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("value"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt an envelope blob and print the plaintext",
			Flags: []cli.Flag{
				keyDirFlag(),
				&cli.StringFlag{
					Name:     "blob",
					Aliases:  []string{"b"},
					Required: true,
					Usage:    "Base64 envelope blob",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(loadKeyConfig(cmd))
				defer func() { _ = container.Shutdown(ctx) }()

				fieldCipher, err := container.FieldCipher(ctx)
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					fieldCipher,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("blob"),
				)
			},
		},
	}
}
