package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/capacity-planner/cmd/app/commands"
	"github.com/allisson/capacity-planner/internal/app"
	"github.com/allisson/capacity-planner/internal/config"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				db, err := container.DB()
				if err != nil {
					return err
				}

				return commands.RunMigrations(db, cfg.DBDriver, container.Logger())
			},
		},
	}
}
