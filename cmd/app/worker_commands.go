package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/capacity-planner/cmd/app/commands"
	"github.com/allisson/capacity-planner/internal/app"
	"github.com/allisson/capacity-planner/internal/config"
	workerUseCase "github.com/allisson/capacity-planner/internal/worker/usecase"
)

func workerIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "id",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "Worker ID (UUID)",
	}
}

// withWorkerUseCase builds a container from the environment and runs fn with its
// worker use case.
func withWorkerUseCase(
	ctx context.Context,
	fn func(container *app.Container, useCase workerUseCase.WorkerUseCase) error,
) error {
	container := app.NewContainer(config.Load())
	defer func() { _ = container.Shutdown(ctx) }()

	useCase, err := container.WorkerUseCase(ctx)
	if err != nil {
		return err
	}
	return fn(container, useCase)
}

// updateInputFromFlags sets only the fields whose flags were passed.
func updateInputFromFlags(cmd *cli.Command) workerUseCase.UpdateWorkerInput {
	var input workerUseCase.UpdateWorkerInput
	if cmd.IsSet("name") {
		name := cmd.String("name")
		input.Name = &name
	}
	if cmd.IsSet("email") {
		email := cmd.String("email")
		input.Email = &email
	}
	if cmd.IsSet("team") {
		team := cmd.String("team")
		input.Team = &team
	}
	if cmd.IsSet("active") {
		active := cmd.Bool("active")
		input.Active = &active
	}
	return input
}

func getWorkerCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-worker",
			Usage: "Create a worker; name and email are stored encrypted",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Full name",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address",
				},
				&cli.StringFlag{
					Name:    "team",
					Aliases: []string{"t"},
					Usage:   "Team name",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the worker is available for planning",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withWorkerUseCase(ctx, func(container *app.Container, useCase workerUseCase.WorkerUseCase) error {
					return commands.RunCreateWorker(
						ctx,
						useCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						workerUseCase.CreateWorkerInput{
							Name:   cmd.String("name"),
							Email:  cmd.String("email"),
							Team:   cmd.String("team"),
							Active: cmd.Bool("active"),
						},
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "get-worker",
			Usage: "Show a worker by ID",
			Flags: []cli.Flag{
				workerIDFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withWorkerUseCase(ctx, func(_ *app.Container, useCase workerUseCase.WorkerUseCase) error {
					return commands.RunGetWorker(
						ctx,
						useCase,
						commands.DefaultIO().Writer,
						cmd.String("id"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "list-workers",
			Usage: "List workers sorted by name",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "active-only",
					Value: false,
					Usage: "Only list active workers",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withWorkerUseCase(ctx, func(_ *app.Container, useCase workerUseCase.WorkerUseCase) error {
					return commands.RunListWorkers(
						ctx,
						useCase,
						commands.DefaultIO().Writer,
						cmd.Bool("active-only"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "find-worker",
			Usage: "Find a worker by email address",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address (case-insensitive)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withWorkerUseCase(ctx, func(_ *app.Container, useCase workerUseCase.WorkerUseCase) error {
					return commands.RunFindWorker(
						ctx,
						useCase,
						commands.DefaultIO().Writer,
						cmd.String("email"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "update-worker",
			Usage: "Update the given fields of a worker",
			Flags: []cli.Flag{
				workerIDFlag(),
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "New full name",
				},
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "New email address",
				},
				&cli.StringFlag{
					Name:    "team",
					Aliases: []string{"t"},
					Usage:   "New team name",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Usage:   "Whether the worker is available for planning",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withWorkerUseCase(ctx, func(container *app.Container, useCase workerUseCase.WorkerUseCase) error {
					return commands.RunUpdateWorker(
						ctx,
						useCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("id"),
						updateInputFromFlags(cmd),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "delete-worker",
			Usage: "Delete a worker",
			Flags: []cli.Flag{
				workerIDFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withWorkerUseCase(ctx, func(container *app.Container, useCase workerUseCase.WorkerUseCase) error {
					return commands.RunDeleteWorker(
						ctx,
						useCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("id"),
					)
				})
			},
		},
	}
}
