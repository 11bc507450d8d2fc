package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/capacity-planner/internal/errors"
	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
	workerUseCase "github.com/allisson/capacity-planner/internal/worker/usecase"
)

// workerOutput is the JSON representation of a worker.
type workerOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Team      string `json:"team"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

func newWorkerOutput(worker *workerDomain.Worker) workerOutput {
	return workerOutput{
		ID:        worker.ID.String(),
		Name:      worker.Name,
		Email:     worker.Email,
		Team:      worker.Team,
		Active:    worker.Active,
		CreatedAt: worker.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RunCreateWorker creates a worker and prints it.
//
// Requirements: Database must be migrated and accessible.
func RunCreateWorker(
	ctx context.Context,
	useCase workerUseCase.WorkerUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input workerUseCase.CreateWorkerInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	worker, err := useCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	logger.Info("worker created successfully", slog.String("worker_id", worker.ID.String()))
	return outputWorker(writer, worker, format)
}

// RunGetWorker prints the worker with the given ID.
func RunGetWorker(
	ctx context.Context,
	useCase workerUseCase.WorkerUseCase,
	writer io.Writer,
	idStr string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := parseWorkerID(idStr)
	if err != nil {
		return err
	}

	worker, err := useCase.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get worker: %w", err)
	}
	return outputWorker(writer, worker, format)
}

// RunListWorkers prints all workers sorted by name.
func RunListWorkers(
	ctx context.Context,
	useCase workerUseCase.WorkerUseCase,
	writer io.Writer,
	activeOnly bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	workers, err := useCase.List(ctx, activeOnly)
	if err != nil {
		return fmt.Errorf("failed to list workers: %w", err)
	}

	if format == formatJSON {
		result := make([]workerOutput, 0, len(workers))
		for _, worker := range workers {
			result = append(result, newWorkerOutput(worker))
		}
		return writeJSON(writer, result)
	}

	if len(workers) == 0 {
		_, _ = fmt.Fprintln(writer, "No workers found.")
		return nil
	}
	for _, worker := range workers {
		_, _ = fmt.Fprintf(writer, "%s  %s  <%s>\n", worker.ID, worker.String(), worker.Email)
	}
	return nil
}

// RunFindWorker prints the worker with the given email address.
func RunFindWorker(
	ctx context.Context,
	useCase workerUseCase.WorkerUseCase,
	writer io.Writer,
	email string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	worker, err := useCase.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find worker: %w", err)
	}
	return outputWorker(writer, worker, format)
}

// RunUpdateWorker applies the non-nil fields of input and prints the updated worker.
func RunUpdateWorker(
	ctx context.Context,
	useCase workerUseCase.WorkerUseCase,
	logger *slog.Logger,
	writer io.Writer,
	idStr string,
	input workerUseCase.UpdateWorkerInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := parseWorkerID(idStr)
	if err != nil {
		return err
	}

	worker, err := useCase.Update(ctx, id, input)
	if err != nil {
		return fmt.Errorf("failed to update worker: %w", err)
	}

	logger.Info("worker updated successfully", slog.String("worker_id", worker.ID.String()))
	return outputWorker(writer, worker, format)
}

// RunDeleteWorker deletes the worker with the given ID.
func RunDeleteWorker(
	ctx context.Context,
	useCase workerUseCase.WorkerUseCase,
	logger *slog.Logger,
	writer io.Writer,
	idStr string,
) error {
	id, err := parseWorkerID(idStr)
	if err != nil {
		return err
	}

	if err := useCase.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete worker: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Worker %s deleted.\n", id)
	logger.Info("worker deleted successfully", slog.String("worker_id", id.String()))
	return nil
}

func parseWorkerID(idStr string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid worker id %q", idStr)
	}
	return id, nil
}

func outputWorker(writer io.Writer, worker *workerDomain.Worker, format string) error {
	output := newWorkerOutput(worker)
	if format == formatJSON {
		return writeJSON(writer, output)
	}

	_, _ = fmt.Fprintf(writer, "ID: %s\n", output.ID)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", output.Name)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", output.Email)
	_, _ = fmt.Fprintf(writer, "Team: %s\n", output.Team)
	_, _ = fmt.Fprintf(writer, "Active: %t\n", output.Active)
	_, _ = fmt.Fprintf(writer, "Created: %s\n", output.CreatedAt)
	return nil
}
