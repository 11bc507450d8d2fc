// Package usecase implements worker management on top of the encrypted worker repository.
package usecase

import (
	"context"

	"github.com/google/uuid"

	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
)

// WorkerRepository defines the interface for worker persistence operations.
type WorkerRepository interface {
	Create(ctx context.Context, worker *workerDomain.Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error)
	List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error)
	FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error)
	Update(ctx context.Context, worker *workerDomain.Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkerUseCase defines the interface for worker business logic.
type WorkerUseCase interface {
	Create(ctx context.Context, input CreateWorkerInput) (*workerDomain.Worker, error)
	Get(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error)
	// List returns workers sorted by name. With activeOnly set, inactive workers are skipped.
	List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error)
	FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateWorkerInput) (*workerDomain.Worker, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
