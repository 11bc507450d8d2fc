package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/capacity-planner/internal/metrics"
	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
)

// workerUseCaseWithMetrics decorates WorkerUseCase with metrics instrumentation.
type workerUseCaseWithMetrics struct {
	next    WorkerUseCase
	metrics metrics.BusinessMetrics
}

// NewWorkerUseCaseWithMetrics wraps a WorkerUseCase with metrics recording.
func NewWorkerUseCaseWithMetrics(useCase WorkerUseCase, m metrics.BusinessMetrics) WorkerUseCase {
	return &workerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for worker creation operations.
func (w *workerUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateWorkerInput,
) (*workerDomain.Worker, error) {
	start := time.Now()
	worker, err := w.next.Create(ctx, input)
	w.record(ctx, "worker_create", start, err)
	return worker, err
}

// Get records metrics for worker retrieval operations.
func (w *workerUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error) {
	start := time.Now()
	worker, err := w.next.Get(ctx, id)
	w.record(ctx, "worker_get", start, err)
	return worker, err
}

// List records metrics for worker listing operations.
func (w *workerUseCaseWithMetrics) List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error) {
	start := time.Now()
	workers, err := w.next.List(ctx, activeOnly)
	w.record(ctx, "worker_list", start, err)
	return workers, err
}

// FindByEmail records metrics for email lookups.
func (w *workerUseCaseWithMetrics) FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error) {
	start := time.Now()
	worker, err := w.next.FindByEmail(ctx, email)
	w.record(ctx, "worker_find_by_email", start, err)
	return worker, err
}

// Update records metrics for worker update operations.
func (w *workerUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateWorkerInput,
) (*workerDomain.Worker, error) {
	start := time.Now()
	worker, err := w.next.Update(ctx, id, input)
	w.record(ctx, "worker_update", start, err)
	return worker, err
}

// Delete records metrics for worker deletion operations.
func (w *workerUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := w.next.Delete(ctx, id)
	w.record(ctx, "worker_delete", start, err)
	return err
}

func (w *workerUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, w.metrics, "workers", operation, start, err)
}
