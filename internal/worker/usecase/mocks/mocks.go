// Package mocks provides mock implementations of the worker use case interfaces for testing.
package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
	workerUseCase "github.com/allisson/capacity-planner/internal/worker/usecase"
)

// MockWorkerRepository is a mock implementation of WorkerRepository for testing.
type MockWorkerRepository struct {
	mock.Mock
}

// NewMockWorkerRepository creates a MockWorkerRepository whose expectations are asserted
// when the test ends.
func NewMockWorkerRepository(t *testing.T) *MockWorkerRepository {
	m := &MockWorkerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWorkerRepository) Create(ctx context.Context, worker *workerDomain.Worker) error {
	return m.Called(ctx, worker).Error(0)
}

func (m *MockWorkerRepository) GetByID(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error) {
	args := m.Called(ctx, id)
	return workerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerRepository) List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error) {
	args := m.Called(ctx, activeOnly)
	return workersOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerRepository) FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error) {
	args := m.Called(ctx, email)
	return workerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerRepository) Update(ctx context.Context, worker *workerDomain.Worker) error {
	return m.Called(ctx, worker).Error(0)
}

func (m *MockWorkerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockWorkerUseCase is a mock implementation of WorkerUseCase for testing.
type MockWorkerUseCase struct {
	mock.Mock
}

// NewMockWorkerUseCase creates a MockWorkerUseCase whose expectations are asserted when
// the test ends.
func NewMockWorkerUseCase(t *testing.T) *MockWorkerUseCase {
	m := &MockWorkerUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWorkerUseCase) Create(
	ctx context.Context,
	input workerUseCase.CreateWorkerInput,
) (*workerDomain.Worker, error) {
	args := m.Called(ctx, input)
	return workerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerUseCase) Get(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error) {
	args := m.Called(ctx, id)
	return workerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerUseCase) List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error) {
	args := m.Called(ctx, activeOnly)
	return workersOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerUseCase) FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error) {
	args := m.Called(ctx, email)
	return workerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input workerUseCase.UpdateWorkerInput,
) (*workerDomain.Worker, error) {
	args := m.Called(ctx, id, input)
	return workerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWorkerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func workerOrNil(v any) *workerDomain.Worker {
	if v == nil {
		return nil
	}
	return v.(*workerDomain.Worker)
}

func workersOrNil(v any) []*workerDomain.Worker {
	if v == nil {
		return nil
	}
	return v.([]*workerDomain.Worker)
}
