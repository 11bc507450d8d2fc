package app

import (
	"context"
	"fmt"

	"github.com/allisson/capacity-planner/internal/database"
	workerRepository "github.com/allisson/capacity-planner/internal/worker/repository"
	workerUseCase "github.com/allisson/capacity-planner/internal/worker/usecase"
)

// WorkerRepository returns the worker repository for the configured database driver.
func (c *Container) WorkerRepository(ctx context.Context) (workerUseCase.WorkerRepository, error) {
	var err error
	c.workerRepoInit.Do(func() {
		c.workerRepo, err = c.initWorkerRepository(ctx)
		if err != nil {
			c.setInitError("workerRepo", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("workerRepo"); storedErr != nil {
		return nil, storedErr
	}
	return c.workerRepo, nil
}

// WorkerUseCase returns the worker use case.
func (c *Container) WorkerUseCase(ctx context.Context) (workerUseCase.WorkerUseCase, error) {
	var err error
	c.workerUseCaseInit.Do(func() {
		c.workerUseCase, err = c.initWorkerUseCase(ctx)
		if err != nil {
			c.setInitError("workerUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("workerUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.workerUseCase, nil
}

// initWorkerRepository creates the worker repository instance.
func (c *Container) initWorkerRepository(ctx context.Context) (workerUseCase.WorkerRepository, error) {
	// Unknown drivers are rejected before the key pair is initialized.
	switch c.config.DBDriver {
	case database.DriverSQLite, database.DriverPostgreSQL, database.DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for worker repository: %w", err)
	}

	fieldCipher, err := c.FieldCipher(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for worker repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgreSQL:
		return workerRepository.NewPostgreSQLWorkerRepository(db, fieldCipher), nil
	case database.DriverMySQL:
		return workerRepository.NewMySQLWorkerRepository(db, fieldCipher), nil
	default:
		return workerRepository.NewSQLiteWorkerRepository(db, fieldCipher), nil
	}
}

// initWorkerUseCase creates the worker use case with all its dependencies.
func (c *Container) initWorkerUseCase(ctx context.Context) (workerUseCase.WorkerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for worker use case: %w", err)
	}

	workerRepo, err := c.WorkerRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker repository for worker use case: %w", err)
	}

	baseUseCase := workerUseCase.NewWorkerUseCase(txManager, workerRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for worker use case: %w", err)
		}
		return workerUseCase.NewWorkerUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
