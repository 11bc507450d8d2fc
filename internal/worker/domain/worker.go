// Package domain defines the worker entity whose personal data is stored encrypted.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/capacity-planner/internal/errors"
)

// Worker is a knowledge worker profile.
//
// Name and Email are personal data and only ever reach storage as envelope blobs.
// Team, Active and CreatedAt are stored in clear so they can be filtered on.
type Worker struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Team      string
	Active    bool
	CreatedAt time.Time
}

// String describes the worker without the email address.
func (w *Worker) String() string {
	status := "active"
	if !w.Active {
		status = "inactive"
	}
	return fmt.Sprintf("Worker(%s, %s, %s)", w.Name, w.Team, status)
}

// Domain-specific errors for worker operations.
var (
	// ErrWorkerNotFound indicates the requested worker does not exist.
	ErrWorkerNotFound = errors.Wrap(errors.ErrNotFound, "worker not found")

	// ErrWorkerAlreadyExists indicates a worker with the same email already exists.
	ErrWorkerAlreadyExists = errors.Wrap(errors.ErrConflict, "worker already exists")
)
