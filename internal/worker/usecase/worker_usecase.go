package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/capacity-planner/internal/database"
	apperrors "github.com/allisson/capacity-planner/internal/errors"
	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
	appValidation "github.com/allisson/capacity-planner/internal/validation"
)

// CreateWorkerInput contains the input data for creating a worker.
type CreateWorkerInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Team   string `json:"team"`
	Active bool   `json:"active"`
}

// UpdateWorkerInput contains the fields to change on a worker. Nil fields keep their
// current value.
type UpdateWorkerInput struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Team   *string `json:"team,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type workerUseCase struct {
	txManager  database.TxManager
	workerRepo WorkerRepository
}

// NewWorkerUseCase creates a new WorkerUseCase.
func NewWorkerUseCase(txManager database.TxManager, workerRepo WorkerRepository) WorkerUseCase {
	return &workerUseCase{
		txManager:  txManager,
		workerRepo: workerRepo,
	}
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("name is required"),
		appValidation.NotBlank,
		appValidation.Printable,
		validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("email is required"),
		appValidation.NotBlank,
		appValidation.Email,
		validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
	}
}

func teamRules() []validation.Rule {
	return []validation.Rule{
		appValidation.Printable,
		validation.Length(0, 255).Error("team must be at most 255 characters"),
	}
}

func validateCreateWorkerInput(input CreateWorkerInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name, nameRules()...),
		validation.Field(&input.Email, emailRules()...),
		validation.Field(&input.Team, teamRules()...),
	)
	return appValidation.WrapValidationError(err)
}

// validateUpdateWorkerInput validates only the fields being changed. A present field must
// satisfy the same rules as on create.
func validateUpdateWorkerInput(input UpdateWorkerInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.When(input.Name != nil, nameRules()...)),
		validation.Field(&input.Email, validation.When(input.Email != nil, emailRules()...)),
		validation.Field(&input.Team, validation.When(input.Team != nil, teamRules()...)),
	)
	return appValidation.WrapValidationError(err)
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create validates the input and stores a new worker. The duplicate email check and the
// insert share one transaction.
func (uc *workerUseCase) Create(ctx context.Context, input CreateWorkerInput) (*workerDomain.Worker, error) {
	input.Name = normalizeName(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.Team = strings.TrimSpace(input.Team)
	if err := validateCreateWorkerInput(input); err != nil {
		return nil, err
	}

	worker := &workerDomain.Worker{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Email:     input.Email,
		Team:      input.Team,
		Active:    input.Active,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.ensureEmailAvailable(ctx, worker.Email, uuid.Nil); err != nil {
			return err
		}
		return uc.workerRepo.Create(ctx, worker)
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

// Get retrieves a worker by ID.
func (uc *workerUseCase) Get(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error) {
	return uc.workerRepo.GetByID(ctx, id)
}

// List retrieves workers sorted by name.
func (uc *workerUseCase) List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error) {
	return uc.workerRepo.List(ctx, activeOnly)
}

// FindByEmail retrieves a worker by email address, ignoring case and surrounding whitespace.
func (uc *workerUseCase) FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error) {
	email = normalizeEmail(email)
	if err := appValidation.WrapValidationError(
		validation.Validate(email, emailRules()...),
	); err != nil {
		return nil, err
	}
	return uc.workerRepo.FindByEmail(ctx, email)
}

// Update applies the non-nil fields of input to a worker and stores it re-encrypted.
func (uc *workerUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateWorkerInput,
) (*workerDomain.Worker, error) {
	if input.Name != nil {
		name := normalizeName(*input.Name)
		input.Name = &name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}
	if input.Team != nil {
		team := strings.TrimSpace(*input.Team)
		input.Team = &team
	}
	if err := validateUpdateWorkerInput(input); err != nil {
		return nil, err
	}

	var updated *workerDomain.Worker
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		worker, err := uc.workerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Email != nil && *input.Email != worker.Email {
			if err := uc.ensureEmailAvailable(ctx, *input.Email, worker.ID); err != nil {
				return err
			}
			worker.Email = *input.Email
		}
		if input.Name != nil {
			worker.Name = *input.Name
		}
		if input.Team != nil {
			worker.Team = *input.Team
		}
		if input.Active != nil {
			worker.Active = *input.Active
		}

		if err := uc.workerRepo.Update(ctx, worker); err != nil {
			return err
		}
		updated = worker
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a worker.
func (uc *workerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.workerRepo.Delete(ctx, id)
}

// ensureEmailAvailable returns ErrWorkerAlreadyExists when another worker than owner
// already uses email.
func (uc *workerUseCase) ensureEmailAvailable(ctx context.Context, email string, owner uuid.UUID) error {
	existing, err := uc.workerRepo.FindByEmail(ctx, email)
	switch {
	case apperrors.Is(err, workerDomain.ErrWorkerNotFound):
		return nil
	case err != nil:
		return apperrors.Wrap(err, "failed to check email uniqueness")
	case existing.ID == owner:
		return nil
	default:
		return workerDomain.ErrWorkerAlreadyExists
	}
}
