// Package repository implements worker persistence with encrypted personal data.
//
// One squirrel-based implementation serves SQLite, PostgreSQL and MySQL; the dialects
// only differ in placeholder format. All methods join the caller's transaction via
// database.GetTx().
package repository

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	cryptoUseCase "github.com/allisson/capacity-planner/internal/crypto/usecase"
	"github.com/allisson/capacity-planner/internal/database"
	apperrors "github.com/allisson/capacity-planner/internal/errors"
	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
)

const workersTable = "workers"

var workerColumns = []string{"id", "name", "email", "team", "active", "created_at"}

// SQLWorkerRepository persists workers. Name and email are encrypted with the
// FieldCipher before every write and decrypted on every read.
type SQLWorkerRepository struct {
	db          *sql.DB
	builder     sq.StatementBuilderType
	fieldCipher cryptoUseCase.FieldCipher
}

// NewSQLiteWorkerRepository creates a worker repository for SQLite.
func NewSQLiteWorkerRepository(db *sql.DB, fieldCipher cryptoUseCase.FieldCipher) *SQLWorkerRepository {
	return newSQLWorkerRepository(db, sq.Question, fieldCipher)
}

// NewPostgreSQLWorkerRepository creates a worker repository for PostgreSQL.
func NewPostgreSQLWorkerRepository(db *sql.DB, fieldCipher cryptoUseCase.FieldCipher) *SQLWorkerRepository {
	return newSQLWorkerRepository(db, sq.Dollar, fieldCipher)
}

// NewMySQLWorkerRepository creates a worker repository for MySQL.
func NewMySQLWorkerRepository(db *sql.DB, fieldCipher cryptoUseCase.FieldCipher) *SQLWorkerRepository {
	return newSQLWorkerRepository(db, sq.Question, fieldCipher)
}

func newSQLWorkerRepository(
	db *sql.DB,
	placeholder sq.PlaceholderFormat,
	fieldCipher cryptoUseCase.FieldCipher,
) *SQLWorkerRepository {
	return &SQLWorkerRepository{
		db:          db,
		builder:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		fieldCipher: fieldCipher,
	}
}

// Create encrypts name and email and inserts the worker.
func (r *SQLWorkerRepository) Create(ctx context.Context, worker *workerDomain.Worker) error {
	encryptedName, encryptedEmail, err := r.encryptPersonalData(ctx, worker)
	if err != nil {
		return err
	}

	query, args, err := r.builder.
		Insert(workersTable).
		Columns(workerColumns...).
		Values(worker.ID.String(), encryptedName, encryptedEmail, worker.Team, worker.Active, worker.CreatedAt).
		ToSql()
	if err != nil {
		return apperrors.Wrap(err, "failed to build insert worker query")
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, query, args...); err != nil {
		return apperrors.Wrap(err, "failed to create worker")
	}
	return nil
}

// GetByID retrieves and decrypts a worker.
func (r *SQLWorkerRepository) GetByID(ctx context.Context, id uuid.UUID) (*workerDomain.Worker, error) {
	query, args, err := r.builder.
		Select(workerColumns...).
		From(workersTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build get worker query")
	}

	querier := database.GetTx(ctx, r.db)
	worker, err := r.scanWorker(ctx, querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workerDomain.ErrWorkerNotFound
		}
		return nil, err
	}
	return worker, nil
}

// List returns all workers, or only active ones, sorted by decrypted name. Sorting happens
// in memory because the stored name column holds ciphertext.
func (r *SQLWorkerRepository) List(ctx context.Context, activeOnly bool) ([]*workerDomain.Worker, error) {
	builder := r.builder.Select(workerColumns...).From(workersTable)
	if activeOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build list workers query")
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list workers")
	}
	defer func() {
		_ = rows.Close()
	}()

	workers := make([]*workerDomain.Worker, 0)
	for rows.Next() {
		worker, err := r.scanWorker(ctx, rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate workers")
	}

	slices.SortStableFunc(workers, func(a, b *workerDomain.Worker) int {
		return strings.Compare(a.Name, b.Name)
	})
	return workers, nil
}

// FindByEmail returns the worker whose decrypted email equals email, compared after
// trimming and lower-casing. Every stored email is decrypted, so the cost grows with the
// number of workers.
func (r *SQLWorkerRepository) FindByEmail(ctx context.Context, email string) (*workerDomain.Worker, error) {
	needle := normalizeEmail(email)

	query, args, err := r.builder.Select("id", "email").From(workersTable).ToSql()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build find worker query")
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find worker by email")
	}
	defer func() {
		_ = rows.Close()
	}()

	var (
		matchID uuid.UUID
		found   bool
	)
	for rows.Next() {
		var (
			id             uuid.UUID
			encryptedEmail string
		)
		if err := rows.Scan(&id, &encryptedEmail); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan worker email")
		}

		plainEmail, err := r.fieldCipher.Decrypt(ctx, encryptedEmail)
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to decrypt email of worker %s", id)
		}
		if normalizeEmail(plainEmail) == needle {
			matchID, found = id, true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate workers")
	}
	if !found {
		return nil, workerDomain.ErrWorkerNotFound
	}

	// Release the connection before the follow-up query.
	_ = rows.Close()
	return r.GetByID(ctx, matchID)
}

// Update re-encrypts name and email and replaces the stored row. CreatedAt is not changed.
func (r *SQLWorkerRepository) Update(ctx context.Context, worker *workerDomain.Worker) error {
	encryptedName, encryptedEmail, err := r.encryptPersonalData(ctx, worker)
	if err != nil {
		return err
	}

	query, args, err := r.builder.
		Update(workersTable).
		Set("name", encryptedName).
		Set("email", encryptedEmail).
		Set("team", worker.Team).
		Set("active", worker.Active).
		Where(sq.Eq{"id": worker.ID.String()}).
		ToSql()
	if err != nil {
		return apperrors.Wrap(err, "failed to build update worker query")
	}

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update worker")
	}
	return requireAffected(result)
}

// Delete removes a worker.
func (r *SQLWorkerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.builder.Delete(workersTable).Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return apperrors.Wrap(err, "failed to build delete worker query")
	}

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete worker")
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanWorker scans one row and decrypts its personal data. A decryption failure is
// returned as is so that tampering is never hidden behind an empty value.
func (r *SQLWorkerRepository) scanWorker(ctx context.Context, row rowScanner) (*workerDomain.Worker, error) {
	var (
		worker                        workerDomain.Worker
		encryptedName, encryptedEmail string
	)
	err := row.Scan(
		&worker.ID,
		&encryptedName,
		&encryptedEmail,
		&worker.Team,
		&worker.Active,
		&worker.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan worker")
	}

	if worker.Name, err = r.fieldCipher.Decrypt(ctx, encryptedName); err != nil {
		return nil, apperrors.Wrapf(err, "failed to decrypt name of worker %s", worker.ID)
	}
	if worker.Email, err = r.fieldCipher.Decrypt(ctx, encryptedEmail); err != nil {
		return nil, apperrors.Wrapf(err, "failed to decrypt email of worker %s", worker.ID)
	}
	return &worker, nil
}

func (r *SQLWorkerRepository) encryptPersonalData(
	ctx context.Context,
	worker *workerDomain.Worker,
) (encryptedName, encryptedEmail string, err error) {
	if encryptedName, err = r.fieldCipher.Encrypt(ctx, worker.Name); err != nil {
		return "", "", apperrors.Wrap(err, "failed to encrypt worker name")
	}
	if encryptedEmail, err = r.fieldCipher.Encrypt(ctx, worker.Email); err != nil {
		return "", "", apperrors.Wrap(err, "failed to encrypt worker email")
	}
	return encryptedName, encryptedEmail, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return workerDomain.ErrWorkerNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
