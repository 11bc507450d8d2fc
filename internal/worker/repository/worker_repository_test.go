package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
	cryptoService "github.com/allisson/capacity-planner/internal/crypto/service"
	cryptoUseCase "github.com/allisson/capacity-planner/internal/crypto/usecase"
	"github.com/allisson/capacity-planner/internal/database"
	"github.com/allisson/capacity-planner/internal/testutil"
	workerDomain "github.com/allisson/capacity-planner/internal/worker/domain"
)

func newSQLiteRepo(t *testing.T) (*SQLWorkerRepository, *sql.DB) {
	t.Helper()
	db := testutil.SetupSQLiteDB(t)
	fieldCipher := cryptoUseCase.NewFieldCipher(cryptoService.NewEnvelopeCipher(), testutil.SharedKeyPair(t))
	return NewSQLiteWorkerRepository(db, fieldCipher), db
}

func newTestWorker(name, email, team string, active bool) *workerDomain.Worker {
	return &workerDomain.Worker{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		Email:     email,
		Team:      team,
		Active:    active,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestNewWorkerRepositories(t *testing.T) {
	fieldCipher := cryptoUseCase.NewFieldCipher(cryptoService.NewEnvelopeCipher(), nil)

	for name, repo := range map[string]*SQLWorkerRepository{
		"sqlite":     NewSQLiteWorkerRepository(nil, fieldCipher),
		"postgresql": NewPostgreSQLWorkerRepository(nil, fieldCipher),
		"mysql":      NewMySQLWorkerRepository(nil, fieldCipher),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, repo)
			assert.IsType(t, &SQLWorkerRepository{}, repo)
		})
	}
}

func TestSQLiteWorkerRepository_CreateAndGet(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	ctx := context.Background()
	worker := newTestWorker("Max Mustermann", "max.mustermann@example.com", "Platform", true)

	require.NoError(t, repo.Create(ctx, worker))

	retrieved, err := repo.GetByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, retrieved.ID)
	assert.Equal(t, "Max Mustermann", retrieved.Name)
	assert.Equal(t, "max.mustermann@example.com", retrieved.Email)
	assert.Equal(t, "Platform", retrieved.Team)
	assert.True(t, retrieved.Active)
	assert.WithinDuration(t, worker.CreatedAt, retrieved.CreatedAt, time.Second)

	t.Run("personal data is encrypted at rest", func(t *testing.T) {
		var storedName, storedEmail, storedTeam string
		err := db.QueryRow("SELECT name, email, team FROM workers WHERE id = ?", worker.ID.String()).
			Scan(&storedName, &storedEmail, &storedTeam)
		require.NoError(t, err)

		assert.NotContains(t, storedName, "Max")
		assert.NotContains(t, storedEmail, "example.com")
		assert.Equal(t, "Platform", storedTeam)

		_, err = cryptoDomain.ParseEnvelopeBlob(storedEmail, testutil.SharedKeyPair(t).EncryptedKeySize())
		assert.NoError(t, err)
	})
}

func TestSQLiteWorkerRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	worker, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV7()))
	assert.Nil(t, worker)
	assert.ErrorIs(t, err, workerDomain.ErrWorkerNotFound)
}

func TestSQLiteWorkerRepository_List(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	for _, w := range []*workerDomain.Worker{
		newTestWorker("Zoe Zimmer", "zoe@example.com", "Data", true),
		newTestWorker("Anna Arendt", "anna@example.com", "Platform", false),
		newTestWorker("Max Mustermann", "max@example.com", "Platform", true),
	} {
		require.NoError(t, repo.Create(ctx, w))
	}

	t.Run("all workers sorted by name", func(t *testing.T) {
		workers, err := repo.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, workers, 3)
		assert.Equal(t, "Anna Arendt", workers[0].Name)
		assert.Equal(t, "Max Mustermann", workers[1].Name)
		assert.Equal(t, "Zoe Zimmer", workers[2].Name)
	})

	t.Run("active only", func(t *testing.T) {
		workers, err := repo.List(ctx, true)
		require.NoError(t, err)
		require.Len(t, workers, 2)
		assert.Equal(t, "Max Mustermann", workers[0].Name)
		assert.Equal(t, "Zoe Zimmer", workers[1].Name)
	})
}

func TestSQLiteWorkerRepository_List_Empty(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	workers, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, workers)
	assert.Empty(t, workers)
}

func TestSQLiteWorkerRepository_FindByEmail(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	maxWorker := newTestWorker("Max Mustermann", "max.mustermann@example.com", "Platform", true)
	erika := newTestWorker("Erika Musterfrau", "erika@example.com", "Data", true)
	require.NoError(t, repo.Create(ctx, maxWorker))
	require.NoError(t, repo.Create(ctx, erika))

	t.Run("exact match", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "erika@example.com")
		require.NoError(t, err)
		assert.Equal(t, erika.ID, found.ID)
		assert.Equal(t, "Erika Musterfrau", found.Name)
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  Max.Mustermann@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, maxWorker.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, workerDomain.ErrWorkerNotFound)
	})

	t.Run("inside transaction", func(t *testing.T) {
		txManager := database.NewTxManager(repo.db)
		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			found, err := repo.FindByEmail(ctx, "erika@example.com")
			if err != nil {
				return err
			}
			assert.Equal(t, erika.ID, found.ID)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestSQLiteWorkerRepository_Update(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	ctx := context.Background()
	worker := newTestWorker("Max Mustermann", "max@example.com", "Platform", true)
	require.NoError(t, repo.Create(ctx, worker))

	var before string
	require.NoError(t, db.QueryRow("SELECT name FROM workers WHERE id = ?", worker.ID.String()).Scan(&before))

	worker.Name = "Max Müller"
	worker.Email = "max.mueller@example.com"
	worker.Team = "Data"
	worker.Active = false
	require.NoError(t, repo.Update(ctx, worker))

	retrieved, err := repo.GetByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, "Max Müller", retrieved.Name)
	assert.Equal(t, "max.mueller@example.com", retrieved.Email)
	assert.Equal(t, "Data", retrieved.Team)
	assert.False(t, retrieved.Active)

	var after string
	require.NoError(t, db.QueryRow("SELECT name FROM workers WHERE id = ?", worker.ID.String()).Scan(&after))
	assert.NotEqual(t, before, after)

	t.Run("missing worker", func(t *testing.T) {
		err := repo.Update(ctx, newTestWorker("Ghost", "ghost@example.com", "None", true))
		assert.ErrorIs(t, err, workerDomain.ErrWorkerNotFound)
	})
}

func TestSQLiteWorkerRepository_Delete(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()
	worker := newTestWorker("Max Mustermann", "max@example.com", "Platform", true)
	require.NoError(t, repo.Create(ctx, worker))

	require.NoError(t, repo.Delete(ctx, worker.ID))

	_, err := repo.GetByID(ctx, worker.ID)
	assert.ErrorIs(t, err, workerDomain.ErrWorkerNotFound)

	err = repo.Delete(ctx, worker.ID)
	assert.ErrorIs(t, err, workerDomain.ErrWorkerNotFound)
}

func TestSQLiteWorkerRepository_TamperedRow(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	ctx := context.Background()
	worker := newTestWorker("Max Mustermann", "max@example.com", "Platform", true)
	require.NoError(t, repo.Create(ctx, worker))

	// Swap in a blob produced under another key pair.
	other := cryptoUseCase.NewFieldCipher(cryptoService.NewEnvelopeCipher(), testutil.NewKeyPair(t))
	foreign, err := other.Encrypt(ctx, "Mallory")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE workers SET name = ? WHERE id = ?", foreign, worker.ID.String())
	require.NoError(t, err)

	retrieved, err := repo.GetByID(ctx, worker.ID)
	assert.Nil(t, retrieved)
	assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	assert.Contains(t, err.Error(), "failed to decrypt name")

	_, err = repo.List(ctx, false)
	assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
}

func TestSQLiteWorkerRepository_KeyPairSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	keyDir := t.TempDir()
	db := testutil.SetupSQLiteDB(t)

	keyPair, err := cryptoService.NewKeyManager(nil, "", nil).Initialize(ctx, keyDir, false)
	require.NoError(t, err)
	repo := NewSQLiteWorkerRepository(db, cryptoUseCase.NewFieldCipher(cryptoService.NewEnvelopeCipher(), keyPair))
	worker := newTestWorker("Max Mustermann", "max.mustermann@example.com", "Platform", true)
	require.NoError(t, repo.Create(ctx, worker))
	keyPair.Close()

	reloaded, err := cryptoService.NewKeyManager(nil, "", nil).Initialize(ctx, keyDir, false)
	require.NoError(t, err)
	repo = NewSQLiteWorkerRepository(db, cryptoUseCase.NewFieldCipher(cryptoService.NewEnvelopeCipher(), reloaded))

	retrieved, err := repo.FindByEmail(ctx, "max.mustermann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Max Mustermann", retrieved.Name)
}
