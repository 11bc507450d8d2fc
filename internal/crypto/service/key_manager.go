package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
)

// KeyManagerService implements KeyManager on top of a key directory on the local
// filesystem.
//
// Initialize either loads the stored key pair or generates a new RSA-2048 pair and
// persists it as private.pem (PKCS#1, mode 0600) and public.pem (SubjectPublicKeyInfo,
// mode 0644). When a KMS key URI is configured the private key is sealed by the KMS
// before it is written.
type KeyManagerService struct {
	kmsService KMSService
	kmsKeyURI  string
	logger     *slog.Logger
}

// NewKeyManager creates a KeyManagerService. kmsKeyURI may be empty to store the private
// key as plain PEM. A nil logger discards log output.
func NewKeyManager(kmsService KMSService, kmsKeyURI string, logger *slog.Logger) *KeyManagerService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &KeyManagerService{
		kmsService: kmsService,
		kmsKeyURI:  kmsKeyURI,
		logger:     logger,
	}
}

// Initialize guarantees a usable key pair in directory.
//
// Behavior:
//   - both files present and forceNew false: load and validate them
//   - no files present, or forceNew true: generate and persist a new pair
//   - exactly one file present: ErrPartialKeyPair, nothing is written
//
// A stored key that cannot be parsed is never replaced implicitly, since doing so would
// orphan every value encrypted under it.
func (km *KeyManagerService) Initialize(
	ctx context.Context,
	directory string,
	forceNew bool,
) (*cryptoDomain.KeyPair, error) {
	if directory == "" {
		return nil, fmt.Errorf("%w: key directory is empty", cryptoDomain.ErrKeyIO)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keeper, err := km.openKeeper(ctx)
	if err != nil {
		return nil, err
	}
	if keeper != nil {
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				km.logger.WarnContext(ctx, "failed to close kms keeper", slog.Any("error", closeErr))
			}
		}()
	}

	store := NewFileKeyStore(directory, keeper)
	if err := store.EnsureDir(); err != nil {
		return nil, err
	}

	state, err := store.state()
	if err != nil {
		return nil, err
	}

	switch {
	case forceNew || state == keyFilesAbsent:
		return km.generate(ctx, store, forceNew, keeper != nil)
	case state == keyFilesPartial:
		return nil, fmt.Errorf(
			"%w: found only one of %s and %s in %s",
			cryptoDomain.ErrPartialKeyPair,
			cryptoDomain.PrivateKeyFileName,
			cryptoDomain.PublicKeyFileName,
			directory,
		)
	default:
		return km.load(ctx, store, keeper != nil)
	}
}

func (km *KeyManagerService) openKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	if km.kmsKeyURI == "" || km.kmsService == nil {
		return nil, nil
	}
	keeper, err := km.kmsService.OpenKeeper(ctx, km.kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrKeyIO, err)
	}
	return keeper, nil
}

func (km *KeyManagerService) generate(
	ctx context.Context,
	store *FileKeyStore,
	replaced bool,
	sealed bool,
) (*cryptoDomain.KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, cryptoDomain.RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	if err := store.Save(ctx, key); err != nil {
		return nil, err
	}

	keyPair, err := cryptoDomain.NewKeyPair(key)
	if err != nil {
		return nil, err
	}

	km.logKeyPair(ctx, "generated key pair", store, keyPair,
		slog.Bool("replaced", replaced),
		slog.Bool("kms_sealed", sealed),
	)
	return keyPair, nil
}

func (km *KeyManagerService) load(
	ctx context.Context,
	store *FileKeyStore,
	sealed bool,
) (*cryptoDomain.KeyPair, error) {
	key, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	keyPair, err := cryptoDomain.NewKeyPair(key)
	if err != nil {
		return nil, err
	}

	km.logKeyPair(ctx, "loaded key pair", store, keyPair, slog.Bool("kms_configured", sealed))
	return keyPair, nil
}

func (km *KeyManagerService) logKeyPair(
	ctx context.Context,
	msg string,
	store *FileKeyStore,
	keyPair *cryptoDomain.KeyPair,
	attrs ...any,
) {
	fingerprint, err := PublicKeyFingerprint(keyPair.PublicKey())
	if err != nil {
		fingerprint = "unknown"
	}
	args := []any{
		slog.String("directory", store.dir),
		slog.String("fingerprint", fingerprint),
		slog.Int("bits", keyPair.Bits()),
	}
	km.logger.InfoContext(ctx, msg, append(args, attrs...)...)
}
