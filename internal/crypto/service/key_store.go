package service

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
)

const (
	privateKeyFileMode fs.FileMode = 0o600
	publicKeyFileMode  fs.FileMode = 0o644
	keyDirMode         fs.FileMode = 0o700
)

// keyFileState describes which key files are present in a key directory.
type keyFileState int

const (
	keyFilesAbsent keyFileState = iota
	keyFilesComplete
	keyFilesPartial
)

// FileKeyStore reads and writes the PEM key files of one key directory.
//
// When keeper is set, the private key is written sealed by the KMS and plain private
// keys found on disk are still accepted.
type FileKeyStore struct {
	dir    string
	keeper cryptoDomain.KMSKeeper
}

// NewFileKeyStore creates a FileKeyStore for dir. keeper may be nil.
func NewFileKeyStore(dir string, keeper cryptoDomain.KMSKeeper) *FileKeyStore {
	return &FileKeyStore{dir: dir, keeper: keeper}
}

// PrivateKeyPath returns the path of private.pem.
func (s *FileKeyStore) PrivateKeyPath() string {
	return filepath.Join(s.dir, cryptoDomain.PrivateKeyFileName)
}

// PublicKeyPath returns the path of public.pem.
func (s *FileKeyStore) PublicKeyPath() string {
	return filepath.Join(s.dir, cryptoDomain.PublicKeyFileName)
}

// EnsureDir creates the key directory and its parents with owner-only permissions.
func (s *FileKeyStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, keyDirMode); err != nil {
		return fmt.Errorf("%w: create key directory: %w", cryptoDomain.ErrKeyIO, err)
	}
	return nil
}

func (s *FileKeyStore) state() (keyFileState, error) {
	privateExists, err := fileExists(s.PrivateKeyPath())
	if err != nil {
		return keyFilesAbsent, err
	}
	publicExists, err := fileExists(s.PublicKeyPath())
	if err != nil {
		return keyFilesAbsent, err
	}

	switch {
	case privateExists && publicExists:
		return keyFilesComplete, nil
	case privateExists || publicExists:
		return keyFilesPartial, nil
	default:
		return keyFilesAbsent, nil
	}
}

// Load reads both key files, checks that they belong together and validates the key.
func (s *FileKeyStore) Load(ctx context.Context) (*rsa.PrivateKey, error) {
	privatePEM, err := os.ReadFile(s.PrivateKeyPath())
	if err != nil {
		return nil, fmt.Errorf("%w: read private key: %w", cryptoDomain.ErrKeyIO, err)
	}
	publicPEM, err := os.ReadFile(s.PublicKeyPath())
	if err != nil {
		return nil, fmt.Errorf("%w: read public key: %w", cryptoDomain.ErrKeyIO, err)
	}

	privateKey, err := s.decodePrivateKey(ctx, privatePEM)
	if err != nil {
		return nil, err
	}
	publicKey, err := decodePublicKey(publicPEM)
	if err != nil {
		return nil, err
	}

	if err := privateKey.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyParse, err)
	}
	if bits := privateKey.N.BitLen(); bits < cryptoDomain.MinRSAKeyBits {
		return nil, fmt.Errorf(
			"%w: key is %d bits, need at least %d",
			cryptoDomain.ErrKeyParse,
			bits,
			cryptoDomain.MinRSAKeyBits,
		)
	}
	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, cryptoDomain.ErrKeyMismatch
	}

	return privateKey, nil
}

// Save writes both key files, replacing any existing ones. Each file is written to a
// temporary file in the same directory and renamed into place.
func (s *FileKeyStore) Save(ctx context.Context, key *rsa.PrivateKey) error {
	privatePEM, err := s.encodePrivateKey(ctx, key)
	if err != nil {
		return err
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: marshal public key: %v", cryptoDomain.ErrKeyParse, err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: cryptoDomain.PEMTypePublicKey, Bytes: publicDER})

	if err := writeFileAtomic(s.PrivateKeyPath(), privatePEM, privateKeyFileMode); err != nil {
		return err
	}
	return writeFileAtomic(s.PublicKeyPath(), publicPEM, publicKeyFileMode)
}

func (s *FileKeyStore) encodePrivateKey(ctx context.Context, key *rsa.PrivateKey) ([]byte, error) {
	der := x509.MarshalPKCS1PrivateKey(key)
	defer cryptoDomain.Zero(der)

	if s.keeper == nil {
		return pem.EncodeToMemory(&pem.Block{Type: cryptoDomain.PEMTypeRSAPrivateKey, Bytes: der}), nil
	}

	sealed, err := s.keeper.Encrypt(ctx, der)
	if err != nil {
		return nil, fmt.Errorf("%w: seal private key: %w", cryptoDomain.ErrKeyIO, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: cryptoDomain.PEMTypeSealedPrivateKey, Bytes: sealed}), nil
}

func (s *FileKeyStore) decodePrivateKey(ctx context.Context, data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: private key file is not PEM", cryptoDomain.ErrKeyParse)
	}

	switch block.Type {
	case cryptoDomain.PEMTypeRSAPrivateKey:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyParse, err)
		}
		return key, nil
	case cryptoDomain.PEMTypePKCS8PrivateKey:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyParse, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key is %T, not RSA", cryptoDomain.ErrKeyParse, parsed)
		}
		return key, nil
	case cryptoDomain.PEMTypeSealedPrivateKey:
		if s.keeper == nil {
			return nil, fmt.Errorf(
				"%w: private key is sealed by a KMS but no KMS key URI is configured",
				cryptoDomain.ErrKeyParse,
			)
		}
		der, err := s.keeper.Decrypt(ctx, block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: open sealed private key: %v", cryptoDomain.ErrKeyParse, err)
		}
		defer cryptoDomain.Zero(der)
		key, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyParse, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q in private key file", cryptoDomain.ErrKeyParse, block.Type)
	}
}

func decodePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: public key file is not PEM", cryptoDomain.ErrKeyParse)
	}

	switch block.Type {
	case cryptoDomain.PEMTypePublicKey:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyParse, err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: public key is %T, not RSA", cryptoDomain.ErrKeyParse, parsed)
		}
		return key, nil
	case cryptoDomain.PEMTypeRSAPublicKey:
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyParse, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q in public key file", cryptoDomain.ErrKeyParse, block.Type)
	}
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", cryptoDomain.ErrKeyIO, path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", cryptoDomain.ErrKeyIO, path)
	}
	return true, nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", cryptoDomain.ErrKeyIO, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: chmod %s: %w", cryptoDomain.ErrKeyIO, tmp.Name(), err)
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", cryptoDomain.ErrKeyIO, tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync %s: %w", cryptoDomain.ErrKeyIO, tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", cryptoDomain.ErrKeyIO, tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", cryptoDomain.ErrKeyIO, path, err)
	}
	return nil
}
