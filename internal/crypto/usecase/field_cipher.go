package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
	cryptoService "github.com/allisson/capacity-planner/internal/crypto/service"
)

type fieldCipherUseCase struct {
	cipher  cryptoService.EnvelopeCipher
	keyPair *cryptoDomain.KeyPair
}

// Encrypt seals plaintext with the bound key pair.
func (f *fieldCipherUseCase) Encrypt(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.cipher.Encrypt(plaintext, f.keyPair)
}

// Decrypt opens blob with the bound key pair.
func (f *fieldCipherUseCase) Decrypt(ctx context.Context, blob string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.cipher.Decrypt(blob, f.keyPair)
}

// NewFieldCipher creates a FieldCipher bound to keyPair. A nil keyPair is accepted and
// makes every call fail with ErrNotInitialized.
func NewFieldCipher(cipher cryptoService.EnvelopeCipher, keyPair *cryptoDomain.KeyPair) FieldCipher {
	return &fieldCipherUseCase{
		cipher:  cipher,
		keyPair: keyPair,
	}
}
