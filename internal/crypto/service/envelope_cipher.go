package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // OAEP label hash, kept for compatibility with stored blobs
	"fmt"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
)

// EnvelopeCipherService implements EnvelopeCipher.
//
// Encrypt draws a fresh 32-byte data key per call, seals the plaintext with AES-256-GCM
// under a 16-byte nonce and wraps the data key with RSA-OAEP (SHA-1, MGF1-SHA-1, empty
// label). The data key never leaves the call and is zeroed before return.
//
// The service holds no state and is safe for concurrent use.
type EnvelopeCipherService struct{}

// NewEnvelopeCipher creates an EnvelopeCipherService.
func NewEnvelopeCipher() *EnvelopeCipherService {
	return &EnvelopeCipherService{}
}

// Encrypt returns the base64 envelope blob for plaintext. The empty string is a valid
// plaintext and produces a blob with an empty ciphertext section.
func (e *EnvelopeCipherService) Encrypt(plaintext string, keyPair *cryptoDomain.KeyPair) (string, error) {
	if !keyPair.Usable() {
		return "", cryptoDomain.ErrNotInitialized
	}

	dataKey := make([]byte, cryptoDomain.DataKeySize)
	defer cryptoDomain.Zero(dataKey)
	if _, err := rand.Read(dataKey); err != nil {
		return "", fmt.Errorf("failed to generate data key: %w", err)
	}

	aead, err := NewAESGCM(dataKey)
	if err != nil {
		return "", err
	}

	sealed, nonce, err := aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", err
	}

	encryptedKey, err := wrapDataKey(keyPair, dataKey)
	if err != nil {
		return "", err
	}

	tagStart := len(sealed) - cryptoDomain.TagSize
	blob := cryptoDomain.EnvelopeBlob{
		EncryptedKey: encryptedKey,
		Nonce:        nonce,
		Tag:          sealed[tagStart:],
		Ciphertext:   sealed[:tagStart],
	}
	return blob.String(), nil
}

// Decrypt opens a blob produced by Encrypt.
//
// Errors:
//   - ErrNotInitialized if keyPair is nil or closed
//   - ErrMalformedBlob if blob is not base64 or is shorter than the header
//   - ErrKeyUnwrapFailed if the data key cannot be unwrapped (wrong key pair)
//   - ErrAuthenticationFailed if the tag does not verify
//   - ErrInvalidEncoding if the plaintext is not valid UTF-8
func (e *EnvelopeCipherService) Decrypt(blob string, keyPair *cryptoDomain.KeyPair) (string, error) {
	if !keyPair.Usable() {
		return "", cryptoDomain.ErrNotInitialized
	}

	parsed, err := cryptoDomain.ParseEnvelopeBlob(blob, keyPair.EncryptedKeySize())
	if err != nil {
		return "", err
	}

	dataKey, err := unwrapDataKey(keyPair, parsed.EncryptedKey)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(dataKey)

	aead, err := NewAESGCM(dataKey)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(parsed.Ciphertext)+len(parsed.Tag))
	sealed = append(sealed, parsed.Ciphertext...)
	sealed = append(sealed, parsed.Tag...)

	plaintext, err := aead.Decrypt(sealed, parsed.Nonce, nil)
	if err != nil {
		return "", cryptoDomain.ErrAuthenticationFailed
	}

	if !utf8.Valid(plaintext) {
		cryptoDomain.Zero(plaintext)
		return "", cryptoDomain.ErrInvalidEncoding
	}
	return string(plaintext), nil
}

func wrapDataKey(keyPair *cryptoDomain.KeyPair, dataKey []byte) ([]byte, error) {
	encryptedKey, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, keyPair.PublicKey(), dataKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap data key: %w", err)
	}
	return encryptedKey, nil
}

// unwrapDataKey hides the OAEP failure reason from the caller.
func unwrapDataKey(keyPair *cryptoDomain.KeyPair, encryptedKey []byte) ([]byte, error) {
	dataKey, err := rsa.DecryptOAEP(sha1.New(), nil, keyPair.PrivateKey(), encryptedKey, nil)
	if err != nil {
		return nil, cryptoDomain.ErrKeyUnwrapFailed
	}
	if len(dataKey) != cryptoDomain.DataKeySize {
		cryptoDomain.Zero(dataKey)
		return nil, fmt.Errorf("%w: data key is %d bytes", cryptoDomain.ErrKeyUnwrapFailed, len(dataKey))
	}
	return dataKey, nil
}
