package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
)

var (
	sharedKeyOnce sync.Once
	sharedKey     *rsa.PrivateKey
	sharedKeyErr  error
)

// NewKeyPair generates a fresh RSA-2048 key pair. Use it when the test closes the key
// pair or needs a key distinct from every other test.
func NewKeyPair(t *testing.T) *cryptoDomain.KeyPair {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, cryptoDomain.RSAKeyBits)
	require.NoError(t, err, "failed to generate RSA key")

	keyPair, err := cryptoDomain.NewKeyPair(key)
	require.NoError(t, err, "failed to wrap RSA key")
	return keyPair
}

// SharedKeyPair returns a key pair backed by one RSA key generated per test binary.
// Callers must not close it.
func SharedKeyPair(t *testing.T) *cryptoDomain.KeyPair {
	t.Helper()

	sharedKeyOnce.Do(func() {
		sharedKey, sharedKeyErr = rsa.GenerateKey(rand.Reader, cryptoDomain.RSAKeyBits)
	})
	require.NoError(t, sharedKeyErr, "failed to generate shared RSA key")

	keyPair, err := cryptoDomain.NewKeyPair(sharedKey)
	require.NoError(t, err, "failed to wrap shared RSA key")
	return keyPair
}
