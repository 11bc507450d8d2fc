// Package service provides the envelope encryption services: RSA key pair lifecycle on
// disk, the AES-256-GCM data cipher and the hybrid envelope cipher built from them.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// KeyManager guarantees a usable, persisted RSA key pair.
type KeyManager interface {
	// Initialize loads the key pair stored in directory, or generates and persists a new
	// one when none exists or forceNew is set.
	Initialize(ctx context.Context, directory string, forceNew bool) (*cryptoDomain.KeyPair, error)
}

// EnvelopeCipher encrypts and decrypts single strings into self-contained blobs.
type EnvelopeCipher interface {
	// Encrypt seals plaintext under a fresh data key wrapped with the key pair's public key.
	Encrypt(plaintext string, keyPair *cryptoDomain.KeyPair) (string, error)

	// Decrypt opens a blob produced by Encrypt with the key pair's private key.
	Decrypt(blob string, keyPair *cryptoDomain.KeyPair) (string, error)
}
