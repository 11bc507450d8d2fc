package domain

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
	"sync/atomic"
)

// KeyPair is the loaded RSA key pair of one installation.
//
// A KeyPair is created once by the key manager and then shared read-only by every
// consumer; it is never mutated until Close. Nothing in this type serializes the
// private half.
type KeyPair struct {
	private *rsa.PrivateKey
	closed  atomic.Bool
	once    sync.Once
}

// NewKeyPair wraps a validated private key. It returns ErrNotInitialized for nil.
func NewKeyPair(private *rsa.PrivateKey) (*KeyPair, error) {
	if private == nil {
		return nil, ErrNotInitialized
	}
	return &KeyPair{private: private}, nil
}

// Usable reports whether the key pair can still encrypt and decrypt.
func (k *KeyPair) Usable() bool {
	return k != nil && k.private != nil && !k.closed.Load()
}

// PublicKey returns the public half.
func (k *KeyPair) PublicKey() *rsa.PublicKey {
	return &k.private.PublicKey
}

// PrivateKey returns the private half for in-process decryption.
func (k *KeyPair) PrivateKey() *rsa.PrivateKey {
	return k.private
}

// Bits returns the modulus size in bits.
func (k *KeyPair) Bits() int {
	return k.private.N.BitLen()
}

// EncryptedKeySize returns the length of an RSA-OAEP ciphertext under this key, which is
// also the length of the encrypted data key section of every envelope blob.
func (k *KeyPair) EncryptedKeySize() int {
	return k.private.Size()
}

// PublicKeyPEM returns the SubjectPublicKeyInfo PEM encoding of the public half.
func (k *KeyPair) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(k.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: PEMTypePublicKey, Bytes: der}), nil
}

// Equal reports whether both handles hold the same private key.
func (k *KeyPair) Equal(other *KeyPair) bool {
	if k == nil || other == nil || k.private == nil || other.private == nil {
		return false
	}
	return k.private.Equal(other.private)
}

// Close zeroes the private exponent, primes and CRT values and marks the key pair
// unusable. It must only be called once no consumer is using the key pair.
func (k *KeyPair) Close() {
	if k == nil || k.private == nil {
		return
	}
	k.once.Do(func() {
		k.closed.Store(true)
		ZeroBigInt(k.private.D)
		for _, p := range k.private.Primes {
			ZeroBigInt(p)
		}
		ZeroBigInt(k.private.Precomputed.Dp)
		ZeroBigInt(k.private.Precomputed.Dq)
		ZeroBigInt(k.private.Precomputed.Qinv)
	})
}
