// Package usecase binds the envelope cipher to the installation key pair so that
// persistence code can seal and open confidential fields without handling keys.
package usecase

import "context"

// FieldCipher encrypts and decrypts single confidential attributes.
//
// Every value is encrypted independently with a fresh data key, so equal plaintexts
// produce different blobs. Callers must never compare blobs for equality.
//
// Implementations are safe for concurrent use.
type FieldCipher interface {
	// Encrypt returns the storage blob for plaintext.
	Encrypt(ctx context.Context, plaintext string) (string, error)

	// Decrypt returns the plaintext of a blob produced by Encrypt. It fails with an
	// authentication error for tampered data and never returns partial plaintext.
	Decrypt(ctx context.Context, blob string) (string, error)
}
