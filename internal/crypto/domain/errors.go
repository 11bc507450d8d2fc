package domain

import (
	"github.com/allisson/capacity-planner/internal/errors"
)

// Envelope encryption error definitions.
//
// Each sentinel wraps one of the base categories from internal/errors so that callers can
// tell a deployment problem (ErrFailedPrecondition) from tampered or corrupted data
// (ErrIntegrity) and from a caller bug (ErrInvalidInput). Use KindOf for a switchable tag.
var (
	// ErrNotInitialized indicates encrypt or decrypt was called without a usable key pair,
	// either because none was loaded or because it has been closed.
	ErrNotInitialized = errors.Wrap(errors.ErrFailedPrecondition, "key pair not initialized")

	// ErrKeyIO indicates the key directory or a key file could not be created, read or
	// written. The caller may retry after fixing permissions or disk space.
	ErrKeyIO = errors.Wrap(errors.ErrFailedPrecondition, "key storage i/o failed")

	// ErrKeyParse indicates a key file exists but does not hold a usable RSA key.
	ErrKeyParse = errors.Wrap(errors.ErrFailedPrecondition, "invalid key material")

	// ErrPartialKeyPair indicates only one of private.pem and public.pem exists.
	ErrPartialKeyPair = errors.Wrap(ErrKeyParse, "incomplete key pair on disk")

	// ErrKeyMismatch indicates public.pem does not belong to private.pem.
	ErrKeyMismatch = errors.Wrap(ErrKeyParse, "public key does not match private key")

	// ErrMalformedBlob indicates the blob is not valid base64 or is shorter than the
	// fixed header.
	ErrMalformedBlob = errors.Wrap(errors.ErrInvalidInput, "malformed envelope blob")

	// ErrAuthenticationFailed indicates the AES-GCM tag did not verify. No plaintext is
	// returned when this happens.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrIntegrity, "envelope authentication failed")

	// ErrKeyUnwrapFailed indicates RSA-OAEP could not recover a data key, which happens
	// with the wrong private key or a corrupted key section.
	ErrKeyUnwrapFailed = errors.Wrap(ErrAuthenticationFailed, "data key unwrap failed")

	// ErrInvalidEncoding indicates the decrypted bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.Wrap(errors.ErrIntegrity, "decrypted value is not valid utf-8")
)
