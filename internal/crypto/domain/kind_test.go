package domain

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/capacity-planner/internal/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{name: "nil", err: nil, kind: KindUnknown},
		{name: "foreign error", err: os.ErrClosed, kind: KindUnknown},
		{name: "not initialized", err: ErrNotInitialized, kind: KindNotInitialized},
		{
			name: "key io with cause",
			err:  fmt.Errorf("%w: %w", ErrKeyIO, os.ErrPermission),
			kind: KindKeyIO,
		},
		{name: "key parse", err: ErrKeyParse, kind: KindKeyParse},
		{name: "partial key pair", err: ErrPartialKeyPair, kind: KindKeyParse},
		{name: "key mismatch", err: ErrKeyMismatch, kind: KindKeyParse},
		{name: "malformed blob", err: ErrMalformedBlob, kind: KindMalformedBlob},
		{name: "authentication", err: ErrAuthenticationFailed, kind: KindAuthenticationFailure},
		{name: "key unwrap", err: ErrKeyUnwrapFailed, kind: KindAuthenticationFailure},
		{name: "encoding", err: ErrInvalidEncoding, kind: KindEncoding},
		{
			name: "wrapped by caller",
			err:  apperrors.Wrap(ErrMalformedBlob, "decrypt worker email"),
			kind: KindMalformedBlob,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestErrorCategories(t *testing.T) {
	t.Run("configuration errors are failed preconditions", func(t *testing.T) {
		for _, err := range []error{ErrNotInitialized, ErrKeyIO, ErrKeyParse, ErrPartialKeyPair, ErrKeyMismatch} {
			assert.ErrorIs(t, err, apperrors.ErrFailedPrecondition)
		}
	})

	t.Run("data errors are integrity failures", func(t *testing.T) {
		for _, err := range []error{ErrAuthenticationFailed, ErrKeyUnwrapFailed, ErrInvalidEncoding} {
			assert.ErrorIs(t, err, apperrors.ErrIntegrity)
		}
	})

	t.Run("malformed blob is invalid input", func(t *testing.T) {
		assert.ErrorIs(t, ErrMalformedBlob, apperrors.ErrInvalidInput)
		assert.NotErrorIs(t, ErrMalformedBlob, apperrors.ErrIntegrity)
	})
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "authentication_failure", KindAuthenticationFailure.String())
	assert.Equal(t, "malformed_blob", KindMalformedBlob.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}
