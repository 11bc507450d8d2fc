package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
	cryptoUsecaseMocks "github.com/allisson/capacity-planner/internal/crypto/usecase/mocks"
	"github.com/allisson/capacity-planner/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestNewFieldCipherWithMetrics(t *testing.T) {
	decorator := NewFieldCipherWithMetrics(cryptoUsecaseMocks.NewMockFieldCipher(t), &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*FieldCipher)(nil), decorator)
}

func TestFieldCipherWithMetrics_Encrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		next := cryptoUsecaseMocks.NewMockFieldCipher(t)
		mockMetrics := &mockBusinessMetrics{}

		next.On("Encrypt", ctx, "Max Mustermann").Return("blob", nil).Once()
		mockMetrics.On("RecordOperation", ctx, "crypto", "field_encrypt", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "crypto", "field_encrypt", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		blob, err := NewFieldCipherWithMetrics(next, mockMetrics).Encrypt(ctx, "Max Mustermann")

		require.NoError(t, err)
		assert.Equal(t, "blob", blob)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		next := cryptoUsecaseMocks.NewMockFieldCipher(t)
		mockMetrics := &mockBusinessMetrics{}
		expectedErr := errors.New("rng failure")

		next.On("Encrypt", ctx, "value").Return("", expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "crypto", "field_encrypt", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "crypto", "field_encrypt", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		blob, err := NewFieldCipherWithMetrics(next, mockMetrics).Encrypt(ctx, "value")

		assert.ErrorIs(t, err, expectedErr)
		assert.Empty(t, blob)
		mockMetrics.AssertExpectations(t)
	})
}

func TestFieldCipherWithMetrics_Decrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		next := cryptoUsecaseMocks.NewMockFieldCipher(t)
		mockMetrics := &mockBusinessMetrics{}

		next.On("Decrypt", ctx, "blob").Return("Max Mustermann", nil).Once()
		mockMetrics.On("RecordOperation", ctx, "crypto", "field_decrypt", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "crypto", "field_decrypt", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		plaintext, err := NewFieldCipherWithMetrics(next, mockMetrics).Decrypt(ctx, "blob")

		require.NoError(t, err)
		assert.Equal(t, "Max Mustermann", plaintext)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		next := cryptoUsecaseMocks.NewMockFieldCipher(t)
		mockMetrics := &mockBusinessMetrics{}

		next.On("Decrypt", ctx, "blob").Return("", cryptoDomain.ErrAuthenticationFailed).Once()
		mockMetrics.On("RecordOperation", ctx, "crypto", "field_decrypt", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "crypto", "field_decrypt", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		_, err := NewFieldCipherWithMetrics(next, mockMetrics).Decrypt(ctx, "blob")

		assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
		mockMetrics.AssertExpectations(t)
	})
}
