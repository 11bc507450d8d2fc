// Package mocks provides mock implementations of the crypto use cases for testing.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockFieldCipher is a mock implementation of FieldCipher for testing.
type MockFieldCipher struct {
	mock.Mock
}

// NewMockFieldCipher creates a MockFieldCipher whose expectations are asserted when the
// test ends.
func NewMockFieldCipher(t *testing.T) *MockFieldCipher {
	m := &MockFieldCipher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Encrypt mocks the Encrypt method of FieldCipher.
func (m *MockFieldCipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of FieldCipher.
func (m *MockFieldCipher) Decrypt(ctx context.Context, blob string) (string, error) {
	args := m.Called(ctx, blob)
	return args.String(0), args.Error(1)
}
