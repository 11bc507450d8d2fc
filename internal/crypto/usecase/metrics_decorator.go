package usecase

import (
	"context"
	"time"

	"github.com/allisson/capacity-planner/internal/metrics"
)

// fieldCipherWithMetrics decorates FieldCipher with metrics instrumentation.
type fieldCipherWithMetrics struct {
	next    FieldCipher
	metrics metrics.BusinessMetrics
}

// NewFieldCipherWithMetrics wraps a FieldCipher with metrics recording.
func NewFieldCipherWithMetrics(fieldCipher FieldCipher, m metrics.BusinessMetrics) FieldCipher {
	return &fieldCipherWithMetrics{
		next:    fieldCipher,
		metrics: m,
	}
}

// Encrypt records metrics for field encryption operations.
func (f *fieldCipherWithMetrics) Encrypt(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	blob, err := f.next.Encrypt(ctx, plaintext)
	f.record(ctx, "field_encrypt", start, err)
	return blob, err
}

// Decrypt records metrics for field decryption operations.
func (f *fieldCipherWithMetrics) Decrypt(ctx context.Context, blob string) (string, error) {
	start := time.Now()
	plaintext, err := f.next.Decrypt(ctx, blob)
	f.record(ctx, "field_decrypt", start, err)
	return plaintext, err
}

func (f *fieldCipherWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, f.metrics, "crypto", operation, start, err)
}
