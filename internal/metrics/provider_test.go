package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProviderWithNamespace", func(t *testing.T) {
		provider, err := NewProvider("test_app")

		require.NoError(t, err)
		assert.NotNil(t, provider)
		assert.NotNil(t, provider.meterProvider)
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
	})

	t.Run("Success_CreateProviderWithEmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")

		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}

func TestProvider_MeterProvider(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	meterProvider := provider.MeterProvider()
	assert.NotNil(t, meterProvider)
}

func TestProvider_WriteTextfile(t *testing.T) {
	t.Run("Success_WritesRegistry", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
		require.NoError(t, err)
		bm.RecordOperation(context.Background(), "crypto", "field_encrypt", "success")

		path := filepath.Join(t.TempDir(), "capacity_planner.prom")
		require.NoError(t, provider.WriteTextfile(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "test_app_operations_total")
	})

	t.Run("Error_MissingDirectory", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		err = provider.WriteTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write metrics textfile")
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		err = provider.Shutdown(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		err := provider.Shutdown(context.Background())
		assert.NoError(t, err)
	})
}
