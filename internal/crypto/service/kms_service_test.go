package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"
)

// localKeyURI returns a fresh base64key:// URI served by gocloud localsecrets.
func localKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func openLocalKeeper(t *testing.T, keyURI string) *secrets.Keeper {
	t.Helper()
	keeper, err := NewKMSService().OpenKeeper(context.Background(), keyURI)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, keeper.Close()) })

	concrete, ok := keeper.(*secrets.Keeper)
	require.True(t, ok, "keeper should be *secrets.Keeper")
	return concrete
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("local secrets", func(t *testing.T) {
		keeper := openLocalKeeper(t, localKeyURI(t))
		assert.NotNil(t, keeper)
	})

	tests := []struct {
		name   string
		keyURI string
	}{
		{name: "unknown scheme", keyURI: "invalid://uri"},
		{name: "empty uri", keyURI: ""},
		{name: "bad local key", keyURI: "base64key://not-a-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keeper, err := NewKMSService().OpenKeeper(ctx, tt.keyURI)
			require.Error(t, err)
			assert.Nil(t, keeper)
			assert.Contains(t, err.Error(), "failed to open KMS keeper")
		})
	}
}

func TestKMSService_SealPrivateKeySizedPayload(t *testing.T) {
	ctx := context.Background()
	keeper := openLocalKeeper(t, localKeyURI(t))

	payload := make([]byte, 1192)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	sealed, err := keeper.Encrypt(ctx, payload)
	require.NoError(t, err)
	assert.NotEqual(t, payload, sealed)

	opened, err := keeper.Decrypt(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, payload, opened)
}

func TestKMSService_KeepersAreIsolated(t *testing.T) {
	ctx := context.Background()
	first := openLocalKeeper(t, localKeyURI(t))
	second := openLocalKeeper(t, localKeyURI(t))

	sealed, err := first.Encrypt(ctx, []byte("private key bytes"))
	require.NoError(t, err)

	_, err = second.Decrypt(ctx, sealed)
	assert.Error(t, err)

	_, err = first.Decrypt(ctx, []byte("garbage"))
	assert.Error(t, err)
}
