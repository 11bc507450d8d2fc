package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
	cryptoService "github.com/allisson/capacity-planner/internal/crypto/service"
	cryptoUseCase "github.com/allisson/capacity-planner/internal/crypto/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyManager returns the key manager service.
func (c *Container) KeyManager() cryptoService.KeyManager {
	c.keyManagerInit.Do(func() {
		c.keyManager = cryptoService.NewKeyManager(c.KMSService(), c.config.KMSKeyURI, c.Logger())
	})
	return c.keyManager
}

// KeyPair returns the installation key pair from the configured key directory. The key
// pair is loaded or generated once per container and closed by Shutdown.
func (c *Container) KeyPair(ctx context.Context) (*cryptoDomain.KeyPair, error) {
	var err error
	c.keyPairInit.Do(func() {
		c.keyPair, err = c.KeyManager().Initialize(ctx, c.config.KeyDirectory, false)
		if err != nil {
			err = fmt.Errorf("failed to initialize key pair: %w", err)
			c.setInitError("keyPair", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("keyPair"); storedErr != nil {
		return nil, storedErr
	}
	return c.keyPair, nil
}

// EnvelopeCipher returns the envelope cipher service.
func (c *Container) EnvelopeCipher() cryptoService.EnvelopeCipher {
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher = cryptoService.NewEnvelopeCipher()
	})
	return c.envelopeCipher
}

// FieldCipher returns the field cipher bound to the installation key pair.
func (c *Container) FieldCipher(ctx context.Context) (cryptoUseCase.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = c.initFieldCipher(ctx)
		if err != nil {
			c.setInitError("fieldCipher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("fieldCipher"); storedErr != nil {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// initFieldCipher creates the field cipher with all its dependencies.
func (c *Container) initFieldCipher(ctx context.Context) (cryptoUseCase.FieldCipher, error) {
	keyPair, err := c.KeyPair(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key pair for field cipher: %w", err)
	}

	baseFieldCipher := cryptoUseCase.NewFieldCipher(c.EnvelopeCipher(), keyPair)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for field cipher: %w", err)
		}
		return cryptoUseCase.NewFieldCipherWithMetrics(baseFieldCipher, businessMetrics), nil
	}

	return baseFieldCipher, nil
}
