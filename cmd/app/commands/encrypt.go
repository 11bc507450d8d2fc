package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/jellydator/validation"

	cryptoUseCase "github.com/allisson/capacity-planner/internal/crypto/usecase"
	appValidation "github.com/allisson/capacity-planner/internal/validation"
)

// RunEncrypt encrypts value with the installation key pair and prints the blob.
func RunEncrypt(
	ctx context.Context,
	fieldCipher cryptoUseCase.FieldCipher,
	logger *slog.Logger,
	writer io.Writer,
	value string,
) error {
	blob, err := fieldCipher.Encrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	_, _ = fmt.Fprintln(writer, blob)
	logger.Debug("value encrypted", slog.Int("blob_length", len(blob)))
	return nil
}

// RunDecrypt decrypts a blob produced by RunEncrypt and prints the plaintext.
func RunDecrypt(
	ctx context.Context,
	fieldCipher cryptoUseCase.FieldCipher,
	logger *slog.Logger,
	writer io.Writer,
	blob string,
) error {
	if err := appValidation.WrapValidationError(validation.Validate(blob,
		validation.Required.Error("blob is required"),
		appValidation.Base64,
	)); err != nil {
		return err
	}

	plaintext, err := fieldCipher.Decrypt(ctx, blob)
	if err != nil {
		return fmt.Errorf("failed to decrypt blob: %w", err)
	}

	_, _ = fmt.Fprintln(writer, plaintext)
	logger.Debug("blob decrypted", slog.Int("blob_length", len(blob)))
	return nil
}
