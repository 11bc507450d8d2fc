package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	cryptoDomain "github.com/allisson/capacity-planner/internal/crypto/domain"
	cryptoService "github.com/allisson/capacity-planner/internal/crypto/service"
)

// ErrAborted is returned when the operator declines a destructive confirmation prompt.
var ErrAborted = errors.New("aborted by operator")

// keyInfo describes a key pair without exposing private material.
type keyInfo struct {
	Directory   string `json:"directory"`
	Fingerprint string `json:"fingerprint"`
	Bits        int    `json:"bits"`
}

// RunInitKeys loads the key pair in directory, generating one when none exists. With
// forceNew the pair is replaced and every value encrypted under the old pair becomes
// unreadable, so the operator must confirm unless assumeYes is set.
//
// The key pair is closed before returning.
func RunInitKeys(
	ctx context.Context,
	keyManager cryptoService.KeyManager,
	logger *slog.Logger,
	io IOTuple,
	directory string,
	forceNew bool,
	assumeYes bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if forceNew && !assumeYes {
		confirmed, err := confirm(io, fmt.Sprintf(
			"Replacing the key pair in %s makes every stored encrypted value unreadable.\n"+
				"Type 'yes' to continue: ",
			directory,
		))
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}

	logger.Info("initializing key pair",
		slog.String("directory", directory),
		slog.Bool("force_new", forceNew),
	)

	keyPair, err := keyManager.Initialize(ctx, directory, forceNew)
	if err != nil {
		return fmt.Errorf("failed to initialize key pair: %w", err)
	}
	defer keyPair.Close()

	return outputKeyInfo(io.Writer, directory, keyPair, format)
}

// RunKeyInfo prints the fingerprint and size of an initialized key pair.
func RunKeyInfo(writer io.Writer, directory string, keyPair *cryptoDomain.KeyPair, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if !keyPair.Usable() {
		return cryptoDomain.ErrNotInitialized
	}
	return outputKeyInfo(writer, directory, keyPair, format)
}

func outputKeyInfo(writer io.Writer, directory string, keyPair *cryptoDomain.KeyPair, format string) error {
	fingerprint, err := cryptoService.PublicKeyFingerprint(keyPair.PublicKey())
	if err != nil {
		return err
	}

	info := keyInfo{
		Directory:   directory,
		Fingerprint: fingerprint,
		Bits:        keyPair.Bits(),
	}

	if format == formatJSON {
		return writeJSON(writer, info)
	}

	_, _ = fmt.Fprintf(writer, "Key directory: %s\n", info.Directory)
	_, _ = fmt.Fprintf(writer, "Fingerprint: %s\n", info.Fingerprint)
	_, _ = fmt.Fprintf(writer, "Key size: %d bits\n", info.Bits)
	return nil
}

// confirm prints prompt and reports whether the operator answered "yes".
func confirm(io IOTuple, prompt string) (bool, error) {
	if io.Reader == nil {
		return false, nil
	}

	_, _ = fmt.Fprint(io.Writer, prompt)
	answer, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && answer == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
}
