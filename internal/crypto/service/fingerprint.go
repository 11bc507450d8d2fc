package service

import (
	"crypto/rsa"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// PublicKeyFingerprint returns the OpenSSH SHA256 fingerprint of key, for example
// "SHA256:nThbg6kXUpJWGl7E1IGOCspRomTxdCARLviKw6E5SY8". It identifies a key pair in
// logs and CLI output without revealing key material.
func PublicKeyFingerprint(key *rsa.PublicKey) (string, error) {
	pub, err := ssh.NewPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key: %w", err)
	}
	return ssh.FingerprintSHA256(pub), nil
}
