// Package domain defines the envelope encryption domain: the RSA key pair handle, the
// envelope blob layout and the error taxonomy shared by the key manager and the cipher.
//
// Every confidential value is sealed with its own random 256-bit data key (AES-256-GCM)
// and the data key is wrapped with the installation's RSA public key (RSA-OAEP).
package domain

const (
	// RSAKeyBits is the modulus size of generated key pairs.
	RSAKeyBits = 2048

	// MinRSAKeyBits is the smallest modulus accepted when loading key files.
	MinRSAKeyBits = 2048

	// DataKeySize is the size in bytes of the per-value AES-256 data key.
	DataKeySize = 32

	// NonceSize is the AES-GCM nonce size in bytes. Blobs written by earlier
	// installations use 16-byte nonces, so the standard 12-byte size is not used.
	NonceSize = 16

	// TagSize is the AES-GCM authentication tag size in bytes.
	TagSize = 16

	// PrivateKeyFileName is the private key file inside the key directory.
	PrivateKeyFileName = "private.pem"

	// PublicKeyFileName is the public key file inside the key directory.
	PublicKeyFileName = "public.pem"
)

// PEM block types read and written by the key store.
const (
	PEMTypeRSAPrivateKey    = "RSA PRIVATE KEY"
	PEMTypePKCS8PrivateKey  = "PRIVATE KEY"
	PEMTypeSealedPrivateKey = "KMS SEALED RSA PRIVATE KEY"
	PEMTypePublicKey        = "PUBLIC KEY"
	PEMTypeRSAPublicKey     = "RSA PUBLIC KEY"
)

// HeaderSize returns the fixed prefix length of a decoded envelope blob for a key whose
// modulus is encryptedKeySize bytes long (288 for RSA-2048).
func HeaderSize(encryptedKeySize int) int {
	return encryptedKeySize + NonceSize + TagSize
}
