package domain

import (
	"encoding/base64"
	"fmt"
)

// EnvelopeBlob is one encrypted value in its storage form.
//
// The decoded layout is fixed and not self-describing:
//
//	offset 0        len K   RSA-OAEP encrypted data key (K = modulus bytes, 256 for RSA-2048)
//	offset K        len 16  AES-GCM nonce
//	offset K+16     len 16  AES-GCM tag
//	offset K+32     rest    AES-GCM ciphertext (same length as the plaintext)
//
// The concatenation is stored as standard base64 with padding.
type EnvelopeBlob struct {
	EncryptedKey []byte
	Nonce        []byte
	Tag          []byte
	Ciphertext   []byte
}

// ParseEnvelopeBlob decodes a stored blob and slices it using the key size of the key
// pair that will decrypt it. The key section length is never read from the blob.
//
// Returns ErrMalformedBlob if content is not valid base64 or is shorter than the header.
func ParseEnvelopeBlob(content string, encryptedKeySize int) (EnvelopeBlob, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return EnvelopeBlob{}, fmt.Errorf("%w: invalid base64: %v", ErrMalformedBlob, err)
	}

	header := HeaderSize(encryptedKeySize)
	if encryptedKeySize <= 0 || len(raw) < header {
		return EnvelopeBlob{}, fmt.Errorf(
			"%w: got %d bytes, need at least %d",
			ErrMalformedBlob,
			len(raw),
			header,
		)
	}

	nonceEnd := encryptedKeySize + NonceSize
	return EnvelopeBlob{
		EncryptedKey: raw[:encryptedKeySize:encryptedKeySize],
		Nonce:        raw[encryptedKeySize:nonceEnd:nonceEnd],
		Tag:          raw[nonceEnd:header:header],
		Ciphertext:   raw[header:],
	}, nil
}

// Bytes returns the decoded concatenation of all four sections.
func (b EnvelopeBlob) Bytes() []byte {
	out := make([]byte, 0, len(b.EncryptedKey)+len(b.Nonce)+len(b.Tag)+len(b.Ciphertext))
	out = append(out, b.EncryptedKey...)
	out = append(out, b.Nonce...)
	out = append(out, b.Tag...)
	out = append(out, b.Ciphertext...)
	return out
}

// String returns the storage form of the blob.
func (b EnvelopeBlob) String() string {
	return base64.StdEncoding.EncodeToString(b.Bytes())
}
