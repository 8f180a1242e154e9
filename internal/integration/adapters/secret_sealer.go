package adapters

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

const sealNonceSize = 24

// secretSealer implements the adapter.SecretSealer interface with NaCl
// secretbox. The sealed form is nonce followed by ciphertext.
type secretSealer struct {
	key [32]byte
}

// GenerateSealKey returns a random 64 character hex seal key. Tokens sealed
// under a generated key do not survive a restart; the provider secrets mint
// a fresh pair on demand.
func GenerateSealKey() string {
	var raw [32]byte
	if _, err := io.ReadFull(rand.Reader, raw[:]); err != nil {
		panic(fmt.Sprintf("failed to generate seal key: %v", err))
	}
	return hex.EncodeToString(raw[:])
}

// NewSecretSealer creates a new secret sealer from a 64 character hex key.
func NewSecretSealer(keyHex string) (adapter.SecretSealer, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seal key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("seal key must be 32 bytes, got %d", len(raw))
	}

	sealer := &secretSealer{}
	copy(sealer.key[:], raw)
	return sealer, nil
}

// Seal encrypts a secret.
func (s *secretSealer) Seal(plaintext string) ([]byte, error) {
	var nonce [sealNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key), nil
}

// Open decrypts a sealed secret.
func (s *secretSealer) Open(sealed []byte) (string, error) {
	if len(sealed) < sealNonceSize {
		return "", fmt.Errorf("sealed value too short")
	}

	var nonce [sealNonceSize]byte
	copy(nonce[:], sealed[:sealNonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[sealNonceSize:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("failed to open sealed value")
	}
	return string(plaintext), nil
}
