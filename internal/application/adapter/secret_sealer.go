// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// SecretSealer defines the interface for sealing provider tokens before they
// reach storage and opening them again on the way back.
type SecretSealer interface {
	// Seal encrypts a secret.
	Seal(plaintext string) ([]byte, error)

	// Open decrypts a sealed secret.
	Open(sealed []byte) (string, error)
}
