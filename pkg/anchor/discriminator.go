package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Discriminator is the 8-byte tag Anchor programs prepend to instruction
// data, account buffers and emitted events.
type Discriminator [8]byte

// String returns the hex representation of the discriminator
func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes returns the discriminator as a byte slice
func (d Discriminator) Bytes() []byte {
	return d[:]
}

// Compute derives a discriminator as sha256("namespace:name")[0:8]
func Compute(namespace, name string) Discriminator {
	hash := sha256.Sum256([]byte(namespace + ":" + name))

	var d Discriminator
	copy(d[:], hash[:8])
	return d
}

// InstructionDiscriminator derives the discriminator for an instruction
func InstructionDiscriminator(name string) Discriminator {
	return Compute("global", name)
}

// AccountDiscriminator derives the discriminator for an account type
func AccountDiscriminator(name string) Discriminator {
	return Compute("account", name)
}

// EventDiscriminator derives the discriminator for an emitted event
func EventDiscriminator(name string) Discriminator {
	return Compute("event", name)
}

// FromBytes extracts a discriminator from the head of a buffer
func FromBytes(data []byte) (Discriminator, error) {
	if len(data) < 8 {
		return Discriminator{}, fmt.Errorf("data too short for discriminator: need 8 bytes, got %d", len(data))
	}

	var d Discriminator
	copy(d[:], data[:8])
	return d, nil
}

// FromHex parses a discriminator from a 16-character hex string
func FromHex(s string) (Discriminator, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Discriminator{}, fmt.Errorf("invalid discriminator hex %q: %w", s, err)
	}
	if len(raw) != 8 {
		return Discriminator{}, fmt.Errorf("invalid discriminator length: expected 8 bytes, got %d", len(raw))
	}

	var d Discriminator
	copy(d[:], raw)
	return d, nil
}

// Validate checks that a buffer starts with the expected discriminator
func Validate(data []byte, expected Discriminator) error {
	actual, err := FromBytes(data)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("discriminator mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}
