package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator mints opaque identifiers for request correlation.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits 128-bit hex identifiers from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (*RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate identifier: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}
