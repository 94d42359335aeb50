package codegen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	// CodeLength is always two letters followed by four digits, e.g. "AB1234".
	CodeLength = 6
)

// Generator produces human-readable ticket codes. Uniqueness against the
// stored collection is the caller's responsibility.
type Generator interface {
	Generate() (string, error)
}

type randomGenerator struct{}

// NewGenerator returns a crypto/rand backed generator.
func NewGenerator() Generator {
	return randomGenerator{}
}

// Generate returns a fresh code. The only failure mode is the platform
// randomness source being unavailable.
func (randomGenerator) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i := 0; i < 2; i++ {
		ch, err := pick(letters)
		if err != nil {
			return "", err
		}
		sb.WriteByte(ch)
	}
	for i := 0; i < 4; i++ {
		ch, err := pick(digits)
		if err != nil {
			return "", err
		}
		sb.WriteByte(ch)
	}
	return sb.String(), nil
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
