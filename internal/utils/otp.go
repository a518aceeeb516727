package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTPCode generates a cryptographically secure 6-digit code,
// uniform over 000000-999999 and left-zero-padded.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
