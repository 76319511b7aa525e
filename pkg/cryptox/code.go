package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NumericCodeLength is the number of digits in a second-factor challenge code.
const NumericCodeLength = 6

// GenerateNumericCode returns a uniformly random numeric code of the given
// number of digits, zero-padded. Uses crypto/rand.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("cryptox: code digits must be positive, got %d", digits)
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("cryptox: generate numeric code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
