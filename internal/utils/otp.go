package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a cryptographically random 6-digit code, uniform in
// [100000, 999999].
func GenerateOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate otp: %w", err)
	}
	return otpMin + int(n.Int64()), nil
}
