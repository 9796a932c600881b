package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Reservation codes are the PNR handed to the passenger: a fixed
// prefix followed by six random digits. The code space is large
// relative to expected booking volume, so collisions are rare; the
// attempt bound below is a safety net, not an expected path.
const (
	pnrPrefix      = "PNR"
	pnrDigitSpace  = 1000000 // six digits
	maxPNRAttempts = 5
)

// randomPNR draws one candidate code using crypto/rand.
func randomPNR() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pnrDigitSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", pnrPrefix, n.Int64()), nil
}

// GenerateUniquePNR produces a reservation code that exists() reports
// as unused, re-drawing on collision. It returns ErrGenerationExhausted
// after maxPNRAttempts collisions rather than looping indefinitely.
func GenerateUniquePNR(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxPNRAttempts; attempt++ {
		code, err := randomPNR()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}
