package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	MinTransactionNumber = 1000
	MaxTransactionNumber = 9999
)

// GenerateTransactionNumber draws a four-digit receipt number from
// [MinTransactionNumber, MaxTransactionNumber]. Draws may repeat.
func GenerateTransactionNumber() int {
	span := big.NewInt(MaxTransactionNumber - MinTransactionNumber + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand failing is not worth aborting a payment over
		return MinTransactionNumber
	}
	return MinTransactionNumber + int(n.Int64())
}

// GenerateSessionID identifies one run of the restaurant session.
func GenerateSessionID() string {
	return uuid.NewString()
}
