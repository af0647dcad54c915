package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
)

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return min + mrand.Intn(max-min+1)
}

// GenerateReferenceNumber returns prefix followed by six random digits, e.g. FP042917
func GenerateReferenceNumber(prefix string) string {
	return fmt.Sprintf("%s%06d", prefix, GenerateRandomNumber(0, 999999))
}

// GenerateToken returns a random hex token of n bytes
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
