package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateInvitationToken returns a 32-character hex token from a CSPRNG.
// The token is the only proof of invitation ownership, so it must not be
// guessable.
func GenerateInvitationToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
