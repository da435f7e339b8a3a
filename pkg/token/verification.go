package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"reuniteme/pkg/utils"
)

const verificationTokenBytes = 32

// VerificationToken is the result of minting an email verification token.
// Clear goes into the outbound link only; Hash and ExpiresAt are persisted.
type VerificationToken struct {
	Clear     string
	Hash      string
	ExpiresAt time.Time
}

func NewVerificationToken(now time.Time, window time.Duration) (*VerificationToken, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	clear := hex.EncodeToString(buf)
	return &VerificationToken{
		Clear:     clear,
		Hash:      HashToken(clear),
		ExpiresAt: now.Add(window),
	}, nil
}

// HashToken is the lookup key for a cleartext verification token.
func HashToken(clear string) string {
	return utils.SHA256Hex(clear)
}
