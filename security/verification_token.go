package security

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"campusflow/sched-api/util"

	"github.com/spf13/viper"
)

const tokenSize = 32

// VerificationToken pairs the plaintext that goes out in the mail with
// the hash that goes into the database. Only the hash is ever stored,
// so a database leak alone can't be used to forge a verification
type VerificationToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// MakeVerificationToken generates a fresh single-use email verification
// token. The expiry comes from security.verification_ttl_minutes
func MakeVerificationToken() (*VerificationToken, error) {
	plaintext, err := util.GenerateToken(tokenSize)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(viper.GetInt("security.verification_ttl_minutes")) * time.Minute

	return &VerificationToken{
		Plaintext: plaintext,
		Hash:      HashToken(plaintext),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashToken computes the digest used to look a token up at consume time
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
