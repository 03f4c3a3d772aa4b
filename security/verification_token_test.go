package security

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeVerificationToken(t *testing.T) {
	viper.Set("security.verification_ttl_minutes", 15)

	tok, err := MakeVerificationToken()
	require.NoError(t, err)

	// 32 random bytes, hex encoded
	assert.Len(t, tok.Plaintext, 64)
	assert.Equal(t, HashToken(tok.Plaintext), tok.Hash)
	assert.NotEqual(t, tok.Plaintext, tok.Hash)

	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.ExpiresAt, 5*time.Second)
}

func TestMakeVerificationTokenUnique(t *testing.T) {
	viper.Set("security.verification_ttl_minutes", 15)

	first, err := MakeVerificationToken()
	require.NoError(t, err)

	second, err := MakeVerificationToken()
	require.NoError(t, err)

	assert.NotEqual(t, first.Plaintext, second.Plaintext)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}
