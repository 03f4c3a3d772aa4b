package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

var (
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("session token invalid")
)

// MakeSessionToken signs a stateless session JWT for a user. There is
// no server-side session table, rotating jwt.secret invalidates every
// outstanding token
func MakeSessionToken(userID string) (token string, expiresIn int64, err error) {
	lifetime := time.Duration(viper.GetInt("jwt.lifetime_hours")) * time.Hour

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	})

	signed, err := t.SignedString([]byte(viper.GetString("jwt.secret")))
	if err != nil {
		return "", 0, err
	}

	return signed, int64(lifetime.Seconds()), nil
}

// ParseSessionToken validates signature and expiry and returns the user
// ID the token was issued for. Fails closed on anything malformed
func ParseSessionToken(token string) (string, error) {
	t, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}

		return "", ErrTokenInvalid
	}

	if !t.Valid {
		return "", ErrTokenInvalid
	}

	userID, err := t.Claims.GetSubject()
	if err != nil || userID == "" {
		return "", ErrTokenInvalid
	}

	return userID, nil
}
