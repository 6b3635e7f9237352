package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims wraps the registered claims with an application payload under
// "data".
type Claims[T interface{}] struct {
	jwt.RegisteredClaims
	Data T `json:"data"`
}

type CreateTokenRequest[T interface{}] struct {
	SecretToken string
	Issuer      string
	Subject     string
	TTL         time.Duration
	Data        T
	// Now defaults to time.Now.
	Now func() time.Time
}
