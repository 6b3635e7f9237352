package jwt

import (
	"time"

	"github.com/AndreeJait/email-storm/errow"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

func CreateToken[T interface{}](param CreateTokenRequest[T]) (string, error) {
	now := time.Now
	if param.Now != nil {
		now = param.Now
	}
	issuedAt := now()

	claims := Claims[T]{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   param.Issuer,
			Subject:  param.Subject,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		Data: param.Data,
	}
	if param.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(param.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSigned, err := token.SignedString([]byte(param.SecretToken))
	return tokenSigned, errors.WithStack(err)
}

func ParseToken[T interface{}](tokenStr string, secret string) (resp Claims[T], err error) {
	token, err := jwt.ParseWithClaims(tokenStr, &resp, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errow.ErrInvalidSigningMethod
		} else if method != jwt.SigningMethodHS256 {
			return nil, errow.ErrInvalidSigningMethod
		}

		return []byte(secret), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return resp, errors.Wrap(errow.ErrSessionExpired, err.Error())
	}
	if errors.Is(err, errow.ErrInvalidSigningMethod) {
		return resp, errors.WithStack(errow.ErrInvalidSigningMethod)
	}
	if err != nil {
		return resp, errors.Wrap(errow.ErrInvalidToken, err.Error())
	}
	if !token.Valid {
		return resp, errors.WithStack(errow.ErrInvalidToken)
	}
	return resp, nil
}
