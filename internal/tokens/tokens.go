package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed validity window of every issued token.
const TTL = time.Hour

var ErrUnexpectedSignMethod = errors.New("unexpected sign method")

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Issued struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func Sign(userID string, secret []byte, issuedAt time.Time, ttl time.Duration) (Issued, error) {
	exp := issuedAt.Add(ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, IssuedAt: issuedAt, ExpiresAt: exp}, nil
}

// ClaimsFromToken validates signature, algorithm and expiry against now.
func ClaimsFromToken(tokenStr string, secret []byte, now func() time.Time) (*Claims, error) {
	if now == nil {
		now = time.Now
	}
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrUnexpectedSignMethod
		}
		return secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}
