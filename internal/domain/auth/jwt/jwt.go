package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
)

type AccessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// JWTUtil owns the signing key and the expiry policy. Tokens are
// self-contained: verification is a pure function of (claims, key, now).
type JWTUtil interface {
	GenerateAccessToken(email string, role model.Role) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken(email string) (token string, exp time.Time, jti string, err error)
	VerifyAccessToken(token string) (AccessClaims, error)
	VerifyRefreshToken(token string) (RefreshClaims, error)
	IsExpired(claims jwt.RegisteredClaims) bool
	Validate(token, expectedSubject string) bool
}
