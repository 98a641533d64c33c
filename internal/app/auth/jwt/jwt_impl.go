package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	customErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
	jwt2 "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/jwt"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/config"
)

type JwtUtilImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   string
}

// NewJWTUtil derives the symmetric signing key from the configured secret.
// An empty secret is a fatal configuration error, not a per-call one.
func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.NewInvalidArgument("JWT secret must not be empty")
	}

	return &JwtUtilImpl{
		signingKey: []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.JWTIssuer,
		audience:   cfg.JWTAudience,
	}, nil
}

func (j *JwtUtilImpl) GenerateAccessToken(email string, role model.Role) (token string, exp time.Time, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()

	claims := jwt2.AccessClaims{
		RegisteredClaims: j.registeredClaims(email, now, now.Add(j.accessTTL), jti),
		Role:             string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.signingKey)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

func (j *JwtUtilImpl) GenerateRefreshToken(email string) (token string, exp time.Time, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()

	claims := jwt2.RefreshClaims{
		RegisteredClaims: j.registeredClaims(email, now, now.Add(j.refreshTTL), jti),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.signingKey)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign refresh token")
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

func (j *JwtUtilImpl) VerifyAccessToken(raw string) (jwt2.AccessClaims, error) {
	var claims jwt2.AccessClaims
	if err := j.verify(raw, &claims); err != nil {
		return jwt2.AccessClaims{}, err
	}
	if err := j.checkRegistered(claims.RegisteredClaims); err != nil {
		return jwt2.AccessClaims{}, err
	}
	return claims, nil
}

func (j *JwtUtilImpl) VerifyRefreshToken(raw string) (jwt2.RefreshClaims, error) {
	var claims jwt2.RefreshClaims
	if err := j.verify(raw, &claims); err != nil {
		return jwt2.RefreshClaims{}, err
	}
	if err := j.checkRegistered(claims.RegisteredClaims); err != nil {
		return jwt2.RefreshClaims{}, err
	}
	return claims, nil
}

// IsExpired re-evaluates the expiry claim against the clock at call time.
func (j *JwtUtilImpl) IsExpired(claims jwt.RegisteredClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(time.Now())
}

// Validate is the refresh-redemption gate: signature valid, subject matches
// exactly, not expired.
func (j *JwtUtilImpl) Validate(raw, expectedSubject string) bool {
	claims, err := j.VerifyRefreshToken(raw)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && !j.IsExpired(claims.RegisteredClaims)
}

func (j *JwtUtilImpl) verify(raw string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.signingKey, nil
	}, jwt.WithIssuedAt())

	if err != nil {
		// signature, structure and expiry failures all collapse to one kind;
		// the wrapped text keeps them apart for logs
		return customErrors.WrapInvalidToken(err)
	}
	if !token.Valid {
		return customErrors.ErrInvalidToken
	}
	return nil
}

func (j *JwtUtilImpl) checkRegistered(claims jwt.RegisteredClaims) error {
	if j.issuer != "" && claims.Issuer != j.issuer {
		return customErrors.WrapInvalidToken(errors.New("issuer mismatch"))
	}
	if j.audience != "" {
		found := false
		for _, a := range claims.Audience {
			if a == j.audience {
				found = true
				break
			}
		}
		if !found {
			return customErrors.WrapInvalidToken(errors.New("audience mismatch"))
		}
	}
	return nil
}

func (j *JwtUtilImpl) registeredClaims(subject string, now, exp time.Time, jti string) jwt.RegisteredClaims {
	rc := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        jti,
	}
	if j.issuer != "" {
		rc.Issuer = j.issuer
	}
	if j.audience != "" {
		rc.Audience = jwt.ClaimStrings{j.audience}
	}
	return rc
}
