package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	customErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-which-is-long-enough",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		JWTIssuer:       "test",
		JWTAudience:     "test",
	}
}

func TestJWTUtil_EmptySecret(t *testing.T) {
	if _, err := NewJWTUtil(&config.Config{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestJWTUtil_GenerateVerifyAccess(t *testing.T) {
	util, err := NewJWTUtil(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	token, exp, jti, err := util.GenerateAccessToken("doc@h.com", model.RoleDoctor)
	if err != nil || exp.IsZero() || jti == "" {
		t.Fatalf("bad generate: %v", err)
	}
	claims, err := util.VerifyAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "doc@h.com" {
		t.Fatalf("want doc@h.com got %s", claims.Subject)
	}
	if claims.Role != string(model.RoleDoctor) {
		t.Fatalf("want DOCTOR got %s", claims.Role)
	}
}

func TestJWTUtil_RefreshCycle(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	rTok, exp, jti, err := util.GenerateRefreshToken("pat@h.com")
	if err != nil || exp.IsZero() || jti == "" {
		t.Fatalf("bad generate: %v", err)
	}
	cl, err := util.VerifyRefreshToken(rTok)
	if err != nil || cl.Subject != "pat@h.com" {
		t.Fatalf("validate error: %v", err)
	}
	if !util.Validate(rTok, "pat@h.com") {
		t.Fatal("expected valid")
	}
	if util.Validate(rTok, "other@h.com") {
		t.Fatal("subject mismatch must fail")
	}
}

func TestJWTUtil_VerifyErrors(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())

	if _, err := util.VerifyAccessToken("bad"); !customErrors.IsInvalidToken(err) {
		t.Fatalf("malformed token: want invalid token, got %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret-entirely"
	other, _ := NewJWTUtil(otherCfg)
	tok, _, _, _ := other.GenerateAccessToken("a@x.com", model.RolePatient)
	if _, err := util.VerifyAccessToken(tok); !customErrors.IsInvalidToken(err) {
		t.Fatalf("foreign signature: want invalid token, got %v", err)
	}
}

func TestJWTUtil_InvalidAlg(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"sub": "a@x.com"}).
		SignedString([]byte("test-secret-which-is-long-enough"))
	if _, err := util.VerifyAccessToken(token); err == nil {
		t.Fatal("expected invalid alg")
	}
}

func TestJWTUtil_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Second
	cfg.RefreshTokenTTL = -time.Second
	util, _ := NewJWTUtil(cfg)

	tok, _, _, err := util.GenerateAccessToken("a@x.com", model.RolePatient)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := util.VerifyAccessToken(tok); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expired token: want invalid token, got %v", err)
	}

	rTok, _, _, _ := util.GenerateRefreshToken("a@x.com")
	if util.Validate(rTok, "a@x.com") {
		t.Fatal("expired refresh token must not validate")
	}
}

func TestJWTUtil_IsExpired(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	past := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Second))}
	if !util.IsExpired(past) {
		t.Fatal("past expiry must be expired")
	}
	future := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}
	if util.IsExpired(future) {
		t.Fatal("future expiry must not be expired")
	}
	if !util.IsExpired(jwt.RegisteredClaims{}) {
		t.Fatal("missing expiry must count as expired")
	}
}

func TestJWTUtil_IssuerAudienceMismatch(t *testing.T) {
	cfg := testConfig()
	util, _ := NewJWTUtil(cfg)

	otherCfg := *cfg
	otherCfg.JWTIssuer = "wrong"
	other, _ := NewJWTUtil(&otherCfg)
	tok, _, _, _ := other.GenerateAccessToken("a@x.com", model.RolePatient)
	if _, err := util.VerifyAccessToken(tok); err == nil {
		t.Fatal("expected issuer error")
	}

	audCfg := *cfg
	audCfg.JWTAudience = "other"
	audUtil, _ := NewJWTUtil(&audCfg)
	rTok, _, _, _ := audUtil.GenerateRefreshToken("a@x.com")
	if _, err := util.VerifyRefreshToken(rTok); err == nil {
		t.Fatal("expected audience error")
	}
}
