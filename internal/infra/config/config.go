package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SessionTTL      time.Duration

	GatewaySecret       string
	GatewaySecretHeader string

	HTTPAddress   string
	HTTPSCertFile string
	HTTPSKeyFile  string

	PasswordPepper   string
	AllowedOrigins   []string
	AllowCredentials bool

	// RefreshRotationRevoke makes refresh redemption revoke the redeemed
	// token's JTI. Off by default: a rotated-out refresh token then stays
	// usable until its own expiry.
	RefreshRotationRevoke bool
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	for _, key := range []string{
		"DATABASE_URL",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "SESSION_TTL",
		"GATEWAY_SECRET", "GATEWAY_SECRET_HEADER",
		"HTTP_ADDRESS", "HTTPS_CERT_FILE", "HTTPS_KEY_FILE",
		"PASSWORD_PEPPER", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
		"REFRESH_ROTATION_REVOKE",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("GATEWAY_SECRET_HEADER", "X-Gateway-Secret")
	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("SESSION_TTL", "24h")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for _, key := range []string{
		"DATABASE_URL", "REDIS_ADDRESS", "JWT_SECRET",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "GATEWAY_SECRET",
	} {
		if viper.GetString(key) == "" {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	cfg := &Config{
		DatabaseURL:           viper.GetString("DATABASE_URL"),
		RedisAddress:          viper.GetString("REDIS_ADDRESS"),
		RedisPassword:         viper.GetString("REDIS_PASSWORD"),
		RedisDB:               viper.GetInt("REDIS_DB"),
		JWTSecret:             viper.GetString("JWT_SECRET"),
		JWTIssuer:             viper.GetString("JWT_ISSUER"),
		JWTAudience:           viper.GetString("JWT_AUDIENCE"),
		AccessTokenTTL:        viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:       viper.GetDuration("REFRESH_TOKEN_TTL"),
		SessionTTL:            viper.GetDuration("SESSION_TTL"),
		GatewaySecret:         viper.GetString("GATEWAY_SECRET"),
		GatewaySecretHeader:   viper.GetString("GATEWAY_SECRET_HEADER"),
		HTTPAddress:           viper.GetString("HTTP_ADDRESS"),
		HTTPSCertFile:         viper.GetString("HTTPS_CERT_FILE"),
		HTTPSKeyFile:          viper.GetString("HTTPS_KEY_FILE"),
		PasswordPepper:        viper.GetString("PASSWORD_PEPPER"),
		AllowedOrigins:        viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:      viper.GetBool("ALLOW_CREDENTIALS"),
		RefreshRotationRevoke: viper.GetBool("REFRESH_ROTATION_REVOKE"),
	}

	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}

	return cfg, nil
}
