package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "ARCHIVE_"

// dotEnvFile is loaded when present; a missing file is not an error.
var dotEnvFile = ".env"

// parseEnv overlays Config with ARCHIVE_* environment variables. Variables
// from .env never override ones already set in the process environment.
// Durations use time.ParseDuration syntax; malformed values panic.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotEnvFile)

	setString(&config.HTTPAddr, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.AccessTokenValidityDuration, "TOKEN_TTL")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setDuration(&config.PresignExpiry, "PRESIGN_EXPIRY")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setDuration(&config.FieldCacheTTL, "FIELD_CACHE_TTL")
	setString(&config.LogFormat, "LOG_FORMAT")
	setDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
