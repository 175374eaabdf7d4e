package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/docarchive/internal/flagx"
	"github.com/dmitrijs2005/docarchive/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Interval fields use timex.Duration so both "1s" strings and integer
// nanoseconds are accepted. Absent fields leave the current value untouched.
type JsonConfig struct {
	HTTPAddr                    *string         `json:"http_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	PresignExpiry               *timex.Duration `json:"presign_expiry"`
	RedisAddr                   *string         `json:"redis_addr"`
	FieldCacheTTL               *timex.Duration `json:"field_cache_ttl"`
	LogFormat                   *string         `json:"log_format"`
	RequestTimeout              *timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag in args. Without the flag nothing is loaded. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	copyString(&config.HTTPAddr, c.HTTPAddr)
	copyString(&config.DatabaseDSN, c.DatabaseDSN)
	copyString(&config.SecretKey, c.SecretKey)
	copyString(&config.S3RootUser, c.S3RootUser)
	copyString(&config.S3RootPassword, c.S3RootPassword)
	copyString(&config.S3Bucket, c.S3Bucket)
	copyString(&config.S3Region, c.S3Region)
	copyString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	copyString(&config.RedisAddr, c.RedisAddr)
	copyString(&config.LogFormat, c.LogFormat)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.PresignExpiry != nil {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.FieldCacheTTL != nil {
		config.FieldCacheTTL = c.FieldCacheTTL.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}

func copyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
