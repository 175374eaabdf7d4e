// Package cache keeps document-type field schemas in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "doctype:fields:"

// Client is the part of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Connect dials addr and checks the server answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// FieldSchemaCache stores field lists as JSON under doctype:fields:<name>.
type FieldSchemaCache struct {
	client Client
	ttl    time.Duration
}

func NewFieldSchemaCache(client Client, ttl time.Duration) *FieldSchemaCache {
	return &FieldSchemaCache{client: client, ttl: ttl}
}

func Key(typeName string) string {
	return keyPrefix + typeName
}

func (c *FieldSchemaCache) Get(ctx context.Context, typeName string) ([]models.FieldDef, bool, error) {
	raw, err := c.client.Get(ctx, Key(typeName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read field schema: %w", err)
	}

	var fields []models.FieldDef
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false, fmt.Errorf("failed to decode field schema: %w", err)
	}
	if fields == nil {
		fields = []models.FieldDef{}
	}
	return fields, true, nil
}

func (c *FieldSchemaCache) Set(ctx context.Context, typeName string, fields []models.FieldDef) error {
	if fields == nil {
		fields = []models.FieldDef{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode field schema: %w", err)
	}
	if err := c.client.Set(ctx, Key(typeName), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write field schema: %w", err)
	}
	return nil
}
