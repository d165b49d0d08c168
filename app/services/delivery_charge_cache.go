package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type DeliveryQuote struct {
	Charge decimal.Decimal `json:"charge"`
	IsFree bool            `json:"is_free"`
}

type DeliveryChargeCache interface {
	Get(ctx context.Context, addressID string, finalTotal decimal.Decimal) (*DeliveryQuote, bool)
	Set(ctx context.Context, addressID string, finalTotal decimal.Decimal, quote DeliveryQuote)
}

// redisKV is the part of *redis.Client the cache uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisDeliveryChargeCache struct {
	client redisKV
	ttl    time.Duration
}

// NewDeliveryChargeCache falls back to a no-op cache when client is nil.
func NewDeliveryChargeCache(client *redis.Client, ttl time.Duration) DeliveryChargeCache {
	if client == nil {
		return noopDeliveryChargeCache{}
	}
	return &redisDeliveryChargeCache{client: client, ttl: ttl}
}

func deliveryChargeKey(addressID string, finalTotal decimal.Decimal) string {
	return fmt.Sprintf("delivery_charge:%s:%s", addressID, finalTotal.StringFixed(2))
}

func (c *redisDeliveryChargeCache) Get(ctx context.Context, addressID string, finalTotal decimal.Decimal) (*DeliveryQuote, bool) {
	raw, err := c.client.Get(ctx, deliveryChargeKey(addressID, finalTotal)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("address_id", addressID).Msg("delivery charge cache read failed")
		}
		return nil, false
	}
	var quote DeliveryQuote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		log.Warn().Err(err).Str("address_id", addressID).Msg("delivery charge cache entry corrupt")
		return nil, false
	}
	return &quote, true
}

func (c *redisDeliveryChargeCache) Set(ctx context.Context, addressID string, finalTotal decimal.Decimal, quote DeliveryQuote) {
	payload, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, deliveryChargeKey(addressID, finalTotal), payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("address_id", addressID).Msg("delivery charge cache write failed")
	}
}

type noopDeliveryChargeCache struct{}

func (noopDeliveryChargeCache) Get(context.Context, string, decimal.Decimal) (*DeliveryQuote, bool) {
	return nil, false
}

func (noopDeliveryChargeCache) Set(context.Context, string, decimal.Decimal, DeliveryQuote) {}
