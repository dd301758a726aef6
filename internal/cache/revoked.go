// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// revoked.go stores the IDs of logged-out access tokens in Valkey. Each key
// expires together with the token it refers to, so the list never needs
// manual cleanup.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedKeyPrefix is the Valkey key prefix for revoked token IDs.
const revokedKeyPrefix = "revoked:"

// RevokedTokens is a Valkey-backed token revocation list.
type RevokedTokens struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevokedTokens creates a revocation list backed by the given Valkey client.
func NewRevokedTokens(client *redis.Client) *RevokedTokens {
	return &RevokedTokens{client: client, now: time.Now}
}

// Revoke records tokenID as revoked until the given time. Tokens that have
// already expired are not stored.
func (rt *RevokedTokens) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(rt.now())
	if ttl <= 0 {
		return nil
	}
	if err := rt.client.Set(ctx, RevokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	slog.Debug("token revoked", "jti", tokenID, "ttl", ttl)
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (rt *RevokedTokens) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := rt.client.Exists(ctx, RevokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// RevokedKey returns the Valkey key for a token ID.
func RevokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}
