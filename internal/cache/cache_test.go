// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, revokedKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	// Port 1 is reserved and never has a Valkey server listening.
	if _, err := ConnectValkey("127.0.0.1", "1", ""); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestRevokedTokensRevokeAndCheck(t *testing.T) {
	client := testValkeyClient(t)
	rt := NewRevokedTokens(client)
	ctx := context.Background()
	id := uuid.NewString()

	revoked, err := rt.IsRevoked(ctx, id)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("fresh token id should not be revoked")
	}

	if err := rt.Revoke(ctx, id, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = rt.IsRevoked(ctx, id)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token id to be revoked")
	}

	ttl, err := client.TTL(ctx, RevokedKey(id)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl in (0, 1m], got %v", ttl)
	}
}

func TestRevokedTokensSkipsExpired(t *testing.T) {
	client := testValkeyClient(t)
	rt := NewRevokedTokens(client)
	ctx := context.Background()
	id := uuid.NewString()

	if err := rt.Revoke(ctx, id, time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	n, err := client.Exists(ctx, RevokedKey(id)).Result()
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if n != 0 {
		t.Error("already expired token should not be stored")
	}
}

func TestRevokedKey(t *testing.T) {
	if got := RevokedKey("abc"); got != "revoked:abc" {
		t.Errorf("RevokedKey: got %q, want %q", got, "revoked:abc")
	}
}

func TestIsRevokedReadsRevokedKey(t *testing.T) {
	client := testValkeyClient(t)
	rt := NewRevokedTokens(client)
	ctx := context.Background()
	id := uuid.NewString()

	// Written by another replica sharing the same Valkey.
	if err := client.Set(ctx, RevokedKey(id), "1", time.Minute).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}

	revoked, err := rt.IsRevoked(ctx, id)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("token stored under RevokedKey should be revoked")
	}
}
