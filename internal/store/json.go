package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Blob keys.
const (
	KeyProgress  = "focusTherapyProgress"
	KeySettings  = "focusTherapySettings"
	KeyChallenge = "weeklyChallenge"
)

// LoadJSON decodes the blob at key into v. It reports false when the key is absent.
func LoadJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and replaces the blob at key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
