package entities

import (
	"fmt"
	"time"
)

// APIKey represents a shared API key issued for an app
type APIKey struct {
	ID          string    // Key identifier (UUIDv7)
	AppID       string    // App the key belongs to
	Description string    // Free-text description
	KeyHash     string    // Hex SHA-256 of the key
	Key         string    // Plaintext key; only set right after creation
	ExpiresAt   time.Time // Key is rejected from this instant on
	CreatedAt   time.Time
}

// IsExpired reports whether the key is expired at now
func (k *APIKey) IsExpired(now time.Time) bool {
	return !now.Before(k.ExpiresAt)
}

// Validate checks that the key record is complete
func (k *APIKey) Validate() error {
	if k.ID == "" {
		return fmt.Errorf("id is required")
	}
	if k.AppID == "" {
		return fmt.Errorf("app id is required")
	}
	if k.KeyHash == "" {
		return fmt.Errorf("key hash is required")
	}
	if k.ExpiresAt.IsZero() {
		return fmt.Errorf("expiry is required")
	}
	if !k.CreatedAt.IsZero() && !k.ExpiresAt.After(k.CreatedAt) {
		return fmt.Errorf("expiry must be after creation")
	}
	if lifetime := k.ExpiresAt.Sub(k.CreatedAt); !k.CreatedAt.IsZero() && lifetime > MaxAPIKeyExpiresInDays*24*time.Hour {
		return fmt.Errorf("key lifetime must not exceed %d days", MaxAPIKeyExpiresInDays)
	}
	return nil
}
