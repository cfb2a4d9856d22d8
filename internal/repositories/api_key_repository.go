package repositories

import (
	"context"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
)

// APIKeyRepository defines the interface for API key storage.
// Only key hashes are stored; the plaintext key never reaches the repository.
type APIKeyRepository interface {
	Create(ctx context.Context, key *entities.APIKey) error
	GetByID(ctx context.Context, appID string, id string) (*entities.APIKey, error)
	GetByHash(ctx context.Context, keyHash string) (*entities.APIKey, error)
	// List returns the keys of an app, oldest first
	List(ctx context.Context, appID string) ([]*entities.APIKey, error)
	UpdateExpiration(ctx context.Context, appID string, id string, expiresAt time.Time) error
	Delete(ctx context.Context, appID string, id string) error
}
