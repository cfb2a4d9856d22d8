package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/infrastructure/metrics"
	"github.com/regpulse/dataschema/internal/repositories"
)

// APIKeyPrefix starts every issued key
const APIKeyPrefix = "da2-"

var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// APIKeyServiceInterface defines the interface for API key management
type APIKeyServiceInterface interface {
	CreateKey(ctx context.Context, appID string, description string, expiresInDays int) (*entities.APIKey, error)
	ListKeys(ctx context.Context, appID string) ([]*entities.APIKey, error)
	DeleteKey(ctx context.Context, appID string, id string) error
	ExtendKey(ctx context.Context, appID string, id string, expiresInDays int) (*entities.APIKey, error)
	Authenticate(ctx context.Context, key string) (*entities.APIKey, error)
}

// SchemaReader resolves the schema an app has deployed
type SchemaReader interface {
	GetSchemaEntity(ctx context.Context, appID string, version string) (*entities.Schema, error)
}

// APIKeyService issues and checks shared API keys
type APIKeyService struct {
	repo        repositories.APIKeyRepository
	schemas     SchemaReader
	defaultDays int
	now         func() time.Time
	log         zerolog.Logger
	metrics     MetricsRecorder
}

// APIKeyServiceOption configures an APIKeyService
type APIKeyServiceOption func(*APIKeyService)

// WithAPIKeyLogger sets the service logger
func WithAPIKeyLogger(log zerolog.Logger) APIKeyServiceOption {
	return func(s *APIKeyService) { s.log = log }
}

// WithAPIKeyMetrics records authentication failures
func WithAPIKeyMetrics(m MetricsRecorder) APIKeyServiceOption {
	return func(s *APIKeyService) { s.metrics = m }
}

// WithSchemaLifetimes makes keys issued without a lifetime follow the
// apiKey expiresInDays of the app's latest schema
func WithSchemaLifetimes(schemas SchemaReader) APIKeyServiceOption {
	return func(s *APIKeyService) { s.schemas = schemas }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) APIKeyServiceOption {
	return func(s *APIKeyService) { s.now = now }
}

// NewAPIKeyService creates a new APIKeyService. defaultDays applies when a
// caller asks for a key without naming a lifetime and the app has no schema
// declaring one.
func NewAPIKeyService(repo repositories.APIKeyRepository, defaultDays int, opts ...APIKeyServiceOption) *APIKeyService {
	if defaultDays <= 0 {
		defaultDays = entities.DefaultAPIKeyExpiresInDays
	}
	s := &APIKeyService{
		repo:        repo,
		defaultDays: defaultDays,
		now:         time.Now,
		log:         zerolog.Nop(),
		metrics:     nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashKey returns the stored form of a key
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func generateKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return APIKeyPrefix + strings.ToLower(keyEncoding.EncodeToString(buf)), nil
}

// expiry returns when a key of appID issued at now expires. days=0 takes the
// lifetime declared by the app's schema, or the configured default.
func (s *APIKeyService) expiry(ctx context.Context, appID string, days int, now time.Time) (time.Time, error) {
	if days != 0 {
		if days < entities.MinAPIKeyExpiresInDays || days > entities.MaxAPIKeyExpiresInDays {
			return time.Time{}, fmt.Errorf("%w: expiresInDays must be between %d and %d, got %d",
				ErrInvalidArgument, entities.MinAPIKeyExpiresInDays, entities.MaxAPIKeyExpiresInDays, days)
		}
		return now.AddDate(0, 0, days), nil
	}

	if s.schemas != nil {
		schema, err := s.schemas.GetSchemaEntity(ctx, appID, "")
		switch {
		case errors.Is(err, repositories.ErrNotFound):
		case err != nil:
			return time.Time{}, fmt.Errorf("failed to resolve key lifetime: %w", err)
		case schema.Authorization != nil && schema.Authorization.APIKey != nil:
			return schema.Authorization.APIKey.ExpiresAt(now), nil
		}
	}
	return now.AddDate(0, 0, s.defaultDays), nil
}

// CreateKey issues a new key. The returned key carries the plaintext, which is not stored.
func (s *APIKeyService) CreateKey(ctx context.Context, appID string, description string, expiresInDays int) (*entities.APIKey, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: app ID is required", ErrInvalidArgument)
	}
	now := s.now().UTC()
	expiresAt, err := s.expiry(ctx, appID, expiresInDays, now)
	if err != nil {
		return nil, err
	}

	plaintext, err := generateKey()
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key id: %w", err)
	}

	key := &entities.APIKey{
		ID:          id.String(),
		AppID:       appID,
		Description: description,
		KeyHash:     HashKey(plaintext),
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	s.log.Info().Str("app", appID).Str("key_id", key.ID).Time("expires_at", key.ExpiresAt).Msg("api key created")

	key.Key = plaintext
	return key, nil
}

// ListKeys lists the keys of an app without their plaintext
func (s *APIKeyService) ListKeys(ctx context.Context, appID string) ([]*entities.APIKey, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: app ID is required", ErrInvalidArgument)
	}
	keys, err := s.repo.List(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// DeleteKey revokes a key
func (s *APIKeyService) DeleteKey(ctx context.Context, appID string, id string) error {
	if appID == "" || id == "" {
		return fmt.Errorf("%w: app ID and key ID are required", ErrInvalidArgument)
	}
	if err := s.repo.Delete(ctx, appID, id); err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	s.log.Info().Str("app", appID).Str("key_id", id).Msg("api key deleted")
	return nil
}

// ExtendKey moves the expiry of a key to expiresInDays from now
func (s *APIKeyService) ExtendKey(ctx context.Context, appID string, id string, expiresInDays int) (*entities.APIKey, error) {
	if appID == "" || id == "" {
		return nil, fmt.Errorf("%w: app ID and key ID are required", ErrInvalidArgument)
	}
	expiresAt, err := s.expiry(ctx, appID, expiresInDays, s.now().UTC())
	if err != nil {
		return nil, err
	}

	key, err := s.repo.GetByID(ctx, appID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	if err := s.repo.UpdateExpiration(ctx, appID, id, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to extend api key: %w", err)
	}
	key.ExpiresAt = expiresAt

	s.log.Info().Str("app", appID).Str("key_id", id).Time("expires_at", expiresAt).Msg("api key extended")
	return key, nil
}

// Authenticate resolves a presented key
func (s *APIKeyService) Authenticate(ctx context.Context, key string) (*entities.APIKey, error) {
	if key == "" {
		s.metrics.RecordAuthFailure(metrics.ReasonMissing)
		return nil, ErrInvalidAPIKey
	}

	stored, err := s.repo.GetByHash(ctx, HashKey(key))
	if errors.Is(err, repositories.ErrNotFound) {
		s.metrics.RecordAuthFailure(metrics.ReasonInvalid)
		return nil, ErrInvalidAPIKey
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}

	if stored.IsExpired(s.now()) {
		s.metrics.RecordAuthFailure(metrics.ReasonExpired)
		return nil, ErrAPIKeyExpired
	}
	return stored, nil
}

// EnsureKey issues a key for appID when the app has no unexpired key.
// created reports whether a new key (carrying its plaintext) was issued.
func (s *APIKeyService) EnsureKey(ctx context.Context, appID string) (key *entities.APIKey, created bool, err error) {
	keys, err := s.ListKeys(ctx, appID)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	for _, k := range keys {
		if !k.IsExpired(now) {
			return k, false, nil
		}
	}

	key, err = s.CreateKey(ctx, appID, "bootstrap", 0)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}
