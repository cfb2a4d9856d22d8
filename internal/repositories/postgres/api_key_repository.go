package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// PostgresAPIKeyRepository implements APIKeyRepository using PostgreSQL
type PostgresAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgresAPIKeyRepository creates a new PostgreSQL API key repository
func NewPostgresAPIKeyRepository(db *sql.DB) repositories.APIKeyRepository {
	return &PostgresAPIKeyRepository{db: db}
}

func (r *PostgresAPIKeyRepository) Create(ctx context.Context, key *entities.APIKey) error {
	query := `
		INSERT INTO api_keys (id, app_id, description, key_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, key.ID, key.AppID, key.Description, key.KeyHash, key.ExpiresAt.UTC(), key.CreatedAt.UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("api key %s already exists: %w", key.ID, err)
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

func (r *PostgresAPIKeyRepository) GetByID(ctx context.Context, appID string, id string) (*entities.APIKey, error) {
	query := `
		SELECT id, app_id, description, key_hash, expires_at, created_at
		FROM api_keys
		WHERE app_id = $1 AND id = $2
	`
	return scanAPIKey(r.db.QueryRowContext(ctx, query, appID, id))
}

func (r *PostgresAPIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*entities.APIKey, error) {
	query := `
		SELECT id, app_id, description, key_hash, expires_at, created_at
		FROM api_keys
		WHERE key_hash = $1
	`
	return scanAPIKey(r.db.QueryRowContext(ctx, query, keyHash))
}

func (r *PostgresAPIKeyRepository) List(ctx context.Context, appID string) ([]*entities.APIKey, error) {
	query := `
		SELECT id, app_id, description, key_hash, expires_at, created_at
		FROM api_keys
		WHERE app_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*entities.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate api keys: %w", err)
	}
	return keys, nil
}

func (r *PostgresAPIKeyRepository) UpdateExpiration(ctx context.Context, appID string, id string, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET expires_at = $1 WHERE app_id = $2 AND id = $3`,
		expiresAt.UTC(), appID, id)
	if err != nil {
		return fmt.Errorf("failed to update api key: %w", err)
	}
	return expectAffected(result, "api key "+id)
}

func (r *PostgresAPIKeyRepository) Delete(ctx context.Context, appID string, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE app_id = $1 AND id = $2`, appID, id)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	return expectAffected(result, "api key "+id)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAPIKey(row rowScanner) (*entities.APIKey, error) {
	key := &entities.APIKey{}
	err := row.Scan(&key.ID, &key.AppID, &key.Description, &key.KeyHash, &key.ExpiresAt, &key.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("api key: %w", repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan api key: %w", err)
	}
	return key, nil
}

func expectAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
	}
	return nil
}
