package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
)

const apiKeyColumns = `id, app_id, description, key_hash, expires_at, created_at`

// SQLiteAPIKeyRepository implements APIKeyRepository on an embedded SQLite database
type SQLiteAPIKeyRepository struct {
	db *sql.DB
}

// NewSQLiteAPIKeyRepository creates a new SQLite API key repository
func NewSQLiteAPIKeyRepository(db *sql.DB) repositories.APIKeyRepository {
	return &SQLiteAPIKeyRepository{db: db}
}

func (r *SQLiteAPIKeyRepository) Create(ctx context.Context, key *entities.APIKey) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (`+apiKeyColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		key.ID, key.AppID, key.Description, key.KeyHash, formatTime(key.ExpiresAt), formatTime(key.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

func (r *SQLiteAPIKeyRepository) GetByID(ctx context.Context, appID string, id string) (*entities.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE app_id = ? AND id = ?`, appID, id)
	return scanAPIKey(row)
}

func (r *SQLiteAPIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*entities.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, keyHash)
	return scanAPIKey(row)
}

func (r *SQLiteAPIKeyRepository) List(ctx context.Context, appID string) ([]*entities.APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE app_id = ? ORDER BY created_at, id`, appID)
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

func (r *SQLiteAPIKeyRepository) UpdateExpiration(ctx context.Context, appID string, id string, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET expires_at = ? WHERE app_id = ? AND id = ?`,
		formatTime(expiresAt), appID, id)
	if err != nil {
		return fmt.Errorf("failed to update api key: %w", err)
	}
	return expectAffected(result, "api key "+id)
}

func (r *SQLiteAPIKeyRepository) Delete(ctx context.Context, appID string, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE app_id = ? AND id = ?`, appID, id)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	return expectAffected(result, "api key "+id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAPIKey(row rowScanner) (*entities.APIKey, error) {
	var expiresAt, createdAt string
	key := &entities.APIKey{}
	err := row.Scan(&key.ID, &key.AppID, &key.Description, &key.KeyHash, &expiresAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("api key: %w", repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan api key: %w", err)
	}
	if key.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if key.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return key, nil
}
