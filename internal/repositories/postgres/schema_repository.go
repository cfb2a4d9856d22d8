package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
)

// PostgresSchemaRepository implements SchemaRepository using PostgreSQL.
// Every write fires a schema_changed notification through a table trigger.
type PostgresSchemaRepository struct {
	db *sql.DB
}

// NewPostgresSchemaRepository creates a new PostgreSQL schema repository
func NewPostgresSchemaRepository(db *sql.DB) repositories.SchemaRepository {
	return &PostgresSchemaRepository{db: db}
}

// Create stores a new schema version for an app
func (r *PostgresSchemaRepository) Create(ctx context.Context, appID string, schemaDSL string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate version: %w", err)
	}
	version := id.String()

	query := `
		INSERT INTO schemas (app_id, version, schema_dsl, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, appID, version, schemaDSL, now); err != nil {
		return "", fmt.Errorf("failed to create schema: %w", err)
	}
	return version, nil
}

// GetLatestVersion retrieves the newest schema version of an app
func (r *PostgresSchemaRepository) GetLatestVersion(ctx context.Context, appID string) (*entities.Schema, error) {
	query := `
		SELECT version, schema_dsl, created_at, updated_at
		FROM schemas
		WHERE app_id = $1
		ORDER BY version DESC
		LIMIT 1
	`
	return r.scanSchema(r.db.QueryRowContext(ctx, query, appID), appID)
}

// GetByVersion retrieves a specific schema version of an app
func (r *PostgresSchemaRepository) GetByVersion(ctx context.Context, appID string, version string) (*entities.Schema, error) {
	query := `
		SELECT version, schema_dsl, created_at, updated_at
		FROM schemas
		WHERE app_id = $1 AND version = $2
	`
	return r.scanSchema(r.db.QueryRowContext(ctx, query, appID, version), appID)
}

func (r *PostgresSchemaRepository) scanSchema(row *sql.Row, appID string) (*entities.Schema, error) {
	schema := &entities.Schema{AppID: appID}
	err := row.Scan(&schema.Version, &schema.DSL, &schema.CreatedAt, &schema.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schema for app %s: %w", appID, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	return schema, nil
}

// ListVersions lists the versions of an app, newest first
func (r *PostgresSchemaRepository) ListVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error) {
	query := `
		SELECT version, created_at
		FROM schemas
		WHERE app_id = $1 AND ($2 = '' OR version < $2)
		ORDER BY version DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, appID, cursor, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list schema versions: %w", err)
	}
	defer rows.Close()

	var versions []*entities.SchemaVersion
	for rows.Next() {
		v := &entities.SchemaVersion{}
		if err := rows.Scan(&v.Version, &v.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan schema version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to iterate schema versions: %w", err)
	}

	versions, next := repositories.Page(versions, limit)
	return versions, next, nil
}

// Delete deletes every schema version of an app
func (r *PostgresSchemaRepository) Delete(ctx context.Context, appID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schemas WHERE app_id = $1`, appID)
	if err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("schema for app %s: %w", appID, repositories.ErrNotFound)
	}
	return nil
}
