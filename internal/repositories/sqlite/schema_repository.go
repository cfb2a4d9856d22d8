package sqlite

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

// SQLiteSchemaRepository implements SchemaRepository on an embedded SQLite database
type SQLiteSchemaRepository struct {
	db *sql.DB
}

// NewSQLiteSchemaRepository creates a new SQLite schema repository
func NewSQLiteSchemaRepository(db *sql.DB) repositories.SchemaRepository {
	return &SQLiteSchemaRepository{db: db}
}

func (r *SQLiteSchemaRepository) Create(ctx context.Context, appID string, schemaDSL string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate version: %w", err)
	}
	version := id.String()
	now := formatTime(time.Now())

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO schemas (app_id, version, schema_dsl, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		appID, version, schemaDSL, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create schema: %w", err)
	}
	return version, nil
}

func (r *SQLiteSchemaRepository) GetLatestVersion(ctx context.Context, appID string) (*entities.Schema, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT version, schema_dsl, created_at, updated_at FROM schemas WHERE app_id = ? ORDER BY version DESC LIMIT 1`,
		appID)
	return scanSchema(row, appID)
}

func (r *SQLiteSchemaRepository) GetByVersion(ctx context.Context, appID string, version string) (*entities.Schema, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT version, schema_dsl, created_at, updated_at FROM schemas WHERE app_id = ? AND version = ?`,
		appID, version)
	return scanSchema(row, appID)
}

func scanSchema(row *sql.Row, appID string) (*entities.Schema, error) {
	var createdAt, updatedAt string
	schema := &entities.Schema{AppID: appID}
	err := row.Scan(&schema.Version, &schema.DSL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schema for app %s: %w", appID, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	if schema.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if schema.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return schema, nil
}

func (r *SQLiteSchemaRepository) ListVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT version, created_at FROM schemas
		 WHERE app_id = ? AND (? = '' OR version < ?)
		 ORDER BY version DESC LIMIT ?`,
		appID, cursor, cursor, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list schema versions: %w", err)
	}
	defer rows.Close()

	var versions []*entities.SchemaVersion
	for rows.Next() {
		var createdAt string
		v := &entities.SchemaVersion{}
		if err := rows.Scan(&v.Version, &createdAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan schema version: %w", err)
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, "", err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to iterate schema versions: %w", err)
	}

	versions, next := repositories.Page(versions, limit)
	return versions, next, nil
}

func (r *SQLiteSchemaRepository) Delete(ctx context.Context, appID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schemas WHERE app_id = ?`, appID)
	if err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}
	return expectAffected(result, "schema for app "+appID)
}

func expectAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
	}
	return nil
}
