package repositories

import (
	"context"

	"github.com/regpulse/dataschema/internal/entities"
)

// SchemaRepository defines the interface for schema version storage
type SchemaRepository interface {
	// Create stores dsl as a new schema version for an app and returns the version ID
	Create(ctx context.Context, appID string, schemaDSL string) (string, error)

	// GetLatestVersion retrieves the most recent schema version of an app
	GetLatestVersion(ctx context.Context, appID string) (*entities.Schema, error)

	// GetByVersion retrieves a specific schema version of an app
	GetByVersion(ctx context.Context, appID string, version string) (*entities.Schema, error)

	// ListVersions lists versions newest first, starting after cursor (a version ID).
	// The returned cursor is empty when there are no more versions.
	ListVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error)

	// Delete deletes every schema version of an app
	Delete(ctx context.Context, appID string) error
}
