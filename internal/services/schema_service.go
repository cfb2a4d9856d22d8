package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
	"github.com/regpulse/dataschema/internal/services/codegen"
	"github.com/regpulse/dataschema/internal/services/parser"
	"github.com/regpulse/dataschema/pkg/cache"
)

// Version listing bounds
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// CompileTarget selects the artifact CompileSchema produces
type CompileTarget string

const (
	TargetGraphQL       CompileTarget = "graphql"
	TargetIntrospection CompileTarget = "introspection"
	TargetDSL           CompileTarget = "dsl"
)

// ParseCompileTarget validates a target name
func ParseCompileTarget(s string) (CompileTarget, error) {
	switch t := CompileTarget(s); t {
	case TargetGraphQL, TargetIntrospection, TargetDSL:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown compile target %q (expected graphql, introspection or dsl)", ErrInvalidArgument, s)
}

// CompiledSchema is the output of CompileSchema
type CompiledSchema struct {
	AppID   string
	Version string
	Target  CompileTarget
	Content string
}

// SchemaServiceInterface defines the interface for schema management operations
type SchemaServiceInterface interface {
	WriteSchema(ctx context.Context, appID string, schemaDSL string) (string, error)
	ReadSchema(ctx context.Context, appID string) (*entities.Schema, error)
	ValidateSchema(ctx context.Context, schemaDSL string) error
	DeleteSchema(ctx context.Context, appID string) error
	GetSchemaEntity(ctx context.Context, appID string, version string) (*entities.Schema, error)
	ListSchemaVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error)
	CompileSchema(ctx context.Context, appID string, version string, target CompileTarget) (*CompiledSchema, error)
}

// SchemaService handles schema management operations
type SchemaService struct {
	schemaRepo repositories.SchemaRepository
	cache      cache.Cache[*entities.Schema]
	cacheTTL   time.Duration
	log        zerolog.Logger
	metrics    MetricsRecorder
}

// SchemaServiceOption configures a SchemaService
type SchemaServiceOption func(*SchemaService)

// WithSchemaCache caches parsed schemas; entries expire after ttl
func WithSchemaCache(c cache.Cache[*entities.Schema], ttl time.Duration) SchemaServiceOption {
	return func(s *SchemaService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithSchemaLogger sets the service logger
func WithSchemaLogger(log zerolog.Logger) SchemaServiceOption {
	return func(s *SchemaService) { s.log = log }
}

// WithSchemaMetrics records schema writes
func WithSchemaMetrics(m MetricsRecorder) SchemaServiceOption {
	return func(s *SchemaService) { s.metrics = m }
}

// NewSchemaService creates a new SchemaService
func NewSchemaService(schemaRepo repositories.SchemaRepository, opts ...SchemaServiceOption) *SchemaService {
	s := &SchemaService{
		schemaRepo: schemaRepo,
		log:        zerolog.Nop(),
		metrics:    nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func latestKey(appID string) string { return "latest:" + appID }
func versionKey(appID, version string) string { return versionPrefix(appID) + version }
func versionPrefix(appID string) string { return "schema:" + appID + ":" }

// WriteSchema parses DSL, validates it, and creates a new schema version
func (s *SchemaService) WriteSchema(ctx context.Context, appID string, schemaDSL string) (string, error) {
	if appID == "" {
		return "", fmt.Errorf("%w: app ID is required", ErrInvalidArgument)
	}
	if schemaDSL == "" {
		return "", fmt.Errorf("%w: schema DSL is required", ErrInvalidArgument)
	}

	if _, err := parser.Load(appID, schemaDSL); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Every write creates a new immutable version
	version, err := s.schemaRepo.Create(ctx, appID, schemaDSL)
	if err != nil {
		return "", fmt.Errorf("failed to create schema version: %w", err)
	}

	s.Invalidate(appID, false)
	s.metrics.RecordSchemaWrite(appID)
	s.log.Info().Str("app", appID).Str("version", version).Msg("schema version written")

	return version, nil
}

// ReadSchema retrieves the latest schema of an app, parsed, with its declaration text in DSL
func (s *SchemaService) ReadSchema(ctx context.Context, appID string) (*entities.Schema, error) {
	return s.GetSchemaEntity(ctx, appID, "")
}

// ValidateSchema validates a DSL string without saving it
func (s *SchemaService) ValidateSchema(ctx context.Context, schemaDSL string) error {
	if schemaDSL == "" {
		return fmt.Errorf("%w: schema DSL is required", ErrInvalidArgument)
	}
	if _, err := parser.Load(entities.DefaultAppID, schemaDSL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// DeleteSchema deletes every schema version of an app
func (s *SchemaService) DeleteSchema(ctx context.Context, appID string) error {
	if appID == "" {
		return fmt.Errorf("%w: app ID is required", ErrInvalidArgument)
	}

	if err := s.schemaRepo.Delete(ctx, appID); err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}

	s.Invalidate(appID, true)
	s.log.Info().Str("app", appID).Msg("schema deleted")
	return nil
}

// GetSchemaEntity retrieves the parsed schema of an app.
// version="" means the latest version.
func (s *SchemaService) GetSchemaEntity(ctx context.Context, appID string, version string) (*entities.Schema, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: app ID is required", ErrInvalidArgument)
	}

	key := latestKey(appID)
	if version != "" {
		key = versionKey(appID, version)
	}
	if s.cache != nil {
		if schema, ok := s.cache.Get(ctx, key); ok {
			return schema, nil
		}
	}

	var stored *entities.Schema
	var err error
	if version == "" {
		stored, err = s.schemaRepo.GetLatestVersion(ctx, appID)
	} else {
		stored, err = s.schemaRepo.GetByVersion(ctx, appID, version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	parsed, err := parser.Load(appID, stored.DSL)
	if err != nil {
		return nil, fmt.Errorf("stored schema %s is invalid: %w", stored.Version, err)
	}
	parsed.Version = stored.Version
	parsed.CreatedAt = stored.CreatedAt
	parsed.UpdatedAt = stored.UpdatedAt

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, parsed, s.cacheTTL)
		if version == "" {
			_ = s.cache.Set(ctx, versionKey(appID, parsed.Version), parsed, s.cacheTTL)
		}
	}
	return parsed, nil
}

// ListSchemaVersions lists the versions of an app, newest first
func (s *SchemaService) ListSchemaVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error) {
	if appID == "" {
		return nil, "", fmt.Errorf("%w: app ID is required", ErrInvalidArgument)
	}
	switch {
	case limit == 0:
		limit = DefaultListLimit
	case limit < 0 || limit > MaxListLimit:
		return nil, "", fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidArgument, MaxListLimit, limit)
	}

	versions, next, err := s.schemaRepo.ListVersions(ctx, appID, limit, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list schema versions: %w", err)
	}
	return versions, next, nil
}

// CompileSchema renders a stored schema version into target
func (s *SchemaService) CompileSchema(ctx context.Context, appID string, version string, target CompileTarget) (*CompiledSchema, error) {
	if _, err := ParseCompileTarget(string(target)); err != nil {
		return nil, err
	}

	schema, err := s.GetSchemaEntity(ctx, appID, version)
	if err != nil {
		return nil, err
	}

	var content string
	switch target {
	case TargetGraphQL:
		content, err = codegen.GenerateGraphQL(schema)
	case TargetIntrospection:
		var data []byte
		data, err = codegen.IntrospectionJSON(schema)
		content = string(data)
	case TargetDSL:
		content, err = parser.Format(schema.DSL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema to %s: %w", target, err)
	}

	return &CompiledSchema{
		AppID:   appID,
		Version: schema.Version,
		Target:  target,
		Content: content,
	}, nil
}

// Invalidate drops cached entries of an app after a change made here or by another instance
func (s *SchemaService) Invalidate(appID string, deleted bool) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	_ = s.cache.Delete(ctx, latestKey(appID))
	if deleted {
		s.cache.DeletePrefix(ctx, versionPrefix(appID))
	}
}

// InvalidateAll drops every cached schema
func (s *SchemaService) InvalidateAll() {
	if s.cache != nil {
		_ = s.cache.Clear(context.Background())
	}
}
