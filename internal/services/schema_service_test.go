package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
	"github.com/regpulse/dataschema/pkg/cache/memorycache"
)

// Mock SchemaRepository
type mockSchemaRepository struct {
	versions map[string][]*entities.Schema // newest last
	seq      int
	gets     int
}

func newMockSchemaRepository() *mockSchemaRepository {
	return &mockSchemaRepository{
		versions: make(map[string][]*entities.Schema),
	}
}

func (m *mockSchemaRepository) Create(ctx context.Context, appID string, schemaDSL string) (string, error) {
	m.seq++
	version := fmt.Sprintf("v%04d", m.seq)
	m.versions[appID] = append(m.versions[appID], &entities.Schema{
		AppID:     appID,
		Version:   version,
		DSL:       schemaDSL,
		CreatedAt: time.Now(),
	})
	return version, nil
}

func (m *mockSchemaRepository) GetLatestVersion(ctx context.Context, appID string) (*entities.Schema, error) {
	m.gets++
	versions := m.versions[appID]
	if len(versions) == 0 {
		return nil, repositories.ErrNotFound
	}
	return versions[len(versions)-1], nil
}

func (m *mockSchemaRepository) GetByVersion(ctx context.Context, appID string, version string) (*entities.Schema, error) {
	m.gets++
	for _, s := range m.versions[appID] {
		if s.Version == version {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSchemaRepository) ListVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error) {
	var out []*entities.SchemaVersion
	versions := m.versions[appID]
	for i := len(versions) - 1; i >= 0; i-- {
		if cursor != "" && versions[i].Version >= cursor {
			continue
		}
		out = append(out, &entities.SchemaVersion{Version: versions[i].Version, CreatedAt: versions[i].CreatedAt})
		if len(out) == limit+1 {
			break
		}
	}
	page, next := repositories.Page(out, limit)
	return page, next, nil
}

func (m *mockSchemaRepository) Delete(ctx context.Context, appID string) error {
	if _, ok := m.versions[appID]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.versions, appID)
	return nil
}

type recordingMetrics struct {
	writes   []string
	failures []string
}

func (r *recordingMetrics) RecordSchemaWrite(appID string)  { r.writes = append(r.writes, appID) }
func (r *recordingMetrics) RecordAuthFailure(reason string) { r.failures = append(r.failures, reason) }

const serviceTestSchema = `
model Workspace {
  name: String!
}
`

const serviceTestSchemaV2 = `
model Workspace {
  name: String!
  slug: String
}
`

func TestSchemaService_WriteSchema(t *testing.T) {
	repo := newMockSchemaRepository()
	rec := &recordingMetrics{}
	service := NewSchemaService(repo, WithSchemaMetrics(rec))

	version, err := service.WriteSchema(context.Background(), "app-1", serviceTestSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version == "" {
		t.Fatal("expected a version")
	}

	schema, err := repo.GetLatestVersion(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.DSL != serviceTestSchema {
		t.Errorf("schema DSL mismatch: got %s, want %s", schema.DSL, serviceTestSchema)
	}
	if len(rec.writes) != 1 || rec.writes[0] != "app-1" {
		t.Errorf("recorded writes = %v, want [app-1]", rec.writes)
	}
}

func TestSchemaService_WriteSchema_EveryWriteIsNewVersion(t *testing.T) {
	repo := newMockSchemaRepository()
	service := NewSchemaService(repo)
	ctx := context.Background()

	v1, err := service.WriteSchema(ctx, "app-1", serviceTestSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := service.WriteSchema(ctx, "app-1", serviceTestSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 == v2 {
		t.Errorf("expected distinct versions, both were %s", v1)
	}
	if got := len(repo.versions["app-1"]); got != 2 {
		t.Errorf("stored versions = %d, want 2", got)
	}
}

func TestSchemaService_WriteSchema_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		appID string
		dsl   string
	}{
		{"empty app", "", serviceTestSchema},
		{"empty dsl", "app-1", ""},
		{"syntax error", "app-1", "model {"},
		{"unknown type", "app-1", "model A {\n  b: Missing\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockSchemaRepository()
			service := NewSchemaService(repo)

			_, err := service.WriteSchema(context.Background(), tt.appID, tt.dsl)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if len(repo.versions) != 0 {
				t.Error("invalid schema must not be stored")
			}
		})
	}
}

func TestSchemaService_ReadSchema_NotFound(t *testing.T) {
	service := NewSchemaService(newMockSchemaRepository())

	_, err := service.ReadSchema(context.Background(), "missing")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchemaService_ReadSchema_Parsed(t *testing.T) {
	repo := newMockSchemaRepository()
	service := NewSchemaService(repo)
	ctx := context.Background()

	version, err := service.WriteSchema(ctx, "app-1", serviceTestSchema)
	if err != nil {
		t.Fatalf("WriteSchema failed: %v", err)
	}

	schema, err := service.ReadSchema(ctx, "app-1")
	if err != nil {
		t.Fatalf("ReadSchema failed: %v", err)
	}
	if schema.Version != version || schema.DSL != serviceTestSchema {
		t.Errorf("ReadSchema = version %s, dsl %q", schema.Version, schema.DSL)
	}
	if schema.Authorization == nil || schema.Authorization.APIKey == nil {
		t.Fatal("ReadSchema returned no authorization")
	}
	if schema.GetModel("Workspace") == nil {
		t.Error("ReadSchema returned no models")
	}
}

func TestSchemaService_ValidateSchema(t *testing.T) {
	service := NewSchemaService(newMockSchemaRepository())

	if err := service.ValidateSchema(context.Background(), serviceTestSchema); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := service.ValidateSchema(context.Background(), "model A {"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSchemaService_GetSchemaEntity_Cached(t *testing.T) {
	repo := newMockSchemaRepository()
	c := memorycache.New(&memorycache.Config[*entities.Schema]{MaxSizeBytes: 1 << 20, DefaultTTL: time.Minute})
	service := NewSchemaService(repo, WithSchemaCache(c, 0))
	ctx := context.Background()

	version, err := service.WriteSchema(ctx, "app-1", serviceTestSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := service.GetSchemaEntity(ctx, "app-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Version != version || first.GetModel("Workspace") == nil {
		t.Fatalf("unexpected schema: %+v", first)
	}

	if _, err := service.GetSchemaEntity(ctx, "app-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.GetSchemaEntity(ctx, "app-1", version); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gets != 1 {
		t.Errorf("repository reads = %d, want 1", repo.gets)
	}

	// A new write replaces the cached latest schema
	v2, err := service.WriteSchema(ctx, "app-1", serviceTestSchemaV2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	latest, err := service.GetSchemaEntity(ctx, "app-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Version != v2 {
		t.Errorf("latest version = %s, want %s", latest.Version, v2)
	}
}

func TestSchemaService_Invalidate(t *testing.T) {
	repo := newMockSchemaRepository()
	c := memorycache.New(&memorycache.Config[*entities.Schema]{MaxSizeBytes: 1 << 20, DefaultTTL: time.Minute})
	service := NewSchemaService(repo, WithSchemaCache(c, 0))
	ctx := context.Background()

	version, _ := service.WriteSchema(ctx, "app-1", serviceTestSchema)
	if _, err := service.GetSchemaEntity(ctx, "app-1", version); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a delete made by another instance
	delete(repo.versions, "app-1")
	service.Invalidate("app-1", true)

	_, err := service.GetSchemaEntity(ctx, "app-1", version)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after invalidation, got %v", err)
	}
}

func TestSchemaService_DeleteSchema(t *testing.T) {
	repo := newMockSchemaRepository()
	service := NewSchemaService(repo)
	ctx := context.Background()

	if _, err := service.WriteSchema(ctx, "app-1", serviceTestSchema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.DeleteSchema(ctx, "app-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.DeleteSchema(ctx, "app-1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSchemaService_ListSchemaVersions(t *testing.T) {
	repo := newMockSchemaRepository()
	service := NewSchemaService(repo)
	ctx := context.Background()

	var written []string
	for i := 0; i < 5; i++ {
		v, err := service.WriteSchema(ctx, "app-1", serviceTestSchema)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		written = append(written, v)
	}

	page, cursor, err := service.ListSchemaVersions(ctx, "app-1", 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 || page[0].Version != written[4] || page[1].Version != written[3] {
		t.Fatalf("unexpected first page: %v", page)
	}

	var all []string
	for _, v := range page {
		all = append(all, v.Version)
	}
	for cursor != "" {
		page, cursor, err = service.ListSchemaVersions(ctx, "app-1", 2, cursor)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, v := range page {
			all = append(all, v.Version)
		}
	}
	if len(all) != 5 || all[4] != written[0] {
		t.Errorf("listed versions = %v", all)
	}

	if _, _, err := service.ListSchemaVersions(ctx, "app-1", MaxListLimit+1, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for oversized limit, got %v", err)
	}
}

func TestSchemaService_CompileSchema(t *testing.T) {
	repo := newMockSchemaRepository()
	service := NewSchemaService(repo)
	ctx := context.Background()

	version, err := service.WriteSchema(ctx, "app-1", serviceTestSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		target CompileTarget
		want   string
	}{
		{TargetGraphQL, "type Workspace @aws_api_key"},
		{TargetIntrospection, `"Workspace"`},
		{TargetDSL, "model Workspace {"},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			out, err := service.CompileSchema(ctx, "app-1", "", tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Version != version {
				t.Errorf("version = %s, want %s", out.Version, version)
			}
			if !strings.Contains(out.Content, tt.want) {
				t.Errorf("content does not contain %q:\n%s", tt.want, out.Content)
			}
		})
	}

	if _, err := service.CompileSchema(ctx, "app-1", "", "swift"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown target, got %v", err)
	}
}
