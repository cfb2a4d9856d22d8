package handlers

import (
	"context"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services"
)

// Mock SchemaService
type mockSchemaService struct {
	writeSchemaFunc    func(ctx context.Context, appID string, schemaDSL string) (string, error)
	readSchemaFunc     func(ctx context.Context, appID string) (*entities.Schema, error)
	validateSchemaFunc func(ctx context.Context, schemaDSL string) error
	deleteSchemaFunc   func(ctx context.Context, appID string) error
	listVersionsFunc   func(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error)
	compileSchemaFunc  func(ctx context.Context, appID string, version string, target services.CompileTarget) (*services.CompiledSchema, error)
}

func (m *mockSchemaService) WriteSchema(ctx context.Context, appID string, schemaDSL string) (string, error) {
	if m.writeSchemaFunc != nil {
		return m.writeSchemaFunc(ctx, appID, schemaDSL)
	}
	return "v1", nil
}

func (m *mockSchemaService) ReadSchema(ctx context.Context, appID string) (*entities.Schema, error) {
	if m.readSchemaFunc != nil {
		return m.readSchemaFunc(ctx, appID)
	}
	return &entities.Schema{AppID: appID}, nil
}

func (m *mockSchemaService) ValidateSchema(ctx context.Context, schemaDSL string) error {
	if m.validateSchemaFunc != nil {
		return m.validateSchemaFunc(ctx, schemaDSL)
	}
	return nil
}

func (m *mockSchemaService) DeleteSchema(ctx context.Context, appID string) error {
	if m.deleteSchemaFunc != nil {
		return m.deleteSchemaFunc(ctx, appID)
	}
	return nil
}

func (m *mockSchemaService) GetSchemaEntity(ctx context.Context, appID string, version string) (*entities.Schema, error) {
	return &entities.Schema{AppID: appID, Version: version}, nil
}

func (m *mockSchemaService) ListSchemaVersions(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error) {
	if m.listVersionsFunc != nil {
		return m.listVersionsFunc(ctx, appID, limit, cursor)
	}
	return nil, "", nil
}

func (m *mockSchemaService) CompileSchema(ctx context.Context, appID string, version string, target services.CompileTarget) (*services.CompiledSchema, error) {
	if m.compileSchemaFunc != nil {
		return m.compileSchemaFunc(ctx, appID, version, target)
	}
	return &services.CompiledSchema{AppID: appID, Version: version, Target: target}, nil
}

// Mock APIKeyService
type mockAPIKeyService struct {
	createKeyFunc    func(ctx context.Context, appID string, description string, expiresInDays int) (*entities.APIKey, error)
	listKeysFunc     func(ctx context.Context, appID string) ([]*entities.APIKey, error)
	deleteKeyFunc    func(ctx context.Context, appID string, id string) error
	extendKeyFunc    func(ctx context.Context, appID string, id string, expiresInDays int) (*entities.APIKey, error)
	authenticateFunc func(ctx context.Context, key string) (*entities.APIKey, error)
}

func (m *mockAPIKeyService) CreateKey(ctx context.Context, appID string, description string, expiresInDays int) (*entities.APIKey, error) {
	if m.createKeyFunc != nil {
		return m.createKeyFunc(ctx, appID, description, expiresInDays)
	}
	return &entities.APIKey{ID: "k1", AppID: appID, Description: description}, nil
}

func (m *mockAPIKeyService) ListKeys(ctx context.Context, appID string) ([]*entities.APIKey, error) {
	if m.listKeysFunc != nil {
		return m.listKeysFunc(ctx, appID)
	}
	return nil, nil
}

func (m *mockAPIKeyService) DeleteKey(ctx context.Context, appID string, id string) error {
	if m.deleteKeyFunc != nil {
		return m.deleteKeyFunc(ctx, appID, id)
	}
	return nil
}

func (m *mockAPIKeyService) ExtendKey(ctx context.Context, appID string, id string, expiresInDays int) (*entities.APIKey, error) {
	if m.extendKeyFunc != nil {
		return m.extendKeyFunc(ctx, appID, id, expiresInDays)
	}
	return &entities.APIKey{ID: id, AppID: appID}, nil
}

func (m *mockAPIKeyService) Authenticate(ctx context.Context, key string) (*entities.APIKey, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, key)
	}
	return nil, services.ErrInvalidAPIKey
}
