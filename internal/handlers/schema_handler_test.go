package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
	"github.com/regpulse/dataschema/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return s
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Errorf("status code = %v, want %v (err: %v)", got, want, err)
	}
}

func TestSchemaHandler_Write(t *testing.T) {
	var gotApp, gotDSL string
	mock := &mockSchemaService{
		writeSchemaFunc: func(ctx context.Context, appID string, schemaDSL string) (string, error) {
			gotApp, gotDSL = appID, schemaDSL
			return "0190a1b2-0000-7000-8000-000000000001", nil
		},
	}
	handler := NewSchemaHandler(mock)

	ctx := WithAppID(context.Background(), "sandbox")
	resp, err := handler.Write(ctx, mustStruct(t, map[string]any{"dsl": "model A {\n  b: String\n}"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotApp != "sandbox" || gotDSL == "" {
		t.Errorf("service called with app=%q dsl=%q", gotApp, gotDSL)
	}
	if v := stringField(resp, "version"); v != "0190a1b2-0000-7000-8000-000000000001" {
		t.Errorf("version = %q", v)
	}
}

func TestSchemaHandler_Write_Errors(t *testing.T) {
	tests := []struct {
		name     string
		req      map[string]any
		err      error
		wantCode codes.Code
	}{
		{"missing dsl", map[string]any{}, nil, codes.InvalidArgument},
		{"invalid dsl", map[string]any{"dsl": "x"}, fmt.Errorf("%w: parse error", services.ErrInvalidArgument), codes.InvalidArgument},
		{"storage failure", map[string]any{"dsl": "x"}, fmt.Errorf("connection refused"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSchemaService{
				writeSchemaFunc: func(ctx context.Context, appID string, schemaDSL string) (string, error) {
					return "", tt.err
				},
			}
			_, err := NewSchemaHandler(mock).Write(context.Background(), mustStruct(t, tt.req))
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestSchemaHandler_Read(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock := &mockSchemaService{
		readSchemaFunc: func(ctx context.Context, appID string) (*entities.Schema, error) {
			if appID != entities.DefaultAppID {
				return nil, repositories.ErrNotFound
			}
			return &entities.Schema{AppID: appID, Version: "v1", DSL: "dsl", CreatedAt: created}, nil
		},
	}
	handler := NewSchemaHandler(mock)

	resp, err := handler.Read(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stringField(resp, "dsl") != "dsl" || stringField(resp, "version") != "v1" {
		t.Errorf("unexpected response: %v", resp)
	}
	if stringField(resp, "createdAt") != "2026-03-01T12:00:00Z" {
		t.Errorf("createdAt = %q", stringField(resp, "createdAt"))
	}

	_, err = handler.Read(WithAppID(context.Background(), "other"), &structpb.Struct{})
	assertCode(t, err, codes.NotFound)
}

func TestSchemaHandler_Validate(t *testing.T) {
	mock := &mockSchemaService{
		validateSchemaFunc: func(ctx context.Context, schemaDSL string) error {
			if schemaDSL == "bad" {
				return fmt.Errorf("%w: unexpected token", services.ErrInvalidArgument)
			}
			return nil
		},
	}
	handler := NewSchemaHandler(mock)

	resp, err := handler.Validate(context.Background(), mustStruct(t, map[string]any{"dsl": "good"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.GetFields()["valid"].GetBoolValue() {
		t.Error("expected valid=true")
	}

	resp, err = handler.Validate(context.Background(), mustStruct(t, map[string]any{"dsl": "bad"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetFields()["valid"].GetBoolValue() || stringField(resp, "error") == "" {
		t.Errorf("expected valid=false with an error message, got %v", resp)
	}
}

func TestSchemaHandler_ListVersions(t *testing.T) {
	var gotLimit int
	var gotCursor string
	mock := &mockSchemaService{
		listVersionsFunc: func(ctx context.Context, appID string, limit int, cursor string) ([]*entities.SchemaVersion, string, error) {
			gotLimit, gotCursor = limit, cursor
			return []*entities.SchemaVersion{{Version: "v3"}, {Version: "v2"}}, "v2", nil
		},
	}
	handler := NewSchemaHandler(mock)

	resp, err := handler.ListVersions(context.Background(), mustStruct(t, map[string]any{"limit": 2, "cursor": "v4"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 2 || gotCursor != "v4" {
		t.Errorf("service called with limit=%d cursor=%q", gotLimit, gotCursor)
	}
	versions := resp.GetFields()["versions"].GetListValue().GetValues()
	if len(versions) != 2 || versions[0].GetStructValue().GetFields()["version"].GetStringValue() != "v3" {
		t.Errorf("unexpected versions: %v", versions)
	}
	if stringField(resp, "nextCursor") != "v2" {
		t.Errorf("nextCursor = %q", stringField(resp, "nextCursor"))
	}

	_, err = handler.ListVersions(context.Background(), mustStruct(t, map[string]any{"limit": 1.5}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestSchemaHandler_Compile(t *testing.T) {
	mock := &mockSchemaService{
		compileSchemaFunc: func(ctx context.Context, appID string, version string, target services.CompileTarget) (*services.CompiledSchema, error) {
			return &services.CompiledSchema{AppID: appID, Version: "v1", Target: target, Content: "type A @aws_api_key {}"}, nil
		},
	}
	handler := NewSchemaHandler(mock)

	resp, err := handler.Compile(context.Background(), mustStruct(t, map[string]any{"target": "graphql"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stringField(resp, "target") != "graphql" || stringField(resp, "content") == "" {
		t.Errorf("unexpected response: %v", resp)
	}

	_, err = handler.Compile(context.Background(), mustStruct(t, map[string]any{"target": "kotlin"}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestSchemaHandler_Delete(t *testing.T) {
	mock := &mockSchemaService{
		deleteSchemaFunc: func(ctx context.Context, appID string) error {
			return fmt.Errorf("failed to delete schema: %w", repositories.ErrNotFound)
		},
	}
	_, err := NewSchemaHandler(mock).Delete(context.Background(), &structpb.Struct{})
	assertCode(t, err, codes.NotFound)
}
