package handlers

import (
	"context"
	"errors"

	"github.com/regpulse/dataschema/internal/rpc"
	"github.com/regpulse/dataschema/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SchemaHandler handles dataschema.v1.SchemaService requests
type SchemaHandler struct {
	schemaService services.SchemaServiceInterface
}

var _ rpc.SchemaServiceServer = (*SchemaHandler)(nil)

// NewSchemaHandler creates a new SchemaHandler
func NewSchemaHandler(schemaService services.SchemaServiceInterface) *SchemaHandler {
	return &SchemaHandler{schemaService: schemaService}
}

// Write handles the Write RPC: {dsl} -> {version}
func (h *SchemaHandler) Write(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dsl := stringField(req, "dsl")
	if dsl == "" {
		return nil, status.Error(codes.InvalidArgument, "dsl is required")
	}

	version, err := h.schemaService.WriteSchema(ctx, AppIDFromContext(ctx), dsl)
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(map[string]any{"version": version})
}

// Read handles the Read RPC: {} -> {dsl, version, createdAt}
func (h *SchemaHandler) Read(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	schema, err := h.schemaService.ReadSchema(ctx, AppIDFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(map[string]any{
		"dsl":       schema.DSL,
		"version":   schema.Version,
		"createdAt": formatTime(schema.CreatedAt),
	})
}

// Validate handles the Validate RPC: {dsl} -> {valid, error}.
// An invalid schema is a successful response with valid=false.
func (h *SchemaHandler) Validate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dsl := stringField(req, "dsl")
	if dsl == "" {
		return nil, status.Error(codes.InvalidArgument, "dsl is required")
	}

	err := h.schemaService.ValidateSchema(ctx, dsl)
	switch {
	case err == nil:
		return newResponse(map[string]any{"valid": true})
	case errors.Is(err, services.ErrInvalidArgument):
		return newResponse(map[string]any{"valid": false, "error": err.Error()})
	default:
		return nil, toStatus(err)
	}
}

// Delete handles the Delete RPC
func (h *SchemaHandler) Delete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.schemaService.DeleteSchema(ctx, AppIDFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return newResponse(nil)
}

// ListVersions handles the ListVersions RPC: {limit, cursor} -> {versions, nextCursor}
func (h *SchemaHandler) ListVersions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, err := intField(req, "limit")
	if err != nil {
		return nil, err
	}

	versions, next, err := h.schemaService.ListSchemaVersions(ctx, AppIDFromContext(ctx), limit, stringField(req, "cursor"))
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]any, 0, len(versions))
	for _, v := range versions {
		items = append(items, map[string]any{
			"version":   v.Version,
			"createdAt": formatTime(v.CreatedAt),
		})
	}
	return newResponse(map[string]any{"versions": items, "nextCursor": next})
}

// Compile handles the Compile RPC: {target, version} -> {version, target, content}
func (h *SchemaHandler) Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	target, err := services.ParseCompileTarget(stringField(req, "target"))
	if err != nil {
		return nil, toStatus(err)
	}

	compiled, err := h.schemaService.CompileSchema(ctx, AppIDFromContext(ctx), stringField(req, "version"), target)
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(map[string]any{
		"version": compiled.Version,
		"target":  string(compiled.Target),
		"content": compiled.Content,
	})
}
