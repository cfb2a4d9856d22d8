package handlers

import (
	"context"

	"github.com/regpulse/dataschema/internal/rpc"
	"github.com/regpulse/dataschema/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// APIKeyHandler handles dataschema.v1.APIKeyService requests
type APIKeyHandler struct {
	apiKeyService services.APIKeyServiceInterface
}

var _ rpc.APIKeyServiceServer = (*APIKeyHandler)(nil)

// NewAPIKeyHandler creates a new APIKeyHandler
func NewAPIKeyHandler(apiKeyService services.APIKeyServiceInterface) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// Create handles the Create RPC: {description, expiresInDays} -> key with plaintext
func (h *APIKeyHandler) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	days, err := intField(req, "expiresInDays")
	if err != nil {
		return nil, err
	}

	key, err := h.apiKeyService.CreateKey(ctx, AppIDFromContext(ctx), stringField(req, "description"), days)
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(apiKeyToMap(key))
}

// List handles the List RPC: {} -> {keys}
func (h *APIKeyHandler) List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	keys, err := h.apiKeyService.ListKeys(ctx, AppIDFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]any, 0, len(keys))
	for _, k := range keys {
		items = append(items, apiKeyToMap(k))
	}
	return newResponse(map[string]any{"keys": items})
}

// Delete handles the Delete RPC: {id}
func (h *APIKeyHandler) Delete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if err := h.apiKeyService.DeleteKey(ctx, AppIDFromContext(ctx), id); err != nil {
		return nil, toStatus(err)
	}
	return newResponse(nil)
}

// Extend handles the Extend RPC: {id, expiresInDays} -> key
func (h *APIKeyHandler) Extend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	days, err := intField(req, "expiresInDays")
	if err != nil {
		return nil, err
	}

	key, err := h.apiKeyService.ExtendKey(ctx, AppIDFromContext(ctx), id, days)
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(apiKeyToMap(key))
}
