package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/repositories"
	"github.com/regpulse/dataschema/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStatus maps service errors to gRPC status errors
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, services.ErrInvalidAPIKey), errors.Is(err, services.ErrAPIKeyExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func stringField(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[name].GetStringValue()
}

// intField reads an optional integral number; a missing field is 0
func intField(req *structpb.Struct, name string) (int, error) {
	if req == nil {
		return 0, nil
	}
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer, got %v", name, n.NumberValue)
	}
	return int(n.NumberValue), nil
}

func newResponse(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("failed to encode response: %v", err))
	}
	return resp, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func apiKeyToMap(k *entities.APIKey) map[string]any {
	m := map[string]any{
		"id":          k.ID,
		"appId":       k.AppID,
		"description": k.Description,
		"expiresAt":   formatTime(k.ExpiresAt),
		"createdAt":   formatTime(k.CreatedAt),
	}
	if k.Key != "" {
		m["key"] = k.Key
	}
	return m
}
