package handlers

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/rpc"
)

type appIDKey struct{}

// WithAppID returns a context carrying appID
func WithAppID(ctx context.Context, appID string) context.Context {
	return context.WithValue(ctx, appIDKey{}, appID)
}

// AppIDFromContext returns the app of the request, or the default app
func AppIDFromContext(ctx context.Context) string {
	if appID, ok := ctx.Value(appIDKey{}).(string); ok && appID != "" {
		return appID
	}
	return entities.DefaultAppID
}

// Authenticator resolves a presented API key
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*entities.APIKey, error)
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// allowed reports whether key may act on appID. Keys of the default app
// administer the API keys of every app; everything else is app-bound.
func allowed(key *entities.APIKey, appID, fullMethod string) bool {
	if key.AppID == appID {
		return true
	}
	return key.AppID == entities.DefaultAppID && strings.HasPrefix(fullMethod, "/"+rpc.APIKeyServiceName+"/")
}

// APIKeyInterceptor requires a valid, unexpired API key of the requested app.
// The app is read from the x-app-id header and defaults to "default".
// A default-app key may also manage the keys of other apps, which is how
// a new app gets its first key.
func APIKeyInterceptor(auth Authenticator, log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)

		appID := firstValue(md, rpc.AppIDHeader)
		if appID == "" {
			appID = entities.DefaultAppID
		}

		key, err := auth.Authenticate(ctx, firstValue(md, rpc.APIKeyHeader))
		if err != nil {
			log.Warn().Err(err).Str("method", info.FullMethod).Str("app", appID).Msg("request rejected")
			return nil, toStatus(err)
		}
		if !allowed(key, appID, info.FullMethod) {
			log.Warn().Str("method", info.FullMethod).Str("app", appID).Str("key_app", key.AppID).Msg("api key used for another app")
			return nil, status.Error(codes.Unauthenticated, "api key is not valid for this app")
		}

		return handler(WithAppID(ctx, appID), req)
	}
}
