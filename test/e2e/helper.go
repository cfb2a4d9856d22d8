package e2e

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/handlers"
	"github.com/regpulse/dataschema/internal/infrastructure/database"
	"github.com/regpulse/dataschema/internal/infrastructure/logging"
	"github.com/regpulse/dataschema/internal/infrastructure/metrics"
	"github.com/regpulse/dataschema/internal/repositories/sqlite"
	"github.com/regpulse/dataschema/internal/rpc"
	"github.com/regpulse/dataschema/internal/services"
	"github.com/regpulse/dataschema/pkg/cache/memorycache"
)

const bufSize = 1024 * 1024

// E2ETestServer is a registry wired the way cmd/server wires it, backed by
// an in-memory SQLite database and served over bufconn
type E2ETestServer struct {
	Server   *grpc.Server
	Client   *rpc.Client
	Conn     *grpc.ClientConn
	DB       *database.SQLite
	Listener *bufconn.Listener
	Registry *prometheus.Registry
	APIKeys  *services.APIKeyService
	Schemas  *services.SchemaService
	cache    *memorycache.Cache[*entities.Schema]
}

// SetupE2ETest starts a registry for the test; it is stopped on cleanup
func SetupE2ETest(t *testing.T) *E2ETestServer {
	t.Helper()

	db, err := database.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	logger := logging.Nop()
	registry := prometheus.NewRegistry()
	exporter := metrics.NewPrometheusExporter(registry)

	schemaCache := memorycache.New(&memorycache.Config[*entities.Schema]{
		MaxSizeBytes:  1 << 20,
		DefaultTTL:    time.Minute,
		EnableMetrics: true,
	})
	exporter.ObserveCache("schema", schemaCache)

	schemaService := services.NewSchemaService(sqlite.NewSQLiteSchemaRepository(db.DB),
		services.WithSchemaCache(schemaCache, 0),
		services.WithSchemaLogger(logger.Component("schema")),
		services.WithSchemaMetrics(exporter),
	)
	apiKeyService := services.NewAPIKeyService(sqlite.NewSQLiteAPIKeyRepository(db.DB), 30,
		services.WithAPIKeyLogger(logger.Component("apikey")),
		services.WithAPIKeyMetrics(exporter),
		services.WithSchemaLifetimes(schemaService),
	)

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		metrics.UnaryServerInterceptor(exporter),
		handlers.APIKeyInterceptor(apiKeyService, logger.Component("auth")),
	))
	rpc.RegisterSchemaServiceServer(server, handlers.NewSchemaHandler(schemaService))
	rpc.RegisterAPIKeyServiceServer(server, handlers.NewAPIKeyHandler(apiKeyService))

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		server.Stop()
		_ = db.Close()
		t.Fatalf("failed to create client connection: %v", err)
	}

	e := &E2ETestServer{
		Server:   server,
		Client:   rpc.NewClient(conn),
		Conn:     conn,
		DB:       db,
		Listener: listener,
		Registry: registry,
		APIKeys:  apiKeyService,
		Schemas:  schemaService,
		cache:    schemaCache,
	}
	t.Cleanup(func() { e.Teardown(t) })
	return e
}

// Teardown stops the server and releases the database
func (e *E2ETestServer) Teardown(t *testing.T) {
	t.Helper()

	if e.Conn != nil {
		_ = e.Conn.Close()
	}
	if e.Server != nil {
		e.Server.Stop()
	}
	if e.Listener != nil {
		_ = e.Listener.Close()
	}
	if e.cache != nil {
		_ = e.cache.Close()
	}
	if e.DB != nil {
		if err := e.DB.Close(); err != nil {
			t.Logf("warning: failed to close database: %v", err)
		}
	}
}

// BootstrapKey creates a key for appID directly through the service, the
// way the server does on start with API_KEY_BOOTSTRAP
func (e *E2ETestServer) BootstrapKey(t *testing.T, appID string) string {
	t.Helper()

	key, _, err := e.APIKeys.EnsureKey(context.Background(), appID)
	if err != nil {
		t.Fatalf("failed to bootstrap key for %s: %v", appID, err)
	}
	return key.Key
}

// AuthContext returns a request context carrying key and appID
func AuthContext(t *testing.T, key, appID string) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return metadata.AppendToOutgoingContext(ctx, rpc.APIKeyHeader, key, rpc.AppIDHeader, appID)
}

// CounterValue sums a counter family in the test registry, optionally
// restricted to series carrying label=value
func (e *E2ETestServer) CounterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()

	families, err := e.Registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if label != "" && !hasLabel(m.GetLabel(), label, value) {
				continue
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func hasLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
