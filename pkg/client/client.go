// Package client is a typed client for the data API generated from the schema.
// Requests are GraphQL documents sent over HTTP with the shared API key.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/codegen"
	"github.com/regpulse/dataschema/internal/services/rules"
	"github.com/regpulse/dataschema/schema"
)

// DefaultTimeout bounds requests when Config.HTTPClient is nil
const DefaultTimeout = 30 * time.Second

// APIKeyHeader carries the shared API key
const APIKeyHeader = "x-api-key"

// Config configures a Client
type Config struct {
	// Endpoint is the GraphQL URL of the API
	Endpoint string

	// APIKey is the shared API key
	APIKey string

	// HTTPClient defaults to a client with DefaultTimeout
	HTTPClient *http.Client

	// Logger defaults to a disabled logger
	Logger *zerolog.Logger

	// Schema defaults to the embedded declaration
	Schema *entities.Schema
}

// Client sends operations to the data API. It is safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger

	schema     *entities.Schema
	rules      *rules.Engine
	operations map[string]*codegen.ModelOperations
	models     *Models
}

// New creates a Client and compiles the operation documents of every model
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	c := &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		schema:     cfg.Schema,
		log:        zerolog.Nop(),
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "client").Logger()
	}
	if c.schema == nil {
		s, err := schema.Load()
		if err != nil {
			return nil, err
		}
		c.schema = s
	}

	engine, err := rules.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create rules engine: %w", err)
	}
	c.rules = engine

	ops, err := codegen.BuildOperations(c.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to build operations: %w", err)
	}
	c.operations = ops

	if cfg.Schema == nil {
		if c.models, err = newModels(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Schema returns the schema the client was built from
func (c *Client) Schema() *entities.Schema {
	return c.schema
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []GraphQLError             `json:"errors"`
}

// Do sends a single-field operation document and decodes the value of field into out.
// out may be nil. A null field value leaves out untouched and reports found=false.
func (c *Client) Do(ctx context.Context, document string, field string, variables map[string]any, out any) (found bool, err error) {
	body, err := json.Marshal(graphQLRequest{
		Query:         document,
		OperationName: codegen.OperationName(field),
		Variables:     variables,
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("error making HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug().
		Str("operation", field).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("graphql request")

	var gr graphQLResponse
	decodeErr := json.Unmarshal(respBytes, &gr)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		re := &ResponseError{Operation: field, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			re.Errors = gr.Errors
		} else if msg := strings.TrimSpace(string(respBytes)); msg != "" {
			re.Errors = []GraphQLError{{Message: msg}}
		}
		return false, re
	}
	if decodeErr != nil {
		return false, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if len(gr.Errors) > 0 {
		return false, &ResponseError{Operation: field, StatusCode: resp.StatusCode, Errors: gr.Errors}
	}

	raw, ok := gr.Data[field]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return false, fmt.Errorf("failed to decode %s: %w", field, err)
		}
	}
	return true, nil
}
