package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/codegen"
	"github.com/regpulse/dataschema/internal/services/rules"
)

// ValidationError lists the invalid fields of a mutation input.
// Inputs are checked before anything is sent.
type ValidationError = rules.ValidationError

// Key holds the identifier fields of a record, by declared field name
type Key map[string]any

// SortDirection orders index query results by sort key
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ListOptions configures list and index queries
type ListOptions struct {
	// Filter is a model filter input, e.g. {"isActive": {"eq": true}}
	Filter map[string]any
	// Limit caps the number of scanned records per page; 0 uses the API default
	Limit int
	// NextToken continues a previous page
	NextToken string
	// SortDirection applies to index queries only
	SortDirection SortDirection
	// SortKey is a key condition on the index sort key, e.g. {"beginsWith": "2026-"}
	SortKey map[string]any
}

// Page is one page of records
type Page[T any] struct {
	Items     []*T
	NextToken string
}

type connection[T any] struct {
	Items     []*T    `json:"items"`
	NextToken *string `json:"nextToken"`
}

// MutationOption adjusts the variables of a mutation
type MutationOption func(vars map[string]any)

// WithCondition makes the mutation fail with ErrConditionFailed unless cond holds
func WithCondition(cond map[string]any) MutationOption {
	return func(vars map[string]any) { vars["condition"] = cond }
}

// ModelClient sends the operations of one model and decodes records into T
type ModelClient[T any] struct {
	client *Client
	model  *entities.Model
	ops    *codegen.ModelOperations
}

// NewModelClient returns the client of the named model
func NewModelClient[T any](c *Client, modelName string) (*ModelClient[T], error) {
	model := c.schema.GetModel(modelName)
	ops, ok := c.operations[modelName]
	if model == nil || !ok {
		return nil, fmt.Errorf("unknown model: %s", modelName)
	}
	return &ModelClient[T]{client: c, model: model, ops: ops}, nil
}

// Model returns the model declaration
func (m *ModelClient[T]) Model() *entities.Model {
	return m.model
}

// Get fetches a record by its identifier fields
func (m *ModelClient[T]) Get(ctx context.Context, key Key) (*T, error) {
	vars, err := m.keyVariables(key)
	if err != nil {
		return nil, err
	}

	out := new(T)
	found, err := m.client.Do(ctx, m.ops.Get, codegen.GetQuery(m.model.Name), vars, out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return out, nil
}

// List fetches one page of records
func (m *ModelClient[T]) List(ctx context.Context, opts *ListOptions) (*Page[T], error) {
	return m.list(ctx, m.ops.List, codegen.ListQuery(m.model.Name), listVariables(opts))
}

// ListAll follows next tokens until every matching record is fetched
func (m *ModelClient[T]) ListAll(ctx context.Context, opts *ListOptions) ([]*T, error) {
	return collect(opts, func(o *ListOptions) (*Page[T], error) { return m.List(ctx, o) })
}

// ListBy queries a secondary index, named by its index name or query field
func (m *ModelClient[T]) ListBy(ctx context.Context, index string, partitionKey any, opts *ListOptions) (*Page[T], error) {
	op := m.ops.Index(index)
	if op == nil {
		return nil, fmt.Errorf("model %s has no index %q", m.model.Name, index)
	}

	vars := listVariables(opts)
	vars[op.PartitionKey] = partitionKey
	if opts != nil {
		if opts.SortKey != nil {
			if op.SortKeyArg == "" {
				return nil, fmt.Errorf("index %s of model %s has no sort key", op.Name, m.model.Name)
			}
			vars[op.SortKeyArg] = opts.SortKey
		}
		if opts.SortDirection != "" {
			vars["sortDirection"] = string(opts.SortDirection)
		}
	}
	return m.list(ctx, op.Document, op.QueryField, vars)
}

// ListAllBy is ListBy following next tokens
func (m *ModelClient[T]) ListAllBy(ctx context.Context, index string, partitionKey any, opts *ListOptions) ([]*T, error) {
	return collect(opts, func(o *ListOptions) (*Page[T], error) { return m.ListBy(ctx, index, partitionKey, o) })
}

// Create creates a record. Fields left nil are omitted; the API sets id and timestamps.
func (m *ModelClient[T]) Create(ctx context.Context, item *T, opts ...MutationOption) (*T, error) {
	input, err := m.recordInput(item, rules.OpCreate)
	if err != nil {
		return nil, err
	}
	return m.mutate(ctx, m.ops.Create, codegen.CreateMutation(m.model.Name), input, opts)
}

// Update changes the fields in changes on the record identified by key.
// Fields not named in changes keep their stored value; a nil value clears an
// optional field. Values are encoded like record fields, so model enums and
// custom types may be passed as-is.
func (m *ModelClient[T]) Update(ctx context.Context, key Key, changes map[string]any, opts ...MutationOption) (*T, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("update of %s has no changes", m.model.Name)
	}
	vars, err := m.keyVariables(key)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]any, len(changes)+len(vars))
	for name, v := range changes {
		if m.model.IsIdentifierField(name) {
			return nil, fmt.Errorf("identifier field %s of %s belongs in the key", name, m.model.Name)
		}
		patch[name] = v
	}
	for name, v := range vars {
		patch[name] = v
	}

	input, err := m.encode(patch)
	if err != nil {
		return nil, err
	}
	if err := m.client.rules.ValidateRecord(m.client.schema, m.model.Name, input, rules.OpUpdate); err != nil {
		return nil, err
	}
	return m.mutate(ctx, m.ops.Update, codegen.UpdateMutation(m.model.Name), input, opts)
}

// Delete deletes a record and returns it as it was
func (m *ModelClient[T]) Delete(ctx context.Context, key Key, opts ...MutationOption) (*T, error) {
	input := make(map[string]any, len(key))
	for k, v := range key {
		input[k] = v
	}
	if err := m.client.rules.ValidateRecord(m.client.schema, m.model.Name, input, rules.OpDelete); err != nil {
		return nil, err
	}
	return m.mutate(ctx, m.ops.Delete, codegen.DeleteMutation(m.model.Name), input, opts)
}

func (m *ModelClient[T]) keyVariables(key Key) (map[string]any, error) {
	vars := make(map[string]any, len(m.model.Identifier))
	for _, name := range m.model.Identifier {
		v, ok := key[name]
		if !ok || v == nil {
			return nil, fmt.Errorf("key of %s is missing %s", m.model.Name, name)
		}
		vars[name] = v
	}
	return vars, nil
}

// recordInput converts item to a mutation input and validates it
func (m *ModelClient[T]) recordInput(item *T, op rules.Operation) (map[string]any, error) {
	if item == nil {
		return nil, fmt.Errorf("%s input is nil", m.model.Name)
	}
	input, err := m.encode(item)
	if err != nil {
		return nil, err
	}
	delete(input, "createdAt")
	delete(input, "updatedAt")

	if err := m.client.rules.ValidateRecord(m.client.schema, m.model.Name, input, op); err != nil {
		return nil, err
	}
	return input, nil
}

// encode turns v into the JSON object the API receives, keeping numbers exact
func (m *ModelClient[T]) encode(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", m.model.Name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", m.model.Name, err)
	}
	return input, nil
}

func (m *ModelClient[T]) mutate(ctx context.Context, document, field string, input map[string]any, opts []MutationOption) (*T, error) {
	vars := map[string]any{"input": input}
	for _, opt := range opts {
		opt(vars)
	}

	out := new(T)
	found, err := m.client.Do(ctx, document, field, vars, out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s returned no record: %w", field, ErrNotFound)
	}
	return out, nil
}

func (m *ModelClient[T]) list(ctx context.Context, document, field string, vars map[string]any) (*Page[T], error) {
	var conn connection[T]
	if _, err := m.client.Do(ctx, document, field, vars, &conn); err != nil {
		return nil, err
	}
	page := &Page[T]{Items: conn.Items}
	if conn.NextToken != nil {
		page.NextToken = *conn.NextToken
	}
	return page, nil
}

func listVariables(opts *ListOptions) map[string]any {
	vars := make(map[string]any)
	if opts == nil {
		return vars
	}
	if opts.Filter != nil {
		vars["filter"] = opts.Filter
	}
	if opts.Limit > 0 {
		vars["limit"] = opts.Limit
	}
	if opts.NextToken != "" {
		vars["nextToken"] = opts.NextToken
	}
	return vars
}

func collect[T any](opts *ListOptions, fetch func(*ListOptions) (*Page[T], error)) ([]*T, error) {
	o := ListOptions{}
	if opts != nil {
		o = *opts
	}

	var all []*T
	for {
		page, err := fetch(&o)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.NextToken == "" {
			return all, nil
		}
		o.NextToken = page.NextToken
	}
}
