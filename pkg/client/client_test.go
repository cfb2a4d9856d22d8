package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regpulse/dataschema/pkg/models"
)

type recordedRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	APIKey        string         `json:"-"`
}

type testAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (a *testAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.requests)
	return a.requests[len(a.requests)-1]
}

func (a *testAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

// newTestClient serves respond behind a GraphQL endpoint
func newTestClient(t *testing.T, respond func(req recordedRequest) (int, string)) (*Client, *testAPI) {
	t.Helper()
	api := &testAPI{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recordedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.APIKey = r.Header.Get(APIKeyHeader)

		api.mu.Lock()
		api.requests = append(api.requests, req)
		api.mu.Unlock()

		status, body := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL, APIKey: "da2-test", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c, api
}

func ok(body string) func(recordedRequest) (int, string) {
	return func(recordedRequest) (int, string) { return http.StatusOK, body }
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestNew_ModelsFromEmbeddedSchema(t *testing.T) {
	c, err := New(Config{Endpoint: "http://localhost"})
	require.NoError(t, err)

	require.NotNil(t, c.Models())
	assert.Equal(t, "Workspace", c.Models().Workspace.Model().Name)
	assert.Equal(t, []string{"id", "groupID", "sourceAlertInstanceID", "linkedAlertInstanceID"},
		c.Models().AlertInstanceLink.Model().Identifier)
}

func TestModelClient_Get(t *testing.T) {
	c, api := newTestClient(t, ok(`{"data":{"getWorkspace":{
		"id":"w1","organizationID":"o1","name":"Acme","regions":["US","EU"],
		"createdAt":"2026-01-02T03:04:05.000Z","updatedAt":"2026-01-02T03:04:05.000Z"}}}`))

	ws, err := c.Models().Workspace.Get(context.Background(), Key{"id": "w1"})
	require.NoError(t, err)

	assert.Equal(t, "w1", ws.ID)
	assert.Equal(t, "o1", ws.OrganizationID)
	require.NotNil(t, ws.Name)
	assert.Equal(t, "Acme", *ws.Name)
	assert.Equal(t, []models.Region{models.RegionUS, models.RegionEU}, ws.Regions)
	require.NotNil(t, ws.CreatedAt)
	assert.Equal(t, 2026, ws.CreatedAt.Year())

	req := api.last(t)
	assert.Equal(t, "da2-test", req.APIKey)
	assert.Equal(t, "GetWorkspace", req.OperationName)
	assert.True(t, strings.HasPrefix(req.Query, "query GetWorkspace($id: ID!) {"), req.Query)
	assert.Equal(t, map[string]any{"id": "w1"}, req.Variables)
}

func TestModelClient_Get_NotFound(t *testing.T) {
	c, _ := newTestClient(t, ok(`{"data":{"getWorkspace":null}}`))

	_, err := c.Models().Workspace.Get(context.Background(), Key{"id": "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModelClient_Get_CompositeKey(t *testing.T) {
	c, api := newTestClient(t, ok(`{"data":{"getAlertInstanceLink":{"id":"l1"}}}`))
	links := c.Models().AlertInstanceLink

	_, err := links.Get(context.Background(), Key{"id": "l1", "groupID": "g1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sourceAlertInstanceID")
	assert.Equal(t, 0, api.count())

	_, err = links.Get(context.Background(), Key{
		"id": "l1", "groupID": "g1", "sourceAlertInstanceID": "s1", "linkedAlertInstanceID": "t1",
	})
	require.NoError(t, err)
	assert.Len(t, api.last(t).Variables, 4)
}

func TestModelClient_ListAll(t *testing.T) {
	c, api := newTestClient(t, func(req recordedRequest) (int, string) {
		if req.Variables["nextToken"] == nil {
			return http.StatusOK, `{"data":{"listWorkspaces":{"items":[{"id":"w1","organizationID":"o1"},{"id":"w2","organizationID":"o1"}],"nextToken":"t1"}}}`
		}
		return http.StatusOK, `{"data":{"listWorkspaces":{"items":[{"id":"w3","organizationID":"o2"}],"nextToken":null}}}`
	})

	all, err := c.Models().Workspace.ListAll(context.Background(), &ListOptions{
		Filter: map[string]any{"isActive": map[string]any{"eq": true}},
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "w3", all[2].ID)

	req := api.last(t)
	assert.Equal(t, "ListWorkspaces", req.OperationName)
	assert.Equal(t, "t1", req.Variables["nextToken"])
	assert.EqualValues(t, 2, req.Variables["limit"])
	assert.NotNil(t, req.Variables["filter"])
	assert.Equal(t, 2, api.count())
}

func TestModelClient_ListBy(t *testing.T) {
	c, api := newTestClient(t, func(req recordedRequest) (int, string) {
		switch req.OperationName {
		case "ReportsByWorkspaceID":
			return http.StatusOK, `{"data":{"reportsByWorkspaceID":{"items":[{"id":"r1","organizationID":"o1","workspaceID":"w1"}]}}}`
		default:
			return http.StatusOK, `{"data":{"listWorkspaceByOrganizationID":{"items":[]}}}`
		}
	})
	ctx := context.Background()

	// Declared query field
	page, err := c.Models().Report.ListBy(ctx, "reportsByWorkspaceID", "w1", nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r1", page.Items[0].ID)
	assert.Equal(t, "w1", api.last(t).Variables["workspaceID"])

	// Declared index name
	_, err = c.Models().Workspace.ListBy(ctx, "byOrganization", "o1", &ListOptions{SortDirection: SortDescending})
	require.NoError(t, err)
	req := api.last(t)
	assert.Equal(t, "ListWorkspaceByOrganizationID", req.OperationName)
	assert.Equal(t, "DESC", req.Variables["sortDirection"])

	_, err = c.Models().Workspace.ListBy(ctx, "byName", "x", nil)
	assert.Error(t, err)
}

func TestModelClient_ListBy_SortKey(t *testing.T) {
	c, api := newTestClient(t, ok(`{"data":{"listAlertFeedbackByWorkspaceIDAndAlertID":{"items":[]}}}`))
	feedback := c.Models().AlertFeedback

	_, err := feedback.ListBy(context.Background(), "byWorkspaceIDAndAlertID", "w1", &ListOptions{
		SortKey: map[string]any{"eq": "a1"},
	})
	require.NoError(t, err)
	req := api.last(t)
	assert.Equal(t, map[string]any{"eq": "a1"}, req.Variables["alertID"])
	assert.Contains(t, req.Query, "$alertID: ModelIDKeyConditionInput")

	// byAlert has no sort key
	_, err = feedback.ListBy(context.Background(), "byAlert", "a1", &ListOptions{SortKey: map[string]any{"eq": "x"}})
	assert.Error(t, err)
}

func TestModelClient_Create(t *testing.T) {
	c, api := newTestClient(t, ok(`{"data":{"createWorkspace":{"id":"generated","organizationID":"o1","name":"Acme"}}}`))

	name := "Acme"
	ws, err := c.Models().Workspace.Create(context.Background(), &models.Workspace{
		OrganizationID: "o1",
		Name:           &name,
		Regions:        []models.Region{models.RegionJP},
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", ws.ID)

	req := api.last(t)
	assert.Equal(t, "CreateWorkspace", req.OperationName)
	input, _ := req.Variables["input"].(map[string]any)
	require.NotNil(t, input)
	assert.NotContains(t, input, "id")
	assert.NotContains(t, input, "isActive")
	assert.Equal(t, "o1", input["organizationID"])
	assert.Equal(t, []any{"JP"}, input["regions"])
}

func TestModelClient_Create_ValidationFailsBeforeSending(t *testing.T) {
	c, api := newTestClient(t, ok(`{}`))

	_, err := c.Models().Attachment.Create(context.Background(), &models.Attachment{
		AlertInstanceID: "i1",
		S3Key:           "k",
		FileType:        "pdf",
		OwnerID:         "not-an-email",
		Status:          "uploaded",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"ownerID"}, fields)
	assert.Equal(t, 0, api.count())
}

func TestModelClient_UpdateAndDelete(t *testing.T) {
	c, api := newTestClient(t, func(req recordedRequest) (int, string) {
		if req.OperationName == "DeleteTodo" {
			return http.StatusOK, `{"data":{"deleteTodo":{"id":"t1"}}}`
		}
		return http.StatusOK, `{"data":{"updateTodo":{"id":"t1","content":"done"}}}`
	})
	todos := c.Models().Todo
	ctx := context.Background()

	updated, err := todos.Update(ctx, Key{"id": "t1"}, map[string]any{"content": "done"})
	require.NoError(t, err)
	require.NotNil(t, updated.Content)
	assert.Equal(t, "done", *updated.Content)

	// Updates need the identifier
	_, err = todos.Update(ctx, Key{}, map[string]any{"content": "done"})
	assert.Error(t, err)

	var verr *ValidationError
	_, err = todos.Update(ctx, Key{"id": ""}, map[string]any{"content": "done"})
	assert.ErrorAs(t, err, &verr)

	_, err = todos.Delete(ctx, Key{"id": "t1"}, WithCondition(map[string]any{"content": map[string]any{"eq": "done"}}))
	require.NoError(t, err)
	req := api.last(t)
	assert.Equal(t, map[string]any{"id": "t1"}, req.Variables["input"])
	assert.NotNil(t, req.Variables["condition"])

	_, err = todos.Delete(ctx, Key{"id": "t1", "content": "x"})
	assert.ErrorAs(t, err, &verr)
}

func TestModelClient_Update_SendsOnlyChangedFields(t *testing.T) {
	c, api := newTestClient(t, func(req recordedRequest) (int, string) {
		if req.OperationName == "UpdateWorkspace" {
			return http.StatusOK, `{"data":{"updateWorkspace":{"id":"w1","organizationID":"o1"}}}`
		}
		return http.StatusOK, `{"data":{"updateAlertInstance":{"id":"ai-1","alertID":"a1","organizationID":"o1","isActive":true,"ownerID":"a@b.co"}}}`
	})
	instances := c.Models().AlertInstance
	ctx := context.Background()

	_, err := instances.Update(ctx, Key{"id": "ai-1"}, map[string]any{"ownerID": "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "ai-1", "ownerID": "a@b.co"}, api.last(t).Variables["input"])

	// nil clears an optional field and typed enum values are encoded
	_, err = c.Models().Workspace.Update(ctx, Key{"id": "w1"}, map[string]any{
		"name":    nil,
		"regions": []models.Region{models.RegionEU},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "w1", "name": nil, "regions": []any{"EU"}}, api.last(t).Variables["input"])

	sent := api.count()
	tests := []struct {
		name    string
		changes map[string]any
	}{
		{"no changes", nil},
		{"identifier in changes", map[string]any{"id": "ai-2"}},
		{"required field cleared", map[string]any{"isActive": nil}},
		{"wrong type", map[string]any{"isActive": "yes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := instances.Update(ctx, Key{"id": "ai-1"}, tt.changes)
			assert.Error(t, err)
		})
	}
	assert.Equal(t, sent, api.count())
}

func TestModelClient_Create_CompositeIdentifierGeneratesID(t *testing.T) {
	c, api := newTestClient(t, ok(`{"data":{"createAlertInstanceLink":{"id":"gen","groupID":"g1","sourceAlertInstanceID":"s1","linkedAlertInstanceID":"l1","linkedByEmail":"a@b.co"}}}`))

	link, err := c.Models().AlertInstanceLink.Create(context.Background(), &models.AlertInstanceLink{
		GroupID:               "g1",
		SourceAlertInstanceID: "s1",
		LinkedAlertInstanceID: "l1",
		LinkedByEmail:         "a@b.co",
	})
	require.NoError(t, err)
	assert.Equal(t, "gen", link.ID)

	input, _ := api.last(t).Variables["input"].(map[string]any)
	require.NotNil(t, input)
	assert.NotContains(t, input, "id")
	assert.Equal(t, "g1", input["groupID"])

	// The other identifier fields are still required
	_, err = c.Models().AlertInstanceLink.Create(context.Background(), &models.AlertInstanceLink{
		SourceAlertInstanceID: "s1",
		LinkedAlertInstanceID: "l1",
		LinkedByEmail:         "a@b.co",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "groupID", verr.Errors[0].Field)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"unauthorized error type", http.StatusOK, `{"data":{"getTodo":null},"errors":[{"errorType":"UnauthorizedException","message":"You are not authorized"}]}`, ErrUnauthorized},
		{"unauthorized status", http.StatusUnauthorized, `not json`, ErrUnauthorized},
		{"condition failed", http.StatusOK, `{"data":{"getTodo":null},"errors":[{"errorType":"DynamoDB:ConditionalCheckFailedException","message":"The conditional request failed"}]}`, ErrConditionFailed},
		{"throttled", http.StatusTooManyRequests, `{"errors":[{"message":"Rate exceeded"}]}`, ErrThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(recordedRequest) (int, string) { return tt.status, tt.body })

			_, err := c.Models().Todo.Get(context.Background(), Key{"id": "t1"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, "getTodo", respErr.Operation)
			assert.Equal(t, tt.status, respErr.StatusCode)
		})
	}
}
