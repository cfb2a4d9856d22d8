package codegen

import (
	"strings"
	"testing"
)

func TestBuildModelOperations(t *testing.T) {
	schema := loadTestSchema(t)

	ops, err := BuildModelOperations(schema, "Workspace")
	if err != nil {
		t.Fatalf("BuildModelOperations failed: %v", err)
	}

	wantGet := `query GetWorkspace($id: ID!) {
  getWorkspace(id: $id) {
    id
    name
    regions
    links {
      title
      url
    }
    createdAt
    updatedAt
  }
}
`
	if ops.Get != wantGet {
		t.Errorf("unexpected get document:\n%s\nwant:\n%s", ops.Get, wantGet)
	}

	wantList := `query ListWorkspaces($filter: ModelWorkspaceFilterInput, $limit: Int, $nextToken: String) {
  listWorkspaces(filter: $filter, limit: $limit, nextToken: $nextToken) {
    items {
      id
      name
      regions
      links {
        title
        url
      }
      createdAt
      updatedAt
    }
    nextToken
  }
}
`
	if ops.List != wantList {
		t.Errorf("unexpected list document:\n%s\nwant:\n%s", ops.List, wantList)
	}

	if !strings.HasPrefix(ops.Create, "mutation CreateWorkspace($input: CreateWorkspaceInput!, $condition: ModelWorkspaceConditionInput) {\n  createWorkspace(input: $input, condition: $condition) {\n") {
		t.Errorf("unexpected create document:\n%s", ops.Create)
	}
	if !strings.HasPrefix(ops.Delete, "mutation DeleteWorkspace($input: DeleteWorkspaceInput!") {
		t.Errorf("unexpected delete document:\n%s", ops.Delete)
	}
}

func TestBuildModelOperations_Indexes(t *testing.T) {
	schema := loadTestSchema(t)

	ops, err := BuildModelOperations(schema, "Report")
	if err != nil {
		t.Fatalf("BuildModelOperations failed: %v", err)
	}
	if len(ops.Indexes) != 1 {
		t.Fatalf("expected 1 index operation, got %d", len(ops.Indexes))
	}

	for _, name := range []string{"byWorkspaceIDAndCreatedOn", "reportsByWorkspaceID"} {
		if ops.Index(name) == nil {
			t.Errorf("index %s not resolved", name)
		}
	}
	if ops.Index("byOrganization") != nil {
		t.Error("expected nil for unknown index")
	}

	op := ops.Index("reportsByWorkspaceID")
	if op.PartitionKey != "workspaceID" || op.SortKeyArg != "createdOn" {
		t.Errorf("unexpected index operation: %+v", op)
	}
	wantHeader := "query ReportsByWorkspaceID($workspaceID: ID!, $createdOn: ModelStringKeyConditionInput, $sortDirection: ModelSortDirection, $filter: ModelReportFilterInput, $limit: Int, $nextToken: String) {\n" +
		"  reportsByWorkspaceID(workspaceID: $workspaceID, createdOn: $createdOn, sortDirection: $sortDirection, filter: $filter, limit: $limit, nextToken: $nextToken) {\n" +
		"    items {\n"
	if !strings.HasPrefix(op.Document, wantHeader) {
		t.Errorf("unexpected index document:\n%s", op.Document)
	}
}

func TestBuildModelOperations_CompositeIdentifier(t *testing.T) {
	ops, err := BuildModelOperations(loadTestSchema(t), "Pair")
	if err != nil {
		t.Fatalf("BuildModelOperations failed: %v", err)
	}
	if !strings.HasPrefix(ops.Get, "query GetPair($id: ID!, $left: ID!, $right: ID!) {\n  getPair(id: $id, left: $left, right: $right) {\n") {
		t.Errorf("unexpected get document:\n%s", ops.Get)
	}
}

func TestBuildModelOperations_UnknownModel(t *testing.T) {
	if _, err := BuildModelOperations(loadTestSchema(t), "Missing"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestBuildOperations(t *testing.T) {
	ops, err := BuildOperations(loadTestSchema(t))
	if err != nil {
		t.Fatalf("BuildOperations failed: %v", err)
	}
	if len(ops) != 3 {
		t.Errorf("expected 3 models, got %d", len(ops))
	}
}
