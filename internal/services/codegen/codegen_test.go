package codegen

import (
	"testing"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/parser"
)

const testSchema = `
enum Region {
  US
  EU
}

type Link {
  title: String
  url: String!
}

model Workspace {
  name: String!
  regions: [Region!]
  links: [Link]
  reports: hasMany Report(workspaceID)
}

model Report {
  id: ID!
  workspaceID: ID!
  createdOn: Date
  counter: Int default(0)
  workspace: belongsTo Workspace(workspaceID)
  index workspaceID sortKeys(createdOn) queryField(reportsByWorkspaceID)
}

model Pair identifier(id, left, right) {
  id: ID!
  left: ID!
  right: ID!
}
`

func loadTestSchema(t *testing.T) *entities.Schema {
	t.Helper()
	schema, err := parser.Load(entities.DefaultAppID, testSchema)
	if err != nil {
		t.Fatalf("failed to load schema: %v", err)
	}
	return schema
}
