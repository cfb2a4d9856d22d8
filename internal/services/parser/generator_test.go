package parser

import (
	"strings"
	"testing"
)

func TestGenerator_Model(t *testing.T) {
	ast := &SchemaAST{
		Models: []*ModelAST{
			{
				Name:       "Member",
				Identifier: []string{"email"},
				Fields: []*FieldAST{
					{Name: "email", Type: TypeRefAST{Name: "Email", Required: true}},
					{Name: "regions", Type: TypeRefAST{Name: "Region", IsArray: true, ItemRequired: true}},
					{Name: "label", Type: TypeRefAST{Name: "String"}, Default: &LiteralAST{Kind: LiteralString, Value: "new"}},
				},
				Relationships: []*RelationshipAST{
					{Name: "workspace", Kind: "belongsTo", Target: "Workspace", References: []string{"workspaceID"}},
				},
				Indexes: []*IndexAST{
					{PartitionKey: "workspaceID", SortKeys: []string{"email"}, Name: "byWorkspace", QueryField: "membersByWorkspace"},
				},
			},
		},
	}

	expected := `model Member identifier(email) {
  email: Email!
  regions: [Region!]
  label: String default("new")
  workspace: belongsTo Workspace(workspaceID)
  index workspaceID sortKeys(email) name(byWorkspace) queryField(membersByWorkspace)
}
`

	got := NewGenerator().Generate(ast)
	if got != expected {
		t.Errorf("unexpected output:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestGenerator_BlocksAndQuoting(t *testing.T) {
	days := 30
	ast := &SchemaAST{
		Authorization: &AuthorizationAST{DefaultMode: "apiKey", ExpiresInDays: &days, Rules: []string{"publicApiKey"}},
		Enums:         []*EnumAST{{Name: "Region", Values: []string{"US", "EU"}}},
		CustomTypes: []*CustomTypeAST{{Name: "Link", Fields: []*FieldAST{
			{Name: "url", Type: TypeRefAST{Name: "String"}, Validate: `self.startsWith("https")`},
		}}},
	}

	expected := `authorization {
  default apiKey
  apiKey expiresInDays 30
  allow publicApiKey
}

enum Region {
  US
  EU
}

type Link {
  url: String validate("self.startsWith(\"https\")")
}
`

	got := NewGenerator().Generate(ast)
	if got != expected {
		t.Errorf("unexpected output:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestGenerator_Empty(t *testing.T) {
	if got := NewGenerator().Generate(&SchemaAST{}); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	input := `// messy spacing
model   Todo{content:String
done : Boolean   default( true )}
enum Region{US,EU}`

	first, err := Format(input)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	second, err := Format(first)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	if first != second {
		t.Errorf("format is not idempotent:\n%s\n---\n%s", first, second)
	}
	if !strings.HasPrefix(first, "enum Region {\n  US\n  EU\n}\n\nmodel Todo {\n") {
		t.Errorf("unexpected canonical layout:\n%s", first)
	}
}
