package parser

import (
	"strings"
	"testing"
)

const validSchema = `authorization {
  default apiKey
  apiKey expiresInDays 364
  allow publicApiKey
}

enum Region { US EU GLOBAL }

type Link {
  title: String
  url: String validate("self.startsWith('http')")
}

model Organization {
  id: ID!
  name: String!
  regions: [Region]
  Workspaces: hasMany Workspace(organizationID)
}

model Workspace {
  id: ID!
  organizationID: ID!
  organization: belongsTo Organization(organizationID)
  members: hasMany Member(workspaceID)
  links: [Link]
  index organizationID name(byOrganization)
}

model Member identifier(email) {
  email: Email!
  workspaceID: ID!
  workspace: belongsTo Workspace(workspaceID)
  index workspaceID name(byWorkspace)
}

model Todo {
  content: String
  done: Boolean default(false)
}`

func validate(t *testing.T, input string) error {
	t.Helper()
	ast, err := Parse(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return NewValidator(ast).Validate()
}

func TestValidator_ValidSchema(t *testing.T) {
	if err := validate(t, validSchema); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "duplicate model",
			input:   "model A { x: String }\nmodel A { y: String }",
			wantErr: "duplicate model name: A",
		},
		{
			name:    "enum and model share a name",
			input:   "enum A { X }\nmodel A { y: String }",
			wantErr: "name conflict between model and enum: A",
		},
		{
			name:    "scalar name reused",
			input:   "enum String { X }",
			wantErr: "enum String: name conflicts with built-in scalar",
		},
		{
			name:    "duplicate enum value",
			input:   "enum Region { US US }",
			wantErr: "enum Region: duplicate value: US",
		},
		{
			name:    "empty enum",
			input:   "enum Region { }",
			wantErr: "enum Region: must declare at least one value",
		},
		{
			name:    "unknown field type",
			input:   "model A { x: Text }",
			wantErr: "model A: field x has unknown type: Text",
		},
		{
			name:    "duplicate member",
			input:   "model A { x: String\n x: belongsTo B(x) }\nmodel B { a: hasMany A(x) }",
			wantErr: "model A: duplicate member name: x",
		},
		{
			name:    "reserved field",
			input:   "model A { createdAt: DateTime }",
			wantErr: "field name createdAt is reserved",
		},
		{
			name:    "custom type references model",
			input:   "model A { x: String }\ntype T { a: A }",
			wantErr: "type T: field a cannot reference model A",
		},
		{
			name:    "field references model",
			input:   "model A { x: String }\nmodel B { a: A }",
			wantErr: "declare a relationship instead",
		},
		{
			name:    "recursive custom type",
			input:   "type T { u: U }\ntype U { t: T }",
			wantErr: "recursive type reference: T -> U -> T",
		},
		{
			name:    "identifier field missing",
			input:   "model A identifier(code) { name: String }",
			wantErr: "identifier references undefined field: code",
		},
		{
			name:    "identifier field optional",
			input:   "model A identifier(code) { code: String }",
			wantErr: "identifier field code must be required",
		},
		{
			name:    "optional id without identifier",
			input:   "model A { id: ID }",
			wantErr: "identifier field id must be required",
		},
		{
			name:    "identifier field is list",
			input:   "model A identifier(codes) { codes: [String]! }",
			wantErr: "identifier field codes must be a non-list scalar or enum",
		},
		{
			name:    "relationship to undefined model",
			input:   "model A { bID: ID!\n b: belongsTo B(bID) }",
			wantErr: "relationship b references undefined model: B",
		},
		{
			name:    "belongsTo reference missing",
			input:   "model A { b: belongsTo B(bID) }\nmodel B { as: hasMany A(bID) }",
			wantErr: "relationship b references undefined field A.bID",
		},
		{
			name:    "hasMany reference lives on target",
			input:   "model A { bID: ID\n b: belongsTo B(bID) }\nmodel B { as: hasMany A(aID) }",
			wantErr: "relationship as references undefined field A.aID",
		},
		{
			name:    "reference count mismatch",
			input:   "model A identifier(x, y) { x: ID!\n y: ID!\n bs: hasMany B(aID) }\nmodel B { aID: ID\n a: belongsTo A(aID) }",
			wantErr: "relationship bs has 1 reference field(s), model A identifier has 2",
		},
		{
			name:    "reference type mismatch",
			input:   "model A { n: Int\n b: belongsTo B(n) }\nmodel B { as: hasMany A(n) }",
			wantErr: "reference field A.n (Int) does not match B.id (ID)",
		},
		{
			name:    "unpaired belongsTo",
			input:   "model A { bID: ID\n b: belongsTo B(bID) }\nmodel B { x: String }",
			wantErr: "relationship b (belongsTo B) has no matching hasMany or hasOne on B",
		},
		{
			name:    "unpaired hasMany",
			input:   "model A { bID: ID }\nmodel B { as: hasMany A(bID) }",
			wantErr: "relationship as (hasMany A) has no matching belongsTo on A",
		},
		{
			name:    "index field missing",
			input:   "model A { x: String\n index y }",
			wantErr: "index references undefined field: y",
		},
		{
			name:    "index on JSON field",
			input:   "model A { x: JSON\n index x }",
			wantErr: "index field x must be a non-list scalar or enum",
		},
		{
			name:    "duplicate index name",
			input:   "model A { x: String\n y: String\n index x name(byX)\n index y name(byX) }",
			wantErr: "model A: duplicate index name: byX",
		},
		{
			name:    "duplicate query field across models",
			input:   "model A { x: String\n index x queryField(find) }\nmodel B { y: String\n index y queryField(find) }",
			wantErr: "model B: index query field find already used by model A",
		},
		{
			name:    "bad int default",
			input:   "model A { x: Int default(1.5) }",
			wantErr: "default 1.5 is not an integer",
		},
		{
			name:    "bad enum default",
			input:   "enum R { US }\nmodel A { r: R default(EU) }",
			wantErr: "default EU is not a member of enum R",
		},
		{
			name:    "unquoted string default",
			input:   "model A { s: String default(abc) }",
			wantErr: "default abc must be a quoted string",
		},
		{
			name:    "bad boolean default",
			input:   "model A { b: Boolean default(\"yes\") }",
			wantErr: "default yes is not a boolean",
		},
		{
			name:    "list default",
			input:   "model A { s: [String] default(\"x\") }",
			wantErr: "list fields cannot declare a default",
		},
		{
			name:    "invalid rule",
			input:   "model A { s: Int validate(\"self +\") }",
			wantErr: "model A: field s: invalid CEL expression",
		},
		{
			name:    "non boolean rule",
			input:   "model A { s: Int validate(\"self + 1\") }",
			wantErr: "CEL expression must return boolean",
		},
		{
			name:    "unsupported default mode",
			input:   "authorization { default userPool\n allow publicApiKey }",
			wantErr: "authorization: unsupported default mode: userPool",
		},
		{
			name:    "expiry too long",
			input:   "authorization { apiKey expiresInDays 366\n allow publicApiKey }",
			wantErr: "expiresInDays must be between 1 and 365, got 366",
		},
		{
			name:    "expiry zero",
			input:   "authorization { apiKey expiresInDays 0\n allow publicApiKey }",
			wantErr: "expiresInDays must be between 1 and 365, got 0",
		},
		{
			name:    "unsupported allow rule",
			input:   "authorization { allow owner }",
			wantErr: "authorization: unsupported allow rule: owner",
		},
		{
			name:    "no allow rule",
			input:   "authorization { default apiKey }",
			wantErr: "authorization: at least one allow rule is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(t, tt.input)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), "validation errors:\n") {
				t.Errorf("expected accumulated validation errors, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidator_HasOnePairing(t *testing.T) {
	input := `model AlertInstance {
  id: ID!
  alertFeedback: hasOne AlertFeedback(alertInstanceID)
}

model AlertFeedback {
  id: ID!
  alertInstanceID: ID
  alertInstance: belongsTo AlertInstance(alertInstanceID)
}`

	if err := validate(t, input); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidator_StringLikeReferences(t *testing.T) {
	// Email identifier referenced by an Email field, ID referenced by a String field
	input := `model Member identifier(email) {
  email: Email!
  links: hasMany Link(linkedByEmail)
}

model Feedback {
  id: ID!
  comments: hasMany Comment(feedbackID)
}

model Comment {
  feedbackID: String!
  feedback: belongsTo Feedback(feedbackID)
}

model Link {
  linkedByEmail: Email!
  linkedBy: belongsTo Member(linkedByEmail)
}`

	if err := validate(t, input); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
