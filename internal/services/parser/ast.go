package parser

// SchemaAST represents the parsed schema AST
type SchemaAST struct {
	Authorization *AuthorizationAST // nil when the block is absent
	Enums         []*EnumAST
	CustomTypes   []*CustomTypeAST
	Models        []*ModelAST
}

// AuthorizationAST represents the authorization block
// Example: "authorization { default apiKey apiKey expiresInDays 364 allow publicApiKey }"
type AuthorizationAST struct {
	DefaultMode   string
	ExpiresInDays *int // nil when not declared
	Rules         []string
	Line          int
}

// EnumAST represents an enum definition in the AST
type EnumAST struct {
	Name   string
	Values []string
	Line   int
}

// CustomTypeAST represents a non-model type definition in the AST
type CustomTypeAST struct {
	Name   string
	Fields []*FieldAST
	Line   int
}

// ModelAST represents a model definition in the AST
type ModelAST struct {
	Name          string
	Identifier    []string // empty when not declared
	Fields        []*FieldAST
	Relationships []*RelationshipAST
	Indexes       []*IndexAST
	Line          int
}

// TypeRefAST represents a field type reference
// Examples: "String", "ID!", "[String]", "[Region!]!"
type TypeRefAST struct {
	Name         string
	Required     bool
	IsArray      bool
	ItemRequired bool
}

// LiteralKind is the lexical kind of a default value
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralIdent
)

// LiteralAST represents a default value literal
type LiteralAST struct {
	Kind  LiteralKind
	Value string
}

// FieldAST represents a field definition in the AST
type FieldAST struct {
	Name     string
	Type     TypeRefAST
	Default  *LiteralAST
	Validate string // CEL expression
	Line     int
}

// RelationshipAST represents a relationship definition in the AST
// Example: "workspace: belongsTo Workspace(workspaceID)"
type RelationshipAST struct {
	Name       string
	Kind       string // "belongsTo", "hasMany", "hasOne"
	Target     string
	References []string
	Line       int
}

// IndexAST represents a secondary index definition in the AST
// Example: "index workspaceID sortKeys(alertID) name(byWorkspace)"
type IndexAST struct {
	PartitionKey string
	SortKeys     []string
	Name         string
	QueryField   string
	Line         int
}

// relationshipKinds lists the words that turn a member into a relationship
var relationshipKinds = map[string]bool{
	"belongsTo": true,
	"hasMany":   true,
	"hasOne":    true,
}
