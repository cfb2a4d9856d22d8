package entities

// RelationshipKind is the kind of a model relationship
type RelationshipKind string

const (
	BelongsTo RelationshipKind = "belongsTo"
	HasMany   RelationshipKind = "hasMany"
	HasOne    RelationshipKind = "hasOne"
)

// IsValid reports whether k is a known relationship kind
func (k RelationshipKind) IsValid() bool {
	return k == BelongsTo || k == HasMany || k == HasOne
}

// Relationship represents a link between two models resolved by the platform at query time
// Example: "workspace: belongsTo Workspace(workspaceID)"
type Relationship struct {
	Name       string           // Relationship field name
	Kind       RelationshipKind // belongsTo, hasMany or hasOne
	Target     string           // Related model name
	References []string         // Foreign-key fields (local for belongsTo, on Target otherwise)
}

// IsList reports whether the relationship resolves to a connection of records
func (r *Relationship) IsList() bool {
	return r.Kind == HasMany
}
