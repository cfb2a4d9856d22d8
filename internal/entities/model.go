package entities

// Model represents a declared entity type backed by a platform record collection
// Example: "model Workspace { id: ID! organizationID: ID! index organizationID name(byOrganization) }"
type Model struct {
	Name          string            // Model name (e.g., "Workspace")
	Identifier    []string          // Primary key fields; first is the partition key
	Fields        []*Field          // Scalar, enum and custom-type fields
	Relationships []*Relationship   // belongsTo / hasMany / hasOne
	Indexes       []*SecondaryIndex // Secondary indexes
}

// GetField returns the field definition by name
func (m *Model) GetField(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GetRelationship returns the relationship definition by name
func (m *Model) GetRelationship(name string) *Relationship {
	for _, r := range m.Relationships {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// GetIndex returns the secondary index whose resolved name or query field matches
func (m *Model) GetIndex(name string) *SecondaryIndex {
	for _, idx := range m.Indexes {
		if idx.IndexName() == name || idx.QueryFieldName(m.Name) == name {
			return idx
		}
	}
	return nil
}

// IdentifierFields returns the fields that make up the primary key, in order
func (m *Model) IdentifierFields() []*Field {
	fields := make([]*Field, 0, len(m.Identifier))
	for _, name := range m.Identifier {
		if f := m.GetField(name); f != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasCompositeIdentifier reports whether the primary key spans more than one field
func (m *Model) HasCompositeIdentifier() bool {
	return len(m.Identifier) > 1
}

// IsIdentifierField reports whether the named field is part of the primary key
func (m *Model) IsIdentifierField(name string) bool {
	for _, id := range m.Identifier {
		if id == name {
			return true
		}
	}
	return false
}

// UsesGeneratedID reports whether the platform generates the primary key on create
func (m *Model) UsesGeneratedID() bool {
	return len(m.Identifier) == 1 && m.Identifier[0] == "id"
}

// GeneratesField reports whether the platform fills the named identifier field
// when a create leaves it out. Only an "id" field of type ID qualifies, also
// inside a composite identifier.
func (m *Model) GeneratesField(name string) bool {
	if name != "id" || !m.IsIdentifierField(name) {
		return false
	}
	f := m.GetField(name)
	return f == nil || f.Type == TypeID
}
