package entities

import "time"

// DefaultAppID is the app used when a caller does not name one
const DefaultAppID = "default"

// Schema represents a complete data schema declaration for an app
type Schema struct {
	AppID         string         // App (deployment target) identifier
	Version       string         // Schema version (UUIDv7)
	DSL           string         // Original declaration text
	Authorization *Authorization // Authorization modes and rules
	Enums         []*Enum        // Enum definitions
	CustomTypes   []*CustomType  // Non-model structured types
	Models        []*Model       // Model definitions
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SchemaVersion represents a lightweight schema version for listing
type SchemaVersion struct {
	Version   string    // Schema version (UUIDv7)
	CreatedAt time.Time // When the version was created
}

// GetModel returns the model definition by name
func (s *Schema) GetModel(name string) *Model {
	for _, m := range s.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// GetEnum returns the enum definition by name
func (s *Schema) GetEnum(name string) *Enum {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// GetCustomType returns the custom type definition by name
func (s *Schema) GetCustomType(name string) *CustomType {
	for _, c := range s.CustomTypes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ModelNames returns the model names in declaration order
func (s *Schema) ModelNames() []string {
	names := make([]string, 0, len(s.Models))
	for _, m := range s.Models {
		names = append(names, m.Name)
	}
	return names
}

// IncomingRelationships returns every relationship of other models that targets the named model
func (s *Schema) IncomingRelationships(modelName string) []*Relationship {
	var result []*Relationship
	for _, m := range s.Models {
		for _, r := range m.Relationships {
			if r.Target == modelName {
				result = append(result, r)
			}
		}
	}
	return result
}
