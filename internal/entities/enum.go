package entities

// Enum represents a closed set of string tags usable as a field type
type Enum struct {
	Name   string
	Values []string
}

// Has reports whether value is a member of the enum
func (e *Enum) Has(value string) bool {
	for _, v := range e.Values {
		if v == value {
			return true
		}
	}
	return false
}

// CustomType represents a non-model structured value type usable as a field
type CustomType struct {
	Name   string
	Fields []*Field
}

// GetField returns the field definition by name
func (c *CustomType) GetField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
