package entities

// FieldType is the declared type of a field: a scalar or the name of an enum or custom type
type FieldType string

// Scalar field types
const (
	TypeID       FieldType = "ID"
	TypeString   FieldType = "String"
	TypeEmail    FieldType = "Email"
	TypeDate     FieldType = "Date"
	TypeDateTime FieldType = "DateTime"
	TypeInt      FieldType = "Int"
	TypeFloat    FieldType = "Float"
	TypeBoolean  FieldType = "Boolean"
	TypeJSON     FieldType = "JSON"
)

var scalarTypes = map[FieldType]bool{
	TypeID:       true,
	TypeString:   true,
	TypeEmail:    true,
	TypeDate:     true,
	TypeDateTime: true,
	TypeInt:      true,
	TypeFloat:    true,
	TypeBoolean:  true,
	TypeJSON:     true,
}

// IsScalarType reports whether t names a built-in scalar
func IsScalarType(t FieldType) bool {
	return scalarTypes[t]
}

// IsStringLike reports whether values of t are carried as strings and may reference each other
func IsStringLike(t FieldType) bool {
	return t == TypeID || t == TypeString || t == TypeEmail
}

// RefKind tells what a non-scalar field type refers to
type RefKind int

const (
	RefNone RefKind = iota
	RefEnum
	RefCustomType
)

// Field represents a model or custom-type field
type Field struct {
	Name         string    // Field name as declared (e.g., "workspaceID", "product_name")
	Type         FieldType // Scalar type or referenced enum / custom type name
	Ref          RefKind   // What Type refers to when it is not a scalar
	Required     bool      // Value must be present
	IsArray      bool      // List-valued field
	ItemRequired bool      // List items must be non-null
	Default      *string   // Default value literal, if any
	Validate     string    // CEL boolean expression over self and record, if any
}

// IsScalar reports whether the field holds a built-in scalar
func (f *Field) IsScalar() bool {
	return f.Ref == RefNone && IsScalarType(f.Type)
}

// IsEnum reports whether the field references an enum
func (f *Field) IsEnum() bool {
	return f.Ref == RefEnum
}

// IsCustomType reports whether the field references a custom type
func (f *Field) IsCustomType() bool {
	return f.Ref == RefCustomType
}
