package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
)

// Operation is the mutation a record is validated for
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Date and time layouts accepted for Date and DateTime fields
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

// FieldError describes one invalid field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every invalid field of a record
type ValidationError struct {
	Model     string
	Operation Operation
	Errors    []FieldError
}

// Error implements error
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		lines = append(lines, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("invalid %s input for %s:\n%s", e.Operation, e.Model, strings.Join(lines, "\n"))
}

type recordValidator struct {
	engine *Engine
	schema *entities.Schema
	record map[string]any
	errors []FieldError
}

func (v *recordValidator) fail(field, format string, args ...any) {
	v.errors = append(v.errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateRecord checks a mutation input against the model declaration.
// Numbers may be json.Number; they are normalized in place.
func (e *Engine) ValidateRecord(schema *entities.Schema, modelName string, record map[string]any, op Operation) error {
	model := schema.GetModel(modelName)
	if model == nil {
		return fmt.Errorf("unknown model: %s", modelName)
	}

	normalizeMap(record)
	v := &recordValidator{engine: e, schema: schema, record: record}

	// Identifier fields
	for _, name := range model.Identifier {
		value, present := record[name]
		switch op {
		case OpCreate:
			if (!present || value == nil) && !model.GeneratesField(name) {
				v.fail(name, "identifier field is required")
				continue
			}
		case OpUpdate, OpDelete:
			if !present || value == nil {
				v.fail(name, "identifier field is required")
				continue
			}
		}
		if s, ok := value.(string); ok && s == "" {
			v.fail(name, "identifier field cannot be empty")
		}
	}

	if op == OpDelete {
		for _, key := range sortedKeys(record) {
			if !model.IsIdentifierField(key) {
				v.fail(key, "only identifier fields may be sent on delete")
			}
		}
		return v.result(model.Name, op)
	}

	// Required fields on create
	if op == OpCreate {
		for _, f := range model.Fields {
			if !f.Required || model.IsIdentifierField(f.Name) {
				continue
			}
			if value, present := record[f.Name]; !present || value == nil {
				if f.Default == nil {
					v.fail(f.Name, "field is required")
				}
			}
		}
	}

	for _, key := range sortedKeys(record) {
		field := model.GetField(key)
		if field == nil {
			if model.GetRelationship(key) != nil {
				v.fail(key, "relationship fields cannot be written; set the reference fields instead")
			} else if key != "createdAt" && key != "updatedAt" {
				v.fail(key, "unknown field")
			}
			continue
		}
		value := record[key]
		if value == nil {
			if field.Required && op == OpUpdate {
				v.fail(key, "field is required and cannot be null")
			}
			continue
		}
		v.checkValue(key, field, value)
	}

	return v.result(model.Name, op)
}

func (v *recordValidator) result(model string, op Operation) error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Model: model, Operation: op, Errors: v.errors}
}

// checkValue validates a non-nil value against its field declaration
func (v *recordValidator) checkValue(path string, field *entities.Field, value any) {
	if field.IsArray {
		items, ok := value.([]any)
		if !ok {
			v.fail(path, "expected a list")
			return
		}
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if item == nil {
				if field.ItemRequired {
					v.fail(itemPath, "list items cannot be null")
				}
				continue
			}
			v.checkSingle(itemPath, field, item)
		}
	} else {
		v.checkSingle(path, field, value)
	}

	if field.Validate != "" {
		ok, err := v.engine.Evaluate(field.Validate, value, v.record)
		if err != nil {
			v.fail(path, "rule %q could not be evaluated: %v", field.Validate, err)
		} else if !ok {
			v.fail(path, "rule %q failed", field.Validate)
		}
	}
}

func (v *recordValidator) checkSingle(path string, field *entities.Field, value any) {
	switch {
	case field.IsEnum():
		s, ok := value.(string)
		enum := v.schema.GetEnum(string(field.Type))
		if !ok || enum == nil || !enum.Has(s) {
			v.fail(path, "expected one of %s", enumValues(enum))
		}
	case field.IsCustomType():
		obj, ok := value.(map[string]any)
		if !ok {
			v.fail(path, "expected an object of type %s", field.Type)
			return
		}
		customType := v.schema.GetCustomType(string(field.Type))
		if customType == nil {
			v.fail(path, "unknown type %s", field.Type)
			return
		}
		for _, sub := range customType.Fields {
			subValue, present := obj[sub.Name]
			if !present || subValue == nil {
				if sub.Required {
					v.fail(path+"."+sub.Name, "field is required")
				}
				continue
			}
			v.checkValue(path+"."+sub.Name, sub, subValue)
		}
		for _, key := range sortedKeys(obj) {
			if customType.GetField(key) == nil {
				v.fail(path+"."+key, "unknown field")
			}
		}
	default:
		if msg := checkScalar(field.Type, value); msg != "" {
			v.fail(path, "%s", msg)
		}
	}
}

// checkScalar returns a message when value does not fit the scalar type
func checkScalar(t entities.FieldType, value any) string {
	switch t {
	case entities.TypeID, entities.TypeString:
		if _, ok := value.(string); !ok {
			return "expected a string"
		}
	case entities.TypeEmail:
		s, ok := value.(string)
		if !ok {
			return "expected an email address"
		}
		if addr, err := mail.ParseAddress(s); err != nil || addr.Address != s {
			return fmt.Sprintf("invalid email address %q", s)
		}
	case entities.TypeDate:
		s, ok := value.(string)
		if !ok {
			return "expected a date string"
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s)
		}
	case entities.TypeDateTime:
		s, ok := value.(string)
		if !ok {
			return "expected a date-time string"
		}
		if _, err := time.Parse(DateTimeLayout, s); err != nil {
			return fmt.Sprintf("invalid date-time %q, expected RFC 3339", s)
		}
	case entities.TypeInt:
		switch n := value.(type) {
		case int, int32, int64:
		case float64:
			if n != math.Trunc(n) {
				return "expected an integer"
			}
		default:
			return "expected an integer"
		}
	case entities.TypeFloat:
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return "expected a number"
		}
	case entities.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return "expected a boolean"
		}
	case entities.TypeJSON:
	default:
		return fmt.Sprintf("unknown type %s", t)
	}
	return ""
}

// normalizeMap converts json.Number values to int64 or float64 recursively
func normalizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = normalize(v)
	}
}

func normalize(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		normalizeMap(v)
		return v
	case []any:
		for i := range v {
			v[i] = normalize(v[i])
		}
		return v
	default:
		return value
	}
}

func enumValues(enum *entities.Enum) string {
	if enum == nil {
		return "[]"
	}
	return "[" + strings.Join(enum.Values, ", ") + "]"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
