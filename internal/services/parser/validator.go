package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/rules"
)

// reservedFieldNames are managed by the platform on every model
var reservedFieldNames = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
}

// Validator validates the parsed schema AST
type Validator struct {
	schema      *SchemaAST
	errors      []string
	models      map[string]*ModelAST
	enums       map[string]*EnumAST
	customTypes map[string]*CustomTypeAST
}

// NewValidator creates a new Validator
func NewValidator(schema *SchemaAST) *Validator {
	v := &Validator{
		schema:      schema,
		errors:      []string{},
		models:      make(map[string]*ModelAST),
		enums:       make(map[string]*EnumAST),
		customTypes: make(map[string]*CustomTypeAST),
	}
	for _, m := range schema.Models {
		v.models[m.Name] = m
	}
	for _, e := range schema.Enums {
		v.enums[e.Name] = e
	}
	for _, c := range schema.CustomTypes {
		v.customTypes[c.Name] = c
	}
	return v
}

// Validate validates the schema and returns error if invalid
func (v *Validator) Validate() error {
	v.validateUniqueNames()
	v.validateAuthorization()
	v.validateEnums()
	v.validateCustomTypes()
	v.validateModels()
	v.validateRelationships()
	v.validateIndexes()

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *Validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// validateUniqueNames checks that models, enums and custom types share one namespace
func (v *Validator) validateUniqueNames() {
	seen := make(map[string]string)
	check := func(kind, name string) {
		if entities.IsScalarType(entities.FieldType(name)) {
			v.addError("%s %s: name conflicts with built-in scalar", kind, name)
			return
		}
		if prev, ok := seen[name]; ok {
			if prev == kind {
				v.addError("duplicate %s name: %s", kind, name)
			} else {
				v.addError("name conflict between %s and %s: %s", prev, kind, name)
			}
			return
		}
		seen[name] = kind
	}
	for _, m := range v.schema.Models {
		check("model", m.Name)
	}
	for _, e := range v.schema.Enums {
		check("enum", e.Name)
	}
	for _, c := range v.schema.CustomTypes {
		check("type", c.Name)
	}
}

// validateAuthorization checks the authorization block when present
func (v *Validator) validateAuthorization() {
	auth := v.schema.Authorization
	if auth == nil {
		return
	}
	if auth.DefaultMode != "" && auth.DefaultMode != string(entities.AuthModeAPIKey) {
		v.addError("authorization: unsupported default mode: %s", auth.DefaultMode)
	}
	if auth.ExpiresInDays != nil {
		days := *auth.ExpiresInDays
		if days < entities.MinAPIKeyExpiresInDays || days > entities.MaxAPIKeyExpiresInDays {
			v.addError("authorization: expiresInDays must be between %d and %d, got %d",
				entities.MinAPIKeyExpiresInDays, entities.MaxAPIKeyExpiresInDays, days)
		}
	}
	if len(auth.Rules) == 0 {
		v.addError("authorization: at least one allow rule is required")
	}
	seen := make(map[string]bool)
	for _, rule := range auth.Rules {
		if rule != string(entities.AllowPublicAPIKey) {
			v.addError("authorization: unsupported allow rule: %s", rule)
		}
		if seen[rule] {
			v.addError("authorization: duplicate allow rule: %s", rule)
		}
		seen[rule] = true
	}
}

// validateEnums checks enum members
func (v *Validator) validateEnums() {
	for _, enum := range v.schema.Enums {
		if len(enum.Values) == 0 {
			v.addError("enum %s: must declare at least one value", enum.Name)
		}
		seen := make(map[string]bool)
		for _, value := range enum.Values {
			if value == "true" || value == "false" || value == "null" {
				v.addError("enum %s: reserved value: %s", enum.Name, value)
			}
			if seen[value] {
				v.addError("enum %s: duplicate value: %s", enum.Name, value)
			}
			seen[value] = true
		}
	}
}

// validateCustomTypes checks custom type fields and rejects recursive types
func (v *Validator) validateCustomTypes() {
	for _, ct := range v.schema.CustomTypes {
		owner := "type " + ct.Name
		seen := make(map[string]bool)
		for _, field := range ct.Fields {
			if seen[field.Name] {
				v.addError("%s: duplicate field name: %s", owner, field.Name)
			}
			seen[field.Name] = true
			if _, isModel := v.models[field.Type.Name]; isModel {
				v.addError("%s: field %s cannot reference model %s", owner, field.Name, field.Type.Name)
				continue
			}
			v.validateField(owner, field)
		}
	}

	for _, ct := range v.schema.CustomTypes {
		if path := v.findTypeCycle(ct.Name, []string{ct.Name}); path != nil {
			v.addError("type %s: recursive type reference: %s", ct.Name, strings.Join(path, " -> "))
		}
	}
}

// findTypeCycle returns the reference path when name is reachable from the end of path
func (v *Validator) findTypeCycle(name string, path []string) []string {
	ct := v.customTypes[path[len(path)-1]]
	if ct == nil {
		return nil
	}
	for _, field := range ct.Fields {
		next := field.Type.Name
		if _, ok := v.customTypes[next]; !ok {
			continue
		}
		if next == name {
			return append(append([]string{}, path...), next)
		}
		visited := false
		for _, p := range path {
			if p == next {
				visited = true
				break
			}
		}
		if visited {
			continue
		}
		if cycle := v.findTypeCycle(name, append(path, next)); cycle != nil {
			return cycle
		}
	}
	return nil
}

// validateModels checks member uniqueness, field types and identifiers
func (v *Validator) validateModels() {
	for _, model := range v.schema.Models {
		owner := "model " + model.Name
		members := make(map[string]bool)
		for _, field := range model.Fields {
			if members[field.Name] {
				v.addError("%s: duplicate member name: %s", owner, field.Name)
			}
			members[field.Name] = true
			if reservedFieldNames[field.Name] {
				v.addError("%s: field name %s is reserved", owner, field.Name)
			}
			if _, isModel := v.models[field.Type.Name]; isModel {
				v.addError("%s: field %s cannot reference model %s, declare a relationship instead", owner, field.Name, field.Type.Name)
				continue
			}
			v.validateField(owner, field)
		}
		for _, rel := range model.Relationships {
			if members[rel.Name] {
				v.addError("%s: duplicate member name: %s", owner, rel.Name)
			}
			members[rel.Name] = true
			if reservedFieldNames[rel.Name] {
				v.addError("%s: relationship name %s is reserved", owner, rel.Name)
			}
		}
		v.validateIdentifier(model)
	}
}

// validateField checks the type, default and rule of a field
func (v *Validator) validateField(owner string, field *FieldAST) {
	typeName := field.Type.Name
	_, isEnum := v.enums[typeName]
	_, isCustom := v.customTypes[typeName]
	if !entities.IsScalarType(entities.FieldType(typeName)) && !isEnum && !isCustom {
		v.addError("%s: field %s has unknown type: %s", owner, field.Name, typeName)
		return
	}

	if field.Default != nil {
		if msg := v.checkDefault(field); msg != "" {
			v.addError("%s: field %s: %s", owner, field.Name, msg)
		}
	}

	if field.Validate != "" {
		if err := rules.CheckExpression(field.Validate); err != nil {
			v.addError("%s: field %s: %v", owner, field.Name, err)
		}
	}
}

// checkDefault returns a message when the default literal does not fit the field type
func (v *Validator) checkDefault(field *FieldAST) string {
	lit := field.Default
	typeName := field.Type.Name

	if field.Type.IsArray {
		return "list fields cannot declare a default"
	}
	if _, ok := v.customTypes[typeName]; ok {
		return "custom type fields cannot declare a default"
	}
	if enum, ok := v.enums[typeName]; ok {
		if lit.Kind == LiteralNumber {
			return fmt.Sprintf("default %s is not a member of enum %s", lit.Value, typeName)
		}
		for _, value := range enum.Values {
			if value == lit.Value {
				return ""
			}
		}
		return fmt.Sprintf("default %s is not a member of enum %s", lit.Value, typeName)
	}

	switch entities.FieldType(typeName) {
	case entities.TypeInt:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if lit.Kind != LiteralNumber || err != nil || f != math.Trunc(f) {
			return fmt.Sprintf("default %s is not an integer", lit.Value)
		}
	case entities.TypeFloat:
		if _, err := strconv.ParseFloat(lit.Value, 64); lit.Kind != LiteralNumber || err != nil {
			return fmt.Sprintf("default %s is not a number", lit.Value)
		}
	case entities.TypeBoolean:
		if lit.Kind != LiteralIdent || (lit.Value != "true" && lit.Value != "false") {
			return fmt.Sprintf("default %s is not a boolean", lit.Value)
		}
	case entities.TypeDate:
		if _, err := time.Parse(rules.DateLayout, lit.Value); lit.Kind != LiteralString || err != nil {
			return fmt.Sprintf("default %q is not a date (YYYY-MM-DD)", lit.Value)
		}
	case entities.TypeDateTime:
		if _, err := time.Parse(rules.DateTimeLayout, lit.Value); lit.Kind != LiteralString || err != nil {
			return fmt.Sprintf("default %q is not an RFC 3339 date-time", lit.Value)
		}
	case entities.TypeJSON:
		return "JSON fields cannot declare a default"
	default:
		if lit.Kind != LiteralString {
			return fmt.Sprintf("default %s must be a quoted string", lit.Value)
		}
	}
	return ""
}

// identifierOf returns the primary key fields, including the implicit id
func identifierOf(model *ModelAST) []string {
	if len(model.Identifier) > 0 {
		return model.Identifier
	}
	return []string{"id"}
}

// fieldOf returns the named field, synthesizing the implicit id field
func fieldOf(model *ModelAST, name string) *FieldAST {
	for _, f := range model.Fields {
		if f.Name == name {
			return f
		}
	}
	if name == "id" && len(model.Identifier) == 0 {
		return &FieldAST{Name: "id", Type: TypeRefAST{Name: string(entities.TypeID), Required: true}}
	}
	return nil
}

// isKeyType reports whether a field can be part of a primary key or index key
func (v *Validator) isKeyType(field *FieldAST) bool {
	if field.Type.IsArray {
		return false
	}
	if _, ok := v.enums[field.Type.Name]; ok {
		return true
	}
	switch entities.FieldType(field.Type.Name) {
	case entities.TypeID, entities.TypeString, entities.TypeEmail, entities.TypeDate,
		entities.TypeDateTime, entities.TypeInt, entities.TypeFloat:
		return true
	}
	return false
}

// validateIdentifier checks the primary key of a model
func (v *Validator) validateIdentifier(model *ModelAST) {
	owner := "model " + model.Name
	seen := make(map[string]bool)
	for _, name := range identifierOf(model) {
		if seen[name] {
			v.addError("%s: duplicate identifier field: %s", owner, name)
			continue
		}
		seen[name] = true

		field := fieldOf(model, name)
		if field == nil {
			v.addError("%s: identifier references undefined field: %s", owner, name)
			continue
		}
		if !field.Type.Required {
			v.addError("%s: identifier field %s must be required", owner, name)
		}
		if !v.isKeyType(field) {
			v.addError("%s: identifier field %s must be a non-list scalar or enum", owner, name)
		}
	}
}

// compatibleTypes reports whether a reference field can hold the referenced key
func compatibleTypes(a, b string) bool {
	if a == b {
		return true
	}
	return entities.IsStringLike(entities.FieldType(a)) && entities.IsStringLike(entities.FieldType(b))
}

// validateRelationships checks targets, reference fields and pairing
func (v *Validator) validateRelationships() {
	for _, model := range v.schema.Models {
		owner := "model " + model.Name
		for _, rel := range model.Relationships {
			if !entities.RelationshipKind(rel.Kind).IsValid() {
				v.addError("%s: relationship %s has unknown kind: %s", owner, rel.Name, rel.Kind)
				continue
			}
			target, ok := v.models[rel.Target]
			if !ok {
				v.addError("%s: relationship %s references undefined model: %s", owner, rel.Name, rel.Target)
				continue
			}

			// belongsTo: local reference fields hold the target's key.
			// hasMany/hasOne: target reference fields hold this model's key.
			holder, keyOwner := model, target
			if rel.Kind != string(entities.BelongsTo) {
				holder, keyOwner = target, model
			}
			key := identifierOf(keyOwner)
			if len(rel.References) != len(key) {
				v.addError("%s: relationship %s has %d reference field(s), model %s identifier has %d",
					owner, rel.Name, len(rel.References), keyOwner.Name, len(key))
			}
			for i, ref := range rel.References {
				field := fieldOf(holder, ref)
				if field == nil {
					v.addError("%s: relationship %s references undefined field %s.%s", owner, rel.Name, holder.Name, ref)
					continue
				}
				if field.Type.IsArray || !v.isKeyType(field) {
					v.addError("%s: relationship %s reference field %s.%s must be a non-list scalar", owner, rel.Name, holder.Name, ref)
					continue
				}
				if i < len(key) {
					if keyField := fieldOf(keyOwner, key[i]); keyField != nil && !compatibleTypes(field.Type.Name, keyField.Type.Name) {
						v.addError("%s: relationship %s reference field %s.%s (%s) does not match %s.%s (%s)",
							owner, rel.Name, holder.Name, ref, field.Type.Name, keyOwner.Name, key[i], keyField.Type.Name)
					}
				}
			}

			if !v.hasCounterpart(model, target, rel) {
				if rel.Kind == string(entities.BelongsTo) {
					v.addError("%s: relationship %s (belongsTo %s) has no matching hasMany or hasOne on %s",
						owner, rel.Name, rel.Target, rel.Target)
				} else {
					v.addError("%s: relationship %s (%s %s) has no matching belongsTo on %s",
						owner, rel.Name, rel.Kind, rel.Target, rel.Target)
				}
			}
		}
	}
}

// hasCounterpart reports whether target declares the other side of rel
func (v *Validator) hasCounterpart(model, target *ModelAST, rel *RelationshipAST) bool {
	for _, other := range target.Relationships {
		if other.Target != model.Name || !sameNames(other.References, rel.References) {
			continue
		}
		if rel.Kind == string(entities.BelongsTo) {
			if other.Kind == string(entities.HasMany) || other.Kind == string(entities.HasOne) {
				return true
			}
		} else if other.Kind == string(entities.BelongsTo) {
			return true
		}
	}
	return false
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// validateIndexes checks index fields and name uniqueness
func (v *Validator) validateIndexes() {
	queryFields := make(map[string]string)
	for _, model := range v.schema.Models {
		owner := "model " + model.Name
		names := make(map[string]bool)
		for _, index := range model.Indexes {
			keys := append([]string{index.PartitionKey}, index.SortKeys...)
			seen := make(map[string]bool)
			for _, key := range keys {
				if seen[key] {
					v.addError("%s: index on %s repeats field %s", owner, index.PartitionKey, key)
				}
				seen[key] = true
				field := fieldOf(model, key)
				if field == nil {
					v.addError("%s: index references undefined field: %s", owner, key)
					continue
				}
				if !v.isKeyType(field) {
					v.addError("%s: index field %s must be a non-list scalar or enum", owner, key)
				}
			}

			si := &entities.SecondaryIndex{
				PartitionKey: index.PartitionKey,
				SortKeys:     index.SortKeys,
				Name:         index.Name,
				QueryField:   index.QueryField,
			}
			name := si.IndexName()
			if names[name] {
				v.addError("%s: duplicate index name: %s", owner, name)
			}
			names[name] = true

			queryField := si.QueryFieldName(model.Name)
			if prev, ok := queryFields[queryField]; ok {
				v.addError("%s: index query field %s already used by model %s", owner, queryField, prev)
			} else {
				queryFields[queryField] = model.Name
			}
		}
	}
}
