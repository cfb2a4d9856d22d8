package codegen

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/regpulse/dataschema/internal/entities"
)

// goInitialisms are name parts rendered fully upper-case in Go identifiers
var goInitialisms = map[string]bool{
	"id":   true,
	"url":  true,
	"api":  true,
	"json": true,
	"s3":   true,
}

var goScalarTypes = map[entities.FieldType]string{
	entities.TypeID:       "string",
	entities.TypeString:   "string",
	entities.TypeEmail:    "string",
	entities.TypeDate:     "string",
	entities.TypeDateTime: "string",
	entities.TypeInt:      "int",
	entities.TypeFloat:    "float64",
	entities.TypeBoolean:  "bool",
	entities.TypeJSON:     "string",
}

// GoName converts a declared field name to an exported Go identifier.
// Example: "s3_key" -> "S3Key", "custom_tag_ids" -> "CustomTagIDs"
func GoName(name string) string {
	var sb strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		switch {
		case goInitialisms[lower]:
			sb.WriteString(strings.ToUpper(part))
		case lower == "ids":
			sb.WriteString("IDs")
		default:
			sb.WriteString(entities.UpperFirst(part))
		}
	}
	return sb.String()
}

// GoEnumConstant names the constant of an enum value.
// Words of two letters keep their case: Region US -> RegionUS, RECOMMEND_INCLUDE -> RecommendInclude.
func GoEnumConstant(enum, value string) string {
	var sb strings.Builder
	sb.WriteString(enum)
	for _, word := range strings.Split(value, "_") {
		if len(word) <= 2 {
			sb.WriteString(strings.ToUpper(word))
			continue
		}
		sb.WriteString(strings.ToUpper(word[:1]) + strings.ToLower(word[1:]))
	}
	return sb.String()
}

func goFieldType(f *entities.Field, optional bool) string {
	t := goScalarTypes[f.Type]
	if f.IsEnum() || f.IsCustomType() {
		t = string(f.Type)
	}
	if f.IsArray {
		return "[]" + t
	}
	if optional {
		return "*" + t
	}
	return t
}

// goField renders one struct field. omitID drops an empty generated id from inputs.
func goField(f *entities.Field, omitID bool) string {
	optional := !f.Required
	tag := f.Name
	if optional || omitID {
		tag += ",omitempty"
	}
	return fmt.Sprintf("\t%s %s `json:%q`\n", GoName(f.Name), goFieldType(f, optional), tag)
}

// GenerateGoModels renders the Go types of a schema: one string type per enum,
// one struct per custom type and one struct per model.
func GenerateGoModels(schema *entities.Schema, pkg string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("// Code generated by schemactl generate models. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", pkg)
	if len(schema.Models) > 0 {
		sb.WriteString("import \"time\"\n\n")
	}

	for _, e := range schema.Enums {
		fmt.Fprintf(&sb, "// %s enumerates the values of the %s enum.\n", e.Name, e.Name)
		fmt.Fprintf(&sb, "type %s string\n\n", e.Name)
		sb.WriteString("const (\n")
		for _, v := range e.Values {
			fmt.Fprintf(&sb, "\t%s %s = %q\n", GoEnumConstant(e.Name, v), e.Name, v)
		}
		sb.WriteString(")\n\n")
	}

	for _, c := range schema.CustomTypes {
		fmt.Fprintf(&sb, "// %s is the %s custom type.\n", c.Name, c.Name)
		fmt.Fprintf(&sb, "type %s struct {\n", c.Name)
		for _, f := range c.Fields {
			sb.WriteString(goField(f, false))
		}
		sb.WriteString("}\n\n")
	}

	for _, m := range schema.Models {
		fmt.Fprintf(&sb, "// %s is a record of the %s model.\n", m.Name, m.Name)
		fmt.Fprintf(&sb, "type %s struct {\n", m.Name)
		for _, f := range m.Fields {
			sb.WriteString(goField(f, m.GeneratesField(f.Name)))
		}
		sb.WriteString("\tCreatedAt *time.Time `json:\"createdAt,omitempty\"`\n")
		sb.WriteString("\tUpdatedAt *time.Time `json:\"updatedAt,omitempty\"`\n")
		sb.WriteString("}\n\n")
	}

	out, err := format.Source([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to format generated models: %w", err)
	}
	return out, nil
}
