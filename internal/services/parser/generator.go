package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Generator generates DSL from AST
type Generator struct {
	indent string
}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
	}
}

// Generate generates DSL string from SchemaAST.
// Blocks are emitted in the order authorization, enums, types, models.
func (g *Generator) Generate(schema *SchemaAST) string {
	var blocks []string

	if schema.Authorization != nil {
		blocks = append(blocks, g.generateAuthorization(schema.Authorization))
	}
	for _, enum := range schema.Enums {
		blocks = append(blocks, g.generateEnum(enum))
	}
	for _, ct := range schema.CustomTypes {
		blocks = append(blocks, g.generateCustomType(ct))
	}
	for _, model := range schema.Models {
		blocks = append(blocks, g.generateModel(model))
	}

	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// generateAuthorization generates DSL for the authorization block
func (g *Generator) generateAuthorization(auth *AuthorizationAST) string {
	var sb strings.Builder

	sb.WriteString("authorization {\n")
	if auth.DefaultMode != "" {
		fmt.Fprintf(&sb, "%sdefault %s\n", g.indent, auth.DefaultMode)
	}
	if auth.ExpiresInDays != nil {
		fmt.Fprintf(&sb, "%sapiKey expiresInDays %d\n", g.indent, *auth.ExpiresInDays)
	}
	for _, rule := range auth.Rules {
		fmt.Fprintf(&sb, "%sallow %s\n", g.indent, rule)
	}
	sb.WriteString("}")

	return sb.String()
}

// generateEnum generates DSL for an enum
func (g *Generator) generateEnum(enum *EnumAST) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "enum %s {\n", enum.Name)
	for _, value := range enum.Values {
		sb.WriteString(g.indent)
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return sb.String()
}

// generateCustomType generates DSL for a custom type
func (g *Generator) generateCustomType(ct *CustomTypeAST) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "type %s {\n", ct.Name)
	for _, field := range ct.Fields {
		sb.WriteString(g.indent)
		sb.WriteString(g.generateField(field))
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return sb.String()
}

// generateModel generates DSL for a model
func (g *Generator) generateModel(model *ModelAST) string {
	var sb strings.Builder

	sb.WriteString("model ")
	sb.WriteString(model.Name)
	if len(model.Identifier) > 0 {
		fmt.Fprintf(&sb, " identifier(%s)", strings.Join(model.Identifier, ", "))
	}
	sb.WriteString(" {\n")

	for _, field := range model.Fields {
		sb.WriteString(g.indent)
		sb.WriteString(g.generateField(field))
		sb.WriteString("\n")
	}
	for _, rel := range model.Relationships {
		sb.WriteString(g.indent)
		sb.WriteString(g.generateRelationship(rel))
		sb.WriteString("\n")
	}
	for _, index := range model.Indexes {
		sb.WriteString(g.indent)
		sb.WriteString(g.generateIndex(index))
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return sb.String()
}

// generateField generates DSL for a field
func (g *Generator) generateField(field *FieldAST) string {
	var sb strings.Builder

	sb.WriteString(field.Name)
	sb.WriteString(": ")
	sb.WriteString(g.generateTypeRef(field.Type))
	if field.Default != nil {
		fmt.Fprintf(&sb, " default(%s)", g.generateLiteral(field.Default))
	}
	if field.Validate != "" {
		fmt.Fprintf(&sb, " validate(%s)", strconv.Quote(field.Validate))
	}

	return sb.String()
}

// generateTypeRef generates DSL for a type reference
func (g *Generator) generateTypeRef(ref TypeRefAST) string {
	s := ref.Name
	if ref.IsArray {
		if ref.ItemRequired {
			s += "!"
		}
		s = "[" + s + "]"
	}
	if ref.Required {
		s += "!"
	}
	return s
}

// generateLiteral generates DSL for a default value
func (g *Generator) generateLiteral(lit *LiteralAST) string {
	if lit.Kind == LiteralString {
		return strconv.Quote(lit.Value)
	}
	return lit.Value
}

// generateRelationship generates DSL for a relationship
func (g *Generator) generateRelationship(rel *RelationshipAST) string {
	return fmt.Sprintf("%s: %s %s(%s)", rel.Name, rel.Kind, rel.Target, strings.Join(rel.References, ", "))
}

// generateIndex generates DSL for a secondary index
func (g *Generator) generateIndex(index *IndexAST) string {
	var sb strings.Builder

	sb.WriteString("index ")
	sb.WriteString(index.PartitionKey)
	if len(index.SortKeys) > 0 {
		fmt.Fprintf(&sb, " sortKeys(%s)", strings.Join(index.SortKeys, ", "))
	}
	if index.Name != "" {
		fmt.Fprintf(&sb, " name(%s)", index.Name)
	}
	if index.QueryField != "" {
		fmt.Fprintf(&sb, " queryField(%s)", index.QueryField)
	}

	return sb.String()
}
