package parser

import (
	"fmt"

	"github.com/regpulse/dataschema/internal/entities"
)

// Parse runs the lexer and parser over dsl
func Parse(dsl string) (*SchemaAST, error) {
	return NewParser(NewLexer(dsl)).Parse()
}

// Load parses, validates and converts dsl into a schema for appID
func Load(appID, dsl string) (*entities.Schema, error) {
	ast, err := Parse(dsl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSL: %w", err)
	}

	if err := NewValidator(ast).Validate(); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	schema, err := ASTToSchema(appID, ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert schema: %w", err)
	}
	schema.DSL = dsl

	return schema, nil
}

// Format returns the canonical text of dsl
func Format(dsl string) (string, error) {
	ast, err := Parse(dsl)
	if err != nil {
		return "", err
	}
	return NewGenerator().Generate(ast), nil
}
