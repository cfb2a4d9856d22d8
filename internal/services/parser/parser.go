package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses the DSL into an AST
type Parser struct {
	lexer   *Lexer
	current *Token
	peek    *Token
	peek2   *Token // second lookahead; distinguishes modifiers from member names
	errors  []string
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	p := &Parser{
		lexer:  lexer,
		errors: []string{},
	}

	// Read three tokens to initialize current, peek and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()

	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.peek2
	if p.peek2 != nil && p.peek2.Type == TOKEN_EOF {
		return
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.errors = append(p.errors, err.Error())
		p.peek2 = &Token{Type: TOKEN_EOF}
	} else {
		p.peek2 = tok
	}
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(t TokenType) bool {
	return p.current != nil && p.current.Type == t
}

// peekTokenIs checks if the peek token is of the given type
func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peek != nil && p.peek.Type == t
}

// peekModifier reports whether the next tokens are "<word>(" for one of the given words
func (p *Parser) peekModifier(words ...string) bool {
	if p.peek == nil || p.peek.Type != TOKEN_IDENTIFIER || p.peek2 == nil || p.peek2.Type != TOKEN_LPAREN {
		return false
	}
	for _, w := range words {
		if p.peek.Value == w {
			return true
		}
	}
	return false
}

// expectPeek checks if the next token is of the expected type and advances
func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(tokenNames[t])
	return false
}

// expectPeekWord checks if the next token is an identifier or keyword and advances
func (p *Parser) expectPeekWord() bool {
	if p.peek != nil && p.peek.IsWord() {
		p.nextToken()
		return true
	}
	p.peekError(tokenNames[TOKEN_IDENTIFIER])
	return false
}

// peekError adds an error for unexpected peek token
func (p *Parser) peekError(expected string) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead at %d:%d",
		expected, tokenNames[p.peek.Type], p.peek.Line, p.peek.Column)
	p.errors = append(p.errors, msg)
}

// unexpected adds an error for the current token
func (p *Parser) unexpected(context string) {
	p.errors = append(p.errors, fmt.Sprintf("unexpected token %s in %s at %d:%d",
		describe(p.current), context, p.current.Line, p.current.Column))
}

func describe(t *Token) string {
	if t.Type == TOKEN_IDENTIFIER || t.Type == TOKEN_NUMBER {
		return fmt.Sprintf("%s(%s)", tokenNames[t.Type], t.Value)
	}
	return tokenNames[t.Type]
}

// skipBlock advances past the closing brace of the current block
func (p *Parser) skipBlock() {
	for !p.currentTokenIs(TOKEN_RBRACE) && !p.currentTokenIs(TOKEN_EOF) {
		p.nextToken()
	}
	if p.currentTokenIs(TOKEN_RBRACE) {
		p.nextToken()
	}
}

// Parse parses the entire schema
func (p *Parser) Parse() (*SchemaAST, error) {
	schema := &SchemaAST{
		Enums:       []*EnumAST{},
		CustomTypes: []*CustomTypeAST{},
		Models:      []*ModelAST{},
	}

	for !p.currentTokenIs(TOKEN_EOF) {
		switch {
		case p.currentTokenIs(TOKEN_AUTHORIZATION):
			line := p.current.Line
			auth := p.parseAuthorization()
			if auth == nil {
				p.skipBlock()
				continue
			}
			if schema.Authorization != nil {
				p.errors = append(p.errors, fmt.Sprintf("duplicate authorization block at line %d", line))
				continue
			}
			schema.Authorization = auth
		case p.currentTokenIs(TOKEN_ENUM):
			enum := p.parseEnum()
			if enum == nil {
				p.skipBlock()
				continue
			}
			schema.Enums = append(schema.Enums, enum)
		case p.currentTokenIs(TOKEN_TYPE):
			customType := p.parseCustomType()
			if customType == nil {
				p.skipBlock()
				continue
			}
			schema.CustomTypes = append(schema.CustomTypes, customType)
		case p.currentTokenIs(TOKEN_MODEL):
			model := p.parseModel()
			if model == nil {
				p.skipBlock()
				continue
			}
			schema.Models = append(schema.Models, model)
		default:
			p.errors = append(p.errors, fmt.Sprintf("unexpected token %s at %d:%d, expected 'authorization', 'enum', 'type' or 'model'",
				describe(p.current), p.current.Line, p.current.Column))
			p.nextToken()
		}
	}

	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parse errors:\n%s", strings.Join(p.errors, "\n"))
	}

	return schema, nil
}

// parseAuthorization parses the authorization block
func (p *Parser) parseAuthorization() *AuthorizationAST {
	auth := &AuthorizationAST{Line: p.current.Line, Rules: []string{}}

	if !p.expectPeek(TOKEN_LBRACE) {
		return nil
	}

	p.nextToken()
	for !p.currentTokenIs(TOKEN_RBRACE) && !p.currentTokenIs(TOKEN_EOF) {
		if !p.currentTokenIs(TOKEN_IDENTIFIER) {
			p.unexpected("authorization")
			p.nextToken()
			continue
		}

		switch p.current.Value {
		case "default":
			if !p.expectPeekWord() {
				return nil
			}
			auth.DefaultMode = p.current.Value
		case "apiKey":
			if !p.expectPeek(TOKEN_IDENTIFIER) {
				return nil
			}
			if p.current.Value != "expiresInDays" {
				p.unexpected("apiKey settings")
				return nil
			}
			if !p.expectPeek(TOKEN_NUMBER) {
				return nil
			}
			days, err := strconv.Atoi(p.current.Value)
			if err != nil {
				p.errors = append(p.errors, fmt.Sprintf("invalid expiresInDays %q at %d:%d",
					p.current.Value, p.current.Line, p.current.Column))
				return nil
			}
			auth.ExpiresInDays = &days
		case "allow":
			if !p.expectPeekWord() {
				return nil
			}
			auth.Rules = append(auth.Rules, p.current.Value)
		default:
			p.unexpected("authorization")
		}
		p.nextToken()
	}

	if !p.currentTokenIs(TOKEN_RBRACE) {
		p.errors = append(p.errors, fmt.Sprintf("expected '}' at end of authorization, got %s at %d:%d",
			tokenNames[p.current.Type], p.current.Line, p.current.Column))
		return nil
	}

	p.nextToken()
	return auth
}

// parseEnum parses an enum definition
func (p *Parser) parseEnum() *EnumAST {
	enum := &EnumAST{Line: p.current.Line, Values: []string{}}

	if !p.expectPeekWord() {
		return nil
	}
	enum.Name = p.current.Value

	if !p.expectPeek(TOKEN_LBRACE) {
		return nil
	}

	p.nextToken()
	for !p.currentTokenIs(TOKEN_RBRACE) && !p.currentTokenIs(TOKEN_EOF) {
		switch {
		case p.current.IsWord():
			enum.Values = append(enum.Values, p.current.Value)
		case p.currentTokenIs(TOKEN_COMMA):
		default:
			p.unexpected("enum")
		}
		p.nextToken()
	}

	if !p.currentTokenIs(TOKEN_RBRACE) {
		p.errors = append(p.errors, fmt.Sprintf("expected '}' at end of enum %s, got %s at %d:%d",
			enum.Name, tokenNames[p.current.Type], p.current.Line, p.current.Column))
		return nil
	}

	p.nextToken()
	return enum
}

// parseCustomType parses a non-model type definition
func (p *Parser) parseCustomType() *CustomTypeAST {
	customType := &CustomTypeAST{Line: p.current.Line, Fields: []*FieldAST{}}

	if !p.expectPeekWord() {
		return nil
	}
	customType.Name = p.current.Value

	if !p.expectPeek(TOKEN_LBRACE) {
		return nil
	}

	p.nextToken()
	for !p.currentTokenIs(TOKEN_RBRACE) && !p.currentTokenIs(TOKEN_EOF) {
		if !p.current.IsWord() || !p.peekTokenIs(TOKEN_COLON) {
			p.unexpected("type " + customType.Name)
			p.nextToken()
			continue
		}
		field, relationship := p.parseMember()
		if relationship != nil {
			p.errors = append(p.errors, fmt.Sprintf("relationship %s is not allowed in type %s at line %d",
				relationship.Name, customType.Name, relationship.Line))
			continue
		}
		if field != nil {
			customType.Fields = append(customType.Fields, field)
		}
	}

	if !p.currentTokenIs(TOKEN_RBRACE) {
		p.errors = append(p.errors, fmt.Sprintf("expected '}' at end of type %s, got %s at %d:%d",
			customType.Name, tokenNames[p.current.Type], p.current.Line, p.current.Column))
		return nil
	}

	p.nextToken()
	return customType
}

// parseModel parses a model definition
func (p *Parser) parseModel() *ModelAST {
	model := &ModelAST{
		Line:          p.current.Line,
		Identifier:    []string{},
		Fields:        []*FieldAST{},
		Relationships: []*RelationshipAST{},
		Indexes:       []*IndexAST{},
	}

	if !p.expectPeekWord() {
		return nil
	}
	model.Name = p.current.Value

	// Optional identifier(a, b, ...)
	if p.peekTokenIs(TOKEN_IDENTIFIER_KW) {
		p.nextToken()
		if !p.expectPeek(TOKEN_LPAREN) {
			return nil
		}
		names, ok := p.parseNameList()
		if !ok {
			return nil
		}
		model.Identifier = names
	}

	if !p.expectPeek(TOKEN_LBRACE) {
		return nil
	}

	p.nextToken()
	for !p.currentTokenIs(TOKEN_RBRACE) && !p.currentTokenIs(TOKEN_EOF) {
		switch {
		case p.currentTokenIs(TOKEN_INDEX) && !p.peekTokenIs(TOKEN_COLON):
			index := p.parseIndex()
			if index != nil {
				model.Indexes = append(model.Indexes, index)
			}
		case p.current.IsWord() && p.peekTokenIs(TOKEN_COLON):
			field, relationship := p.parseMember()
			if field != nil {
				model.Fields = append(model.Fields, field)
			}
			if relationship != nil {
				model.Relationships = append(model.Relationships, relationship)
			}
		default:
			p.unexpected("model " + model.Name)
			p.nextToken()
		}
	}

	if !p.currentTokenIs(TOKEN_RBRACE) {
		p.errors = append(p.errors, fmt.Sprintf("expected '}' at end of model %s, got %s at %d:%d",
			model.Name, tokenNames[p.current.Type], p.current.Line, p.current.Column))
		return nil
	}

	p.nextToken()
	return model
}

// parseMember parses "name: <type> [modifiers]" or "name: <kind> Target(refs)"
// On failure both results are nil and the parser is positioned past the bad token
func (p *Parser) parseMember() (*FieldAST, *RelationshipAST) {
	name := p.current.Value
	line := p.current.Line
	p.nextToken() // consume name; current is ':'

	if p.peekTokenIs(TOKEN_IDENTIFIER) && relationshipKinds[p.peek.Value] {
		relationship := p.parseRelationship(name, line)
		if relationship == nil {
			p.nextToken()
		}
		return nil, relationship
	}

	field := p.parseField(name, line)
	if field == nil {
		p.nextToken()
	}
	return field, nil
}

// parseRelationship parses the part after "name:" of a relationship
func (p *Parser) parseRelationship(name string, line int) *RelationshipAST {
	p.nextToken()
	relationship := &RelationshipAST{Name: name, Kind: p.current.Value, Line: line}

	if !p.expectPeekWord() {
		return nil
	}
	relationship.Target = p.current.Value

	if !p.expectPeek(TOKEN_LPAREN) {
		return nil
	}
	references, ok := p.parseNameList()
	if !ok {
		return nil
	}
	relationship.References = references

	p.nextToken()
	return relationship
}

// parseField parses the part after "name:" of a field
func (p *Parser) parseField(name string, line int) *FieldAST {
	field := &FieldAST{Name: name, Line: line}

	typeRef, ok := p.parseTypeRef()
	if !ok {
		return nil
	}
	field.Type = typeRef

	for p.peekModifier("default", "validate") {
		p.nextToken()
		modifier := p.current.Value
		p.nextToken() // consume modifier; current is '('

		switch modifier {
		case "default":
			if field.Default != nil {
				p.errors = append(p.errors, fmt.Sprintf("duplicate default for field %s at line %d", name, line))
			}
			p.nextToken()
			switch {
			case p.currentTokenIs(TOKEN_STRING):
				field.Default = &LiteralAST{Kind: LiteralString, Value: p.current.Value}
			case p.currentTokenIs(TOKEN_NUMBER):
				field.Default = &LiteralAST{Kind: LiteralNumber, Value: p.current.Value}
			case p.current.IsWord():
				field.Default = &LiteralAST{Kind: LiteralIdent, Value: p.current.Value}
			default:
				p.unexpected("default value")
				return nil
			}
		case "validate":
			if field.Validate != "" {
				p.errors = append(p.errors, fmt.Sprintf("duplicate validate for field %s at line %d", name, line))
			}
			if !p.expectPeek(TOKEN_STRING) {
				return nil
			}
			field.Validate = p.current.Value
		}

		if !p.expectPeek(TOKEN_RPAREN) {
			return nil
		}
	}

	p.nextToken()
	return field
}

// parseTypeRef parses a type reference; current is the token before it
func (p *Parser) parseTypeRef() (TypeRefAST, bool) {
	var ref TypeRefAST

	if p.peekTokenIs(TOKEN_LBRACKET) {
		p.nextToken()
		if !p.expectPeekWord() {
			return ref, false
		}
		ref.Name = p.current.Value
		ref.IsArray = true
		if p.peekTokenIs(TOKEN_EXCLAMATION) {
			p.nextToken()
			ref.ItemRequired = true
		}
		if !p.expectPeek(TOKEN_RBRACKET) {
			return ref, false
		}
	} else {
		if !p.expectPeekWord() {
			return ref, false
		}
		ref.Name = p.current.Value
	}

	if p.peekTokenIs(TOKEN_EXCLAMATION) {
		p.nextToken()
		ref.Required = true
	}

	return ref, true
}

// parseIndex parses a secondary index definition
func (p *Parser) parseIndex() *IndexAST {
	index := &IndexAST{Line: p.current.Line, SortKeys: []string{}}

	if !p.expectPeekWord() {
		p.nextToken()
		return nil
	}
	index.PartitionKey = p.current.Value

	for p.peekModifier("sortKeys", "name", "queryField") {
		p.nextToken()
		modifier := p.current.Value
		p.nextToken() // current is '('

		switch modifier {
		case "sortKeys":
			if len(index.SortKeys) > 0 {
				p.errors = append(p.errors, fmt.Sprintf("duplicate sortKeys for index %s at line %d", index.PartitionKey, index.Line))
			}
			keys, ok := p.parseNameList()
			if !ok {
				p.nextToken()
				return nil
			}
			index.SortKeys = keys
		case "name", "queryField":
			if !p.expectPeekWord() {
				p.nextToken()
				return nil
			}
			value := p.current.Value
			if !p.expectPeek(TOKEN_RPAREN) {
				p.nextToken()
				return nil
			}
			target := &index.Name
			if modifier == "queryField" {
				target = &index.QueryField
			}
			if *target != "" {
				p.errors = append(p.errors, fmt.Sprintf("duplicate %s for index %s at line %d", modifier, index.PartitionKey, index.Line))
			}
			*target = value
		}
	}

	p.nextToken()
	return index
}

// parseNameList parses "a, b, c)" after an opening paren; current ends on ')'
func (p *Parser) parseNameList() ([]string, bool) {
	names := []string{}
	for {
		if !p.expectPeekWord() {
			return nil, false
		}
		names = append(names, p.current.Value)
		if p.peekTokenIs(TOKEN_COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(TOKEN_RPAREN) {
			return nil, false
		}
		return names, true
	}
}
