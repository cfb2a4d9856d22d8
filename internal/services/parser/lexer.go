package parser

import (
	"fmt"
	"strconv"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TOKEN_ILLEGAL TokenType = iota
	TOKEN_EOF

	// Identifiers and literals
	TOKEN_IDENTIFIER
	TOKEN_STRING // String literals (quoted)
	TOKEN_NUMBER // Integer or decimal literals

	// Keywords (contextual: also accepted where a name is expected)
	TOKEN_AUTHORIZATION
	TOKEN_ENUM
	TOKEN_TYPE
	TOKEN_MODEL
	TOKEN_INDEX
	TOKEN_IDENTIFIER_KW // identifier(...)

	// Delimiters
	TOKEN_COLON
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_COMMA
	TOKEN_EXCLAMATION
)

var tokenNames = map[TokenType]string{
	TOKEN_ILLEGAL:       "ILLEGAL",
	TOKEN_EOF:           "EOF",
	TOKEN_IDENTIFIER:    "IDENTIFIER",
	TOKEN_STRING:        "STRING",
	TOKEN_NUMBER:        "NUMBER",
	TOKEN_AUTHORIZATION: "authorization",
	TOKEN_ENUM:          "enum",
	TOKEN_TYPE:          "type",
	TOKEN_MODEL:         "model",
	TOKEN_INDEX:         "index",
	TOKEN_IDENTIFIER_KW: "identifier",
	TOKEN_COLON:         ":",
	TOKEN_LBRACE:        "{",
	TOKEN_RBRACE:        "}",
	TOKEN_LPAREN:        "(",
	TOKEN_RPAREN:        ")",
	TOKEN_LBRACKET:      "[",
	TOKEN_RBRACKET:      "]",
	TOKEN_COMMA:         ",",
	TOKEN_EXCLAMATION:   "!",
}

var keywords = map[string]TokenType{
	"authorization": TOKEN_AUTHORIZATION,
	"enum":          TOKEN_ENUM,
	"type":          TOKEN_TYPE,
	"model":         TOKEN_MODEL,
	"index":         TOKEN_INDEX,
	"identifier":    TOKEN_IDENTIFIER_KW,
}

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// String returns a string representation of the token
func (t *Token) String() string {
	typeName := tokenNames[t.Type]
	if typeName == "" {
		typeName = fmt.Sprintf("UNKNOWN(%d)", t.Type)
	}
	return fmt.Sprintf("%s(%s) at %d:%d", typeName, t.Value, t.Line, t.Column)
}

// IsWord reports whether the token is an identifier or a keyword
func (t *Token) IsWord() bool {
	if t.Type == TOKEN_IDENTIFIER {
		return true
	}
	_, ok := keywords[t.Value]
	return ok && t.Type != TOKEN_STRING
}

// Lexer performs lexical analysis
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer creates a new Lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips single-line comments starting with //
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a number literal with an optional leading minus
func (l *Lexer) readNumber() string {
	position := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readString reads a double-quoted string literal; escapes follow Go syntax
func (l *Lexer) readString() (string, bool) {
	position := l.position
	for {
		l.readChar()
		if l.ch == '\\' {
			l.readChar()
			continue
		}
		if l.ch == '"' || l.ch == 0 || l.ch == '\n' {
			break
		}
	}
	if l.ch != '"' {
		return "", false
	}
	value, err := strconv.Unquote(l.input[position : l.position+1])
	if err != nil {
		return "", false
	}
	return value, true
}

// NextToken returns the next token
func (l *Lexer) NextToken() (*Token, error) {
	for {
		l.skipWhitespace()
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipComment()
		} else {
			break
		}
	}

	var tok *Token
	line := l.line
	column := l.column

	single := func(t TokenType) *Token {
		tok := &Token{Type: t, Value: string(l.ch), Line: line, Column: column}
		l.readChar()
		return tok
	}

	switch l.ch {
	case ':':
		tok = single(TOKEN_COLON)
	case '{':
		tok = single(TOKEN_LBRACE)
	case '}':
		tok = single(TOKEN_RBRACE)
	case '(':
		tok = single(TOKEN_LPAREN)
	case ')':
		tok = single(TOKEN_RPAREN)
	case '[':
		tok = single(TOKEN_LBRACKET)
	case ']':
		tok = single(TOKEN_RBRACKET)
	case ',':
		tok = single(TOKEN_COMMA)
	case '!':
		tok = single(TOKEN_EXCLAMATION)
	case '"':
		value, ok := l.readString()
		if !ok {
			return nil, fmt.Errorf("unterminated string literal at %d:%d", line, column)
		}
		tok = &Token{Type: TOKEN_STRING, Value: value, Line: line, Column: column}
		l.readChar() // Skip closing quote
	case 0:
		tok = &Token{Type: TOKEN_EOF, Value: "", Line: line, Column: column}
	default:
		if isLetter(l.ch) || l.ch == '_' {
			value := l.readIdentifier()
			tokenType := TOKEN_IDENTIFIER
			if kw, ok := keywords[value]; ok {
				tokenType = kw
			}
			return &Token{Type: tokenType, Value: value, Line: line, Column: column}, nil
		} else if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())) {
			value := l.readNumber()
			return &Token{Type: TOKEN_NUMBER, Value: value, Line: line, Column: column}, nil
		}
		ch := l.ch
		l.readChar()
		return nil, fmt.Errorf("illegal character '%c' at %d:%d", ch, line, column)
	}

	return tok, nil
}

// isLetter checks if a character is a letter
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit checks if a character is a digit
func isDigit(ch byte) bool {
	return unicode.IsDigit(rune(ch))
}
