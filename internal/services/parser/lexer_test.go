package parser

import (
	"strings"
	"testing"
)

func TestLexer_Keywords(t *testing.T) {
	input := `authorization enum type model index identifier`

	expected := []struct {
		tokenType TokenType
		value     string
	}{
		{TOKEN_AUTHORIZATION, "authorization"},
		{TOKEN_ENUM, "enum"},
		{TOKEN_TYPE, "type"},
		{TOKEN_MODEL, "model"},
		{TOKEN_INDEX, "index"},
		{TOKEN_IDENTIFIER_KW, "identifier"},
		{TOKEN_EOF, ""},
	}

	lexer := NewLexer(input)

	for i, exp := range expected {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}

		if tok.Type != exp.tokenType {
			t.Errorf("test[%d]: expected token type %v, got %v", i, exp.tokenType, tok.Type)
		}

		if tok.Value != exp.value {
			t.Errorf("test[%d]: expected value %q, got %q", i, exp.value, tok.Value)
		}
	}
}

func TestLexer_Delimiters(t *testing.T) {
	input := `: { } ( ) [ ] , !`

	expected := []TokenType{
		TOKEN_COLON,
		TOKEN_LBRACE,
		TOKEN_RBRACE,
		TOKEN_LPAREN,
		TOKEN_RPAREN,
		TOKEN_LBRACKET,
		TOKEN_RBRACKET,
		TOKEN_COMMA,
		TOKEN_EXCLAMATION,
		TOKEN_EOF,
	}

	lexer := NewLexer(input)

	for i, exp := range expected {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != exp {
			t.Errorf("test[%d]: expected token type %v, got %v", i, exp, tok.Type)
		}
	}
}

func TestLexer_FieldDeclaration(t *testing.T) {
	input := `regions: [Region!]! default("US") validate("size(self) > 0")`

	expected := []struct {
		tokenType TokenType
		value     string
	}{
		{TOKEN_IDENTIFIER, "regions"},
		{TOKEN_COLON, ":"},
		{TOKEN_LBRACKET, "["},
		{TOKEN_IDENTIFIER, "Region"},
		{TOKEN_EXCLAMATION, "!"},
		{TOKEN_RBRACKET, "]"},
		{TOKEN_EXCLAMATION, "!"},
		{TOKEN_IDENTIFIER, "default"},
		{TOKEN_LPAREN, "("},
		{TOKEN_STRING, "US"},
		{TOKEN_RPAREN, ")"},
		{TOKEN_IDENTIFIER, "validate"},
		{TOKEN_LPAREN, "("},
		{TOKEN_STRING, "size(self) > 0"},
		{TOKEN_RPAREN, ")"},
		{TOKEN_EOF, ""},
	}

	lexer := NewLexer(input)

	for i, exp := range expected {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != exp.tokenType || tok.Value != exp.value {
			t.Errorf("test[%d]: expected %v(%q), got %v(%q)", i, exp.tokenType, exp.value, tok.Type, tok.Value)
		}
	}
}

func TestLexer_Literals(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		tokenType TokenType
		value     string
	}{
		{"integer", `364`, TOKEN_NUMBER, "364"},
		{"negative", `-5`, TOKEN_NUMBER, "-5"},
		{"decimal", `0.25`, TOKEN_NUMBER, "0.25"},
		{"snake case identifier", `product_name`, TOKEN_IDENTIFIER, "product_name"},
		{"leading underscore", `_internal`, TOKEN_IDENTIFIER, "_internal"},
		{"escaped quote", `"say \"hi\""`, TOKEN_STRING, `say "hi"`},
		{"single quotes inside", `"self.startsWith('https://')"`, TOKEN_STRING, `self.startsWith('https://')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewLexer(tt.input).NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Type != tt.tokenType {
				t.Errorf("expected token type %v, got %v", tt.tokenType, tok.Type)
			}
			if tok.Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, tok.Value)
			}
		})
	}
}

func TestLexer_Comments(t *testing.T) {
	input := `// leading comment
model Todo { // trailing comment
  content: String
}`

	lexer := NewLexer(input)
	var types []TokenType
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		types = append(types, tok.Type)
		if tok.Type == TOKEN_EOF {
			break
		}
	}

	expected := []TokenType{
		TOKEN_MODEL, TOKEN_IDENTIFIER, TOKEN_LBRACE,
		TOKEN_IDENTIFIER, TOKEN_COLON, TOKEN_IDENTIFIER,
		TOKEN_RBRACE, TOKEN_EOF,
	}
	if len(types) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(types), types)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Errorf("token[%d]: expected %v, got %v", i, expected[i], types[i])
		}
	}
}

func TestLexer_Positions(t *testing.T) {
	input := "model Todo {\n  content: String\n}"

	lexer := NewLexer(input)
	var content *Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Value == "content" {
			content = tok
		}
		if tok.Type == TOKEN_EOF {
			break
		}
	}

	if content == nil {
		t.Fatal("content token not found")
	}
	if content.Line != 2 {
		t.Errorf("expected line 2, got %d", content.Line)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"illegal character", `model @Todo`, "illegal character '@'"},
		{"unterminated string", `default("abc`, "unterminated string literal"},
		{"string across lines", "default(\"abc\n\")", "unterminated string literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			var err error
			for i := 0; i < 10; i++ {
				var tok *Token
				tok, err = lexer.NextToken()
				if err != nil || tok.Type == TOKEN_EOF {
					break
				}
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestToken_IsWord(t *testing.T) {
	tests := []struct {
		tok  Token
		want bool
	}{
		{Token{Type: TOKEN_IDENTIFIER, Value: "name"}, true},
		{Token{Type: TOKEN_TYPE, Value: "type"}, true},
		{Token{Type: TOKEN_INDEX, Value: "index"}, true},
		{Token{Type: TOKEN_STRING, Value: "type"}, false},
		{Token{Type: TOKEN_NUMBER, Value: "1"}, false},
		{Token{Type: TOKEN_COLON, Value: ":"}, false},
	}

	for _, tt := range tests {
		if got := tt.tok.IsWord(); got != tt.want {
			t.Errorf("%s.IsWord() = %v, want %v", tt.tok.String(), got, tt.want)
		}
	}
}
