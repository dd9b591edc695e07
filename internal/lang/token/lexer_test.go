package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pave/internal/lang/token"
	"go.trai.ch/zerr"
)

func TestTokenise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{
		{
			name:  "let binding",
			input: `let x = 5;`,
			want: []token.Token{
				{Kind: token.Keyword, Offset: 0, Text: "let"},
				{Kind: token.Name, Offset: 4, Text: "x"},
				{Kind: token.Assign, Offset: 6},
				{Kind: token.Number, Offset: 8, Value: 5},
				{Kind: token.Semicolon, Offset: 9},
			},
		},
		{
			name:  "call with arguments",
			input: `print("hi", 2)`,
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "print"},
				{Kind: token.Call, Offset: 5, Args: [][]token.Token{
					{{Kind: token.String, Offset: 6, Text: "hi"}},
					{{Kind: token.Number, Offset: 12, Value: 2}},
				}},
			},
		},
		{
			name:  "call without arguments",
			input: `main()`,
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "main"},
				{Kind: token.Call, Offset: 4},
			},
		},
		{
			name:  "trailing comma",
			input: `f(a,)`,
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "f"},
				{Kind: token.Call, Offset: 1, Args: [][]token.Token{
					{{Kind: token.Name, Offset: 2, Text: "a"}},
				}},
			},
		},
		{
			name:  "parentheses after operator",
			input: `x = (y)`,
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "x"},
				{Kind: token.Assign, Offset: 2},
				{Kind: token.Parens, Offset: 4, Children: []token.Token{
					{Kind: token.Name, Offset: 5, Text: "y"},
				}},
			},
		},
		{
			name:  "keyword does not start a call",
			input: `return (a)`,
			want: []token.Token{
				{Kind: token.Keyword, Offset: 0, Text: "return"},
				{Kind: token.Parens, Offset: 7, Children: []token.Token{
					{Kind: token.Name, Offset: 8, Text: "a"},
				}},
			},
		},
		{
			name:  "dotted call",
			input: `compile_io.println("x")`,
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "compile_io"},
				{Kind: token.Dot, Offset: 10},
				{Kind: token.Name, Offset: 11, Text: "println"},
				{Kind: token.Call, Offset: 18, Args: [][]token.Token{
					{{Kind: token.String, Offset: 19, Text: "x"}},
				}},
			},
		},
		{
			name:  "function with block",
			input: "fn main(): u8 {\n\t1\n}",
			want: []token.Token{
				{Kind: token.Keyword, Offset: 0, Text: "fn"},
				{Kind: token.Name, Offset: 3, Text: "main"},
				{Kind: token.Call, Offset: 7},
				{Kind: token.Colon, Offset: 9},
				{Kind: token.Name, Offset: 11, Text: "u8"},
				{Kind: token.Block, Offset: 14, Children: []token.Token{
					{Kind: token.Number, Offset: 17, Value: 1},
				}},
			},
		},
		{
			name:  "string keeps delimiters of other kinds",
			input: `f("(}")`,
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "f"},
				{Kind: token.Call, Offset: 1, Args: [][]token.Token{
					{{Kind: token.String, Offset: 2, Text: "(}"}},
				}},
			},
		},
		{
			name:  "empty arguments are dropped",
			input: "f(, a,,)",
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "f"},
				{Kind: token.Call, Offset: 1, Args: [][]token.Token{
					{{Kind: token.Name, Offset: 4, Text: "a"}},
				}},
			},
		},
		{
			name:  "only commas",
			input: "f(,)",
			want: []token.Token{
				{Kind: token.Name, Offset: 0, Text: "f"},
				{Kind: token.Call, Offset: 1},
			},
		},
		{
			name:  "number separators",
			input: `2_55`,
			want: []token.Token{
				{Kind: token.Number, Offset: 0, Value: 255},
			},
		},
		{
			name:  "line comment",
			input: "// header\nx // trailing",
			want: []token.Token{
				{Kind: token.Name, Offset: 10, Text: "x"},
			},
		},
		{
			name:  "empty input",
			input: "  \n\t",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := token.Tokenise(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenise_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantOffset int
	}{
		{name: "unclosed paren", input: "f(a", wantErr: token.ErrUnclosedDelimiter, wantOffset: 1},
		{name: "unclosed nested block", input: "{ { }", wantErr: token.ErrUnclosedDelimiter, wantOffset: 0},
		{name: "unclosed string", input: `x "abc`, wantErr: token.ErrUnclosedString, wantOffset: 2},
		{name: "number overflow", input: "256", wantErr: token.ErrInvalidNumber, wantOffset: 0},
		{name: "unexpected character", input: "a + b", wantErr: token.ErrUnexpectedCharacter, wantOffset: 2},
		{name: "stray closer", input: "a)", wantErr: token.ErrUnexpectedCharacter, wantOffset: 1},
		{name: "mismatched closer", input: "f(a}", wantErr: token.ErrUnexpectedCharacter, wantOffset: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := token.Tokenise(tt.input)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error, got %T", err)
			assert.Equal(t, tt.wantOffset, zErr.Metadata()["offset"])
		})
	}
}

func TestLocate(t *testing.T) {
	src := "ab\ncd\n\né"

	tests := []struct {
		offset     int
		wantLine   int
		wantColumn int
		wantOK     bool
	}{
		{offset: 0, wantLine: 1, wantColumn: 1, wantOK: true},
		{offset: 1, wantLine: 1, wantColumn: 2, wantOK: true},
		{offset: 3, wantLine: 2, wantColumn: 1, wantOK: true},
		{offset: 4, wantLine: 2, wantColumn: 2, wantOK: true},
		{offset: 7, wantLine: 4, wantColumn: 1, wantOK: true},
		{offset: len(src), wantLine: 4, wantColumn: 2, wantOK: true},
		{offset: len(src) + 1, wantOK: false},
		{offset: -1, wantOK: false},
	}

	for _, tt := range tests {
		line, column, ok := token.Locate(src, tt.offset)
		assert.Equal(t, tt.wantOK, ok, "offset %d", tt.offset)
		if tt.wantOK {
			assert.Equal(t, tt.wantLine, line, "line at offset %d", tt.offset)
			assert.Equal(t, tt.wantColumn, column, "column at offset %d", tt.offset)
		}
	}
}

func TestToken_String(t *testing.T) {
	tokens, err := token.Tokenise(`let s = read_file("a.txt", 1)`)
	require.NoError(t, err)

	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	assert.Equal(t, []string{"let", "s", "=", "read_file", `("a.txt", 1)`}, parts)
}
