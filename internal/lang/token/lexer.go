package token

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.trai.ch/zerr"
)

// Tokenise converts src into a token tree.
func Tokenise(src string) ([]Token, error) {
	l := &lexer{src: src}
	return l.lex(0, -1)
}

type lexer struct {
	src string
	pos int
}

// lex reads tokens until closer is consumed, or until EOF when closer is 0.
// open is the offset of the opening delimiter, or -1 at top level.
func (l *lexer) lex(closer byte, open int) ([]Token, error) {
	var out []Token
	callable := false

	for {
		if l.pos >= len(l.src) {
			if closer != 0 {
				return nil, at(ErrUnclosedDelimiter, open)
			}
			return out, nil
		}

		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		start := l.pos

		switch {
		case r == '/' && strings.HasPrefix(l.src[l.pos:], "//"):
			l.skipLine()
			continue
		case unicode.IsSpace(r):
			l.pos += size
			continue
		case unicode.IsLetter(r) || r == '_':
			out = append(out, l.readName())
			callable = out[len(out)-1].Kind == Name
			continue
		case r >= '0' && r <= '9':
			tok, err := l.readNumber()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
			callable = true
			continue
		case r == '"':
			tok, err := l.readString()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
			callable = true
			continue
		}

		l.pos += size

		switch r {
		case '.':
			out = append(out, Token{Kind: Dot, Offset: start})
		case '=':
			out = append(out, Token{Kind: Assign, Offset: start})
		case ';':
			out = append(out, Token{Kind: Semicolon, Offset: start})
		case ':':
			out = append(out, Token{Kind: Colon, Offset: start})
		case ',':
			out = append(out, Token{Kind: Comma, Offset: start})
		case '(':
			children, err := l.lex(')', start)
			if err != nil {
				return nil, err
			}
			if callable {
				out = append(out, Token{Kind: Call, Offset: start, Args: splitArgs(children)})
			} else {
				out = append(out, Token{Kind: Parens, Offset: start, Children: children})
			}
			callable = true
			continue
		case '{':
			children, err := l.lex('}', start)
			if err != nil {
				return nil, err
			}
			out = append(out, Token{Kind: Block, Offset: start, Children: children})
			callable = true
			continue
		default:
			if closer != 0 && r == rune(closer) {
				return out, nil
			}
			return nil, zerr.With(at(ErrUnexpectedCharacter, start), "char", string(r))
		}
		callable = false
	}
}

func (l *lexer) skipLine() {
	if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
		l.pos += i + 1
		return
	}
	l.pos = len(l.src)
}

func (l *lexer) readName() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.pos += size
	}

	text := l.src[start:l.pos]
	kind := Name
	switch text {
	case Let, Return, Fn:
		kind = Keyword
	}
	return Token{Kind: kind, Offset: start, Text: text}
}

func (l *lexer) readNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}

	text := l.src[start:l.pos]
	n, err := strconv.ParseUint(strings.ReplaceAll(text, "_", ""), 10, 8)
	if err != nil {
		return Token{}, zerr.With(at(ErrInvalidNumber, start), "text", text)
	}
	return Token{Kind: Number, Offset: start, Value: uint8(n)}, nil
}

// readString reads a literal without escape sequences.
func (l *lexer) readString() (Token, error) {
	start := l.pos
	end := strings.IndexByte(l.src[start+1:], '"')
	if end < 0 {
		return Token{}, at(ErrUnclosedString, start)
	}
	l.pos = start + 1 + end + 1
	return Token{Kind: String, Offset: start, Text: l.src[start+1 : start+1+end]}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// splitArgs splits call contents at top-level commas. Empty arguments are dropped.
func splitArgs(tokens []Token) [][]Token {
	var args [][]Token
	var current []Token
	for _, t := range tokens {
		if t.Kind != Comma {
			current = append(current, t)
			continue
		}
		if len(current) > 0 {
			args = append(args, current)
		}
		current = nil
	}
	if len(current) > 0 {
		args = append(args, current)
	}
	return args
}
