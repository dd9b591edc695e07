package token

import "go.trai.ch/zerr"

var (
	// ErrUnclosedDelimiter is returned when a parenthesis or brace is never closed.
	ErrUnclosedDelimiter = zerr.New("unclosed delimiter")

	// ErrUnclosedString is returned when a string literal is never closed.
	ErrUnclosedString = zerr.New("unclosed string literal")

	// ErrUnexpectedCharacter is returned for characters that start no token.
	ErrUnexpectedCharacter = zerr.New("unexpected character")

	// ErrInvalidNumber is returned when a number literal does not fit in a u8.
	ErrInvalidNumber = zerr.New("invalid number literal")
)

func at(err error, offset int) error {
	return zerr.With(err, "offset", offset)
}
