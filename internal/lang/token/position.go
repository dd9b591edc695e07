package token

// Locate converts a byte offset in src into a 1-based line and column.
// Columns count characters, not bytes. The offset just past the end is valid.
func Locate(src string, offset int) (line, column int, ok bool) {
	if offset < 0 || offset > len(src) {
		return 0, 0, false
	}

	line, column = 1, 1
	for i, r := range src {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column, true
}
