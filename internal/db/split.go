package db

import "strings"

// SplitStatements splits SQL text on top-level semicolons. Semicolons inside
// quoted strings, quoted identifiers and comments do not split. Empty
// statements are dropped and each statement is trimmed.
func SplitStatements(query string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := closingQuote(query, i+1, c)
			current.WriteString(query[i:end])
			i = end - 1
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query)
			} else {
				end += i
			}
			current.WriteString(query[i:end])
			i = end - 1
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = len(query)
			} else {
				end += i + 4
			}
			current.WriteString(query[i:end])
			i = end - 1
		case c == ';':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return statements
}

// closingQuote returns the index just past the quote that closes a literal
// opened before start. A doubled quote is an escaped quote; backslashes are
// ordinary characters, as in SQLite and standard PostgreSQL strings.
func closingQuote(query string, start int, quote byte) int {
	for i := start; i < len(query); i++ {
		if query[i] == quote {
			if i+1 < len(query) && query[i+1] == quote {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(query)
}
