package util

import (
	"database/sql"
	"unicode/utf8"
)

// StringToNullString maps "" to NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Truncate shortens s to at most n runes for log fields. Model replies are
// often multi-byte, so the cut never splits a rune.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
