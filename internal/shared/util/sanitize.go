package util

import (
	"strings"
	"unicode"
)

// CleanFileName strips directory components and control characters from an
// uploaded file name. It returns "" when nothing usable remains.
func CleanFileName(name string) string {
	s := strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}
