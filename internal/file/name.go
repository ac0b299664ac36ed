package file

import (
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength        = 100
	maxContentTypeLength = 100

	forbiddenNameChars = `<>:"/\|?*;`
)

// ValidName reports whether name is non-empty and free of the characters < > : " / \ | ? * ;.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, forbiddenNameChars)
}

// Extension returns the suffix from the last '.' inclusive, or "" when there is none.
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

func checkName(op, name string) error {
	if !ValidName(name) || utf8.RuneCountInString(name) > maxNameLength {
		return newError(KindInvalidName, op, nil)
	}
	return nil
}
