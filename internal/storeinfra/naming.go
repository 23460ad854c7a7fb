package storeinfra

import (
	"reflect"
	"strings"
	"unicode"
)

// EntityLabel derives a stable record label from a model value's Go type
// name. The label shows up in not-found errors, e.g. *UserProfile becomes
// "user_profile".
func EntityLabel(record any) string {
	t := reflect.TypeOf(record)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "record"
	}
	return ToSnake(t.Name())
}

// ToSnake converts the provided string to snake_case using ASCII-aware
// rules. Repositories use it to derive entity labels and column names from
// Go identifiers; punctuation that can show up in reflected type names is
// folded into underscores so the result is always a valid SQL identifier.
func ToSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	boundary := func(i int) bool {
		if b.Len() == 0 {
			return false
		}
		prev := runes[i-1]
		if unicode.IsLower(prev) || unicode.IsDigit(prev) {
			return true
		}
		// Acronym end: "HTTPServer" splits before "Server".
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}

	pending := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if pending || boundary(i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			pending = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			if pending {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pending = false

		default:
			// Separators and anything exotic collapse into one underscore.
			pending = b.Len() > 0
		}
	}

	return strings.Trim(b.String(), "_")
}
