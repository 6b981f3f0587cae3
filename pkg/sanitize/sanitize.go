// Package sanitize cleans free text before it is persisted or echoed back.
package sanitize

import "strings"

var replacer = strings.NewReplacer(
	"\r", " ",
	"\n", " ",
	"\t", " ",
	"<", "",
	">", "",
)

// Text replaces line breaks and tabs with spaces and drops angle brackets.
func Text(input string) string {
	return replacer.Replace(input)
}

// Email trims, sanitizes and lower-cases an address.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(Text(input)))
}
