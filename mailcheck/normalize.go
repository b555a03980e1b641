// Package mailcheck normalizes captured outgoing email so it can be diffed
// against stored expected mail. Quoted-printable wrapping, MIME boundaries
// and dates all vary between runs; everything else should be stable.
package mailcheck

import (
	"regexp"
	"strings"
)

var (
	softBreakRE = regexp.MustCompile(`=\r?\n`)
	boundaryRE  = regexp.MustCompile(`boundary="?([^"\s;]+)"?`)
	dateRE      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	dateHdrRE   = regexp.MustCompile(`(?m)^Date: .*$`)
)

// ToText undoes the quoted-printable artifacts that make captured mail hard
// to read: soft line breaks (a trailing "=" plus newline) are joined back
// together and "=3D" is decoded to "=".
func ToText(raw string) string {
	text := softBreakRE.ReplaceAllString(raw, "")
	return strings.ReplaceAll(text, "=3D", "=")
}

// Normalize decodes the mail with ToText, then replaces every volatile token
// with a fixed placeholder: MIME boundary strings become the literal
// "boundary", YYYY-MM-DD substrings become "--date--", and the Date header's
// value becomes "***". The result is split into lines for structural diffing.
func Normalize(raw string) []string {
	text := ToText(raw)

	for _, match := range boundaryRE.FindAllStringSubmatch(text, -1) {
		text = strings.ReplaceAll(text, match[1], "boundary")
	}
	text = dateRE.ReplaceAllString(text, "--date--")
	text = dateHdrRE.ReplaceAllString(text, "Date: ***")

	return strings.Split(text, "\n")
}
