// Package format renders identity documents and phone numbers for display.
package format

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// Digits drops every non-digit character.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// DNI keeps only the digits of a national ID.
func DNI(s string) string {
	return Digits(s)
}

// Phone groups a 9-digit mobile number as "ddd ddd ddd". Anything else is
// returned unchanged.
func Phone(s string) string {
	d := Digits(s)
	if len(d) != 9 {
		return s
	}
	return strings.Join([]string{d[0:3], d[3:6], d[6:9]}, " ")
}
