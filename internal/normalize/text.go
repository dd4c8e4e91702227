package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	titler   = cases.Title(language.BrazilianPortuguese)

	// Enrollment tags embedded in names and descriptions, like
	// "Ana Silva 1/6" or "Ana Silva 1/6[1]".
	enrollmentTag = regexp.MustCompile(`\s*\d+\s*/\s*\d+(\[\d+\])?`)

	categoryPrefix = regexp.MustCompile(`^(?i)(REC|DSP)\s*-\s*`)
)

// Fold lowercases a string and strips diacritics, for accent-insensitive
// comparison of Portuguese text.
func Fold(s string) string {
	out, _, err := transform.String(deaccent, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// MatchName produces the key used to reconcile a free-text name against
// the registry: lowercased, with any embedded enrollment tag removed.
func MatchName(s string) string {
	s = enrollmentTag.ReplaceAllString(s, "")
	return strings.ToLower(strings.TrimSpace(s))
}

// CleanCategory strips the spreadsheet's "REC - "/"DSP - " ledger
// prefixes, removes diacritics, and title-cases the remainder.
func CleanCategory(s string) string {
	s = categoryPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	out, _, err := transform.String(deaccent, s)
	if err == nil {
		s = out
	}
	return titler.String(strings.ToLower(s))
}

// ParseFlag interprets the spreadsheet's boolean-ish cells. The second
// return value reports whether the cell held a recognizable boolean at
// all; unrecognized text parses as (false, false).
func ParseFlag(s string) (value, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "1", "VERDADEIRO", "SIM":
		return true, true
	case "FALSE", "0", "FALSO", "NAO", "NÃO":
		return false, true
	default:
		return false, false
	}
}
