package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// "<n>." numbering, with or without a following space
var numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)

// leading labels after numbering; each is applied at most once, in this order
var prefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\)\s*`),
	regexp.MustCompile(`^\(\d+\)\s*`),
	regexp.MustCompile(`(?i)^[a-z][.)]\s+`),
	regexp.MustCompile(`^[ivx]+\.\s+`),
	regexp.MustCompile(`(?i)^question\s*\d+\s*[:.)]?\s*`),
	regexp.MustCompile(`(?i)^question\s*:\s*`),
	regexp.MustCompile(`(?i)^q\d+\s*[:.)]?\s*`),
}

var (
	danglingSeparators = regexp.MustCompile(`\s*[-–—|]+$`)
	interrogative      = regexp.MustCompile(`(?i)^(what|how|why|when|where)\b`)
	trailingPunct      = regexp.MustCompile(`[.:;,]+$`)
)

// cleanText strips numbering, collapses whitespace and enforces a trailing
// question mark on interrogative text.
func cleanText(text string) string {
	cleaned := stripNumbering(strings.TrimSpace(text))
	for _, re := range prefixPatterns {
		if loc := re.FindStringIndex(cleaned); loc != nil {
			cleaned = cleaned[loc[1]:]
		}
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.TrimSpace(danglingSeparators.ReplaceAllString(cleaned, ""))

	if interrogative.MatchString(cleaned) || strings.Contains(cleaned, "?") {
		if !strings.HasSuffix(cleaned, "?") {
			cleaned = trailingPunct.ReplaceAllString(cleaned, "") + "?"
		}
	}
	return cleaned
}

// stripNumbering drops a leading "<n>." unless it is the integer part of a
// decimal such as 3.14.
func stripNumbering(text string) string {
	loc := numberedPrefix.FindStringIndex(text)
	if loc == nil {
		return text
	}
	next, _ := utf8.DecodeRuneInString(text[loc[1]:])
	if text[loc[1]-1] == '.' && unicode.IsDigit(next) {
		return text
	}
	return text[loc[1]:]
}
