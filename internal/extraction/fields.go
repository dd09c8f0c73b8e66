package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/GajendraSingh33/smart-prep/internal/models"
)

// marks annotations, tried in order; the first pattern that matches anywhere wins
var marksPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\((\d+)\s*marks?\)`),
	regexp.MustCompile(`(?i)\[(\d+)\s*marks?\]`),
	regexp.MustCompile(`(?i)(\d+)\s*marks?\b`),
	regexp.MustCompile(`(?i)\((\d+)\s*pts?\)`),
	regexp.MustCompile(`(?i)(\d+)\s*pts?\b`),
	regexp.MustCompile(`\((\d+)\)`),
}

var (
	trailingTopic = regexp.MustCompile(`\s+[-–—|]\s*([^-–—|]+)$`)
	middleTopic   = regexp.MustCompile(`\s+[-–—|]\s*([^-–—|]+?)\s+[-–—|]`)
)

var topicKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btopic:\s*([^\n\r]+)`),
	regexp.MustCompile(`(?i)\bsubject:\s*([^\n\r]+)`),
	regexp.MustCompile(`(?i)\barea:\s*([^\n\r]+)`),
	regexp.MustCompile(`(?i)\bcategory:\s*([^\n\r]+)`),
	regexp.MustCompile(`(?i)\bsection:\s*([^\n\r]+)`),
}

type difficultyFamily struct {
	level   models.Difficulty
	pattern *regexp.Regexp
}

var difficultyFamilies = []difficultyFamily{
	{models.Easy, regexp.MustCompile(`(?i)\b(easy|simple|basic)\b`)},
	{models.Medium, regexp.MustCompile(`(?i)\b(medium|moderate|intermediate)\b`)},
	{models.Hard, regexp.MustCompile(`(?i)\b(hard|difficult|complex|advanced|challenging)\b`)},
}

// cut removes text[start:end], leaving a single space so neighbours do not merge.
func cut(text string, start, end int) string {
	return strings.TrimSpace(text[:start] + " " + text[end:])
}

// extractMarks returns the annotated marks and the text with the annotation removed.
// A matched annotation whose number is not a positive int still counts as consumed.
func extractMarks(text string) (int, string) {
	for _, re := range marksPatterns {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		marks, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || marks < 1 {
			marks = 1
		}
		return marks, cut(text, loc[0], loc[1])
	}
	return 1, text
}

// isDifficultyWord reports whether s is nothing but a difficulty keyword.
func isDifficultyWord(s string) bool {
	s = strings.TrimSpace(s)
	for _, fam := range difficultyFamilies {
		if loc := fam.pattern.FindStringIndex(s); loc != nil && loc[0] == 0 && loc[1] == len(s) {
			return true
		}
	}
	return false
}

// extractTrailingDifficulty consumes a final separator segment that is only a
// difficulty word, so keywords elsewhere in the text are left alone.
func extractTrailingDifficulty(text string) (models.Difficulty, string, bool) {
	loc := trailingTopic.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	word := strings.TrimSpace(text[loc[2]:loc[3]])
	for _, fam := range difficultyFamilies {
		if m := fam.pattern.FindStringIndex(word); m != nil && m[0] == 0 && m[1] == len(word) {
			return fam.level, cut(text, loc[0], loc[1]), true
		}
	}
	return "", text, false
}

// extractTopic looks for a trailing separator topic, then a separator-delimited one,
// then an explicit label keyword.
func extractTopic(text string) (string, string) {
	if loc := trailingTopic.FindStringSubmatchIndex(text); loc != nil {
		topic := strings.TrimSpace(text[loc[2]:loc[3]])
		if topic != "" && !isDifficultyWord(topic) {
			return topic, cut(text, loc[0], loc[1])
		}
	}

	if loc := middleTopic.FindStringSubmatchIndex(text); loc != nil {
		topic := strings.TrimSpace(text[loc[2]:loc[3]])
		if topic != "" && !isDifficultyWord(topic) {
			return topic, cut(text, loc[0], loc[1])
		}
	}

	for _, re := range topicKeywords {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if topic := strings.TrimSpace(text[loc[2]:loc[3]]); topic != "" {
			return topic, cut(text, loc[0], loc[1])
		}
	}

	return models.DefaultTopic, text
}

// extractDifficulty removes the first keyword of the first family that matches.
// ok is false when the text carries no explicit difficulty.
func extractDifficulty(text string) (models.Difficulty, string, bool) {
	for _, fam := range difficultyFamilies {
		if loc := fam.pattern.FindStringIndex(text); loc != nil {
			return fam.level, cut(text, loc[0], loc[1]), true
		}
	}
	return "", text, false
}
