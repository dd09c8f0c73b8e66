package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minFragmentLength is the shortest line (in characters) worth treating as a question.
const minFragmentLength = 10

var noisePhrases = []string{"here are", "questions:", "sample questions"}

var (
	blankLineSplit  = regexp.MustCompile(`\n\s*\n`)
	numberedMarker  = regexp.MustCompile(`(?:^|\s)\d+\.\s+`)
	lineBreakFamily = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

func isNoise(line string) bool {
	if utf8.RuneCountInString(line) < minFragmentLength {
		return true
	}
	if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "===") {
		return true
	}
	lower := strings.ToLower(line)
	for _, phrase := range noisePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// segmentLines splits raw into trimmed, non-empty lines with obvious non-questions dropped.
func segmentLines(raw string) []string {
	lines := strings.Split(lineBreakFamily.Replace(raw), "\n")
	fragments := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isNoise(line) {
			continue
		}
		fragments = append(fragments, line)
	}
	return fragments
}

// segmentBlocks is the coarse split used when the line pass finds nothing:
// paragraphs separated by blank lines, then runs delimited by "<n>." markers.
func segmentBlocks(raw string) []string {
	var blocks []string
	for _, para := range blankLineSplit.Split(lineBreakFamily.Replace(raw), -1) {
		for _, block := range numberedMarker.Split(para, -1) {
			block = strings.TrimSpace(block)
			if utf8.RuneCountInString(block) < minFragmentLength {
				continue
			}
			blocks = append(blocks, block)
		}
	}
	return blocks
}
