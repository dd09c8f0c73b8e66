// Package extraction turns free text into exam questions.
//
// The pipeline runs in three stages: segmentation into candidate fragments,
// field extraction per fragment (marks, then a trailing difficulty segment,
// then topic, then difficulty keywords when no segment named one, then
// cleanup, each stripping what it matched), and normalization, which drops
// short and duplicate records. Every stage is a pure function over strings,
// so an Extractor is safe for concurrent use.
package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/google/uuid"
)

// Extractor runs the pipeline. NewID is called once per accepted fragment.
type Extractor struct {
	NewID func() string
}

func NewExtractor() *Extractor {
	return &Extractor{NewID: uuid.NewString}
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor over raw. It never fails; text with no
// recognisable questions yields an empty, non-nil slice.
func Extract(raw string) []models.Question {
	return defaultExtractor.Extract(raw)
}

func (e *Extractor) Extract(raw string) []models.Question {
	if strings.TrimSpace(raw) == "" {
		return []models.Question{}
	}

	questions := Dedupe(e.parseAll(segmentLines(raw)))
	if len(questions) > 0 {
		return questions
	}
	return Dedupe(e.parseAll(segmentBlocks(raw)))
}

func (e *Extractor) parseAll(fragments []string) []models.Question {
	questions := make([]models.Question, 0, len(fragments))
	for _, fragment := range fragments {
		if q, ok := e.ParseFragment(fragment); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

// ParseFragment extracts a single question from one fragment. ok is false when
// the cleaned text is too short to be a question.
func (e *Extractor) ParseFragment(fragment string) (models.Question, bool) {
	marks, rest := extractMarks(strings.TrimSpace(fragment))
	difficulty, rest, explicit := extractTrailingDifficulty(rest)
	topic, rest := extractTopic(rest)
	if !explicit {
		difficulty, rest, explicit = extractDifficulty(rest)
	}
	text := cleanText(rest)

	if utf8.RuneCountInString(text) < models.MinTextLength {
		return models.Question{}, false
	}
	if !explicit {
		difficulty = models.InferDifficulty(marks)
	}

	return models.Question{
		ID:         e.newID(),
		Text:       text,
		Topic:      topic,
		Marks:      marks,
		Difficulty: difficulty,
	}, true
}

func (e *Extractor) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// Dedupe keeps the first occurrence of each case-insensitive trimmed text and
// drops anything shorter than the minimum length. Order is preserved.
func Dedupe(questions []models.Question) []models.Question {
	seen := make(map[string]struct{}, len(questions))
	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		key := strings.ToLower(strings.TrimSpace(q.Text))
		if utf8.RuneCountInString(key) < models.MinTextLength {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}
