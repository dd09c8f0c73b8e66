package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinTextLength is the shortest question text (in characters) that counts as a question.
const MinTextLength = 5

// DefaultTopic is used whenever no topic can be read from the source text.
const DefaultTopic = "General"

// DefaultSource labels questions saved to the bank without an explicit provenance.
const DefaultSource = "manual"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts any casing and surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, true
	case Medium:
		return Medium, true
	case Hard:
		return Hard, true
	}
	return "", false
}

// InferDifficulty maps marks to a difficulty: up to 2 is easy, up to 5 is medium, above is hard.
func InferDifficulty(marks int) Difficulty {
	switch {
	case marks <= 2:
		return Easy
	case marks <= 5:
		return Medium
	default:
		return Hard
	}
}

// Rank orders difficulties easy < medium < hard; unknown values sort first.
func (d Difficulty) Rank() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 0
}

func (d Difficulty) Valid() bool {
	return d.Rank() > 0
}

// Question is a single exam question as produced by the extraction pipeline.
type Question struct {
	ID         string     `json:"id" gorm:"primaryKey;size:64"`
	Text       string     `json:"text" gorm:"type:text;not null"`
	Topic      string     `json:"topic" gorm:"index;not null"`
	Marks      int        `json:"marks" gorm:"not null"`
	Difficulty Difficulty `json:"difficulty" gorm:"size:16;index;not null"`
}

// Validate checks the record invariants. The id is not required here because
// pipeline output and PDF payloads may omit it; the store checks ids itself.
func (q *Question) Validate() error {
	var details []ValidationErrorDetail

	if utf8.RuneCountInString(strings.TrimSpace(q.Text)) < MinTextLength {
		details = append(details, ValidationErrorDetail{Field: "text", Reason: "must be at least 5 characters"})
	}
	if strings.TrimSpace(q.Topic) == "" {
		details = append(details, ValidationErrorDetail{Field: "topic", Reason: "is required"})
	}
	if q.Marks <= 0 {
		details = append(details, ValidationErrorDetail{Field: "marks", Reason: "must be a positive integer"})
	}
	if _, ok := ParseDifficulty(string(q.Difficulty)); !ok {
		details = append(details, ValidationErrorDetail{Field: "difficulty", Reason: "must be one of: easy, medium, hard"})
	}

	if len(details) > 0 {
		return &ErrorResponse{
			Code:    "invalid_question",
			Message: "Question must have valid text, topic, marks (positive number), and difficulty",
			Details: details,
		}
	}
	return nil
}

// BankQuestion is a question persisted in the question bank, with provenance metadata.
type BankQuestion struct {
	Question  `gorm:"embedded"`
	Tags      []string  `json:"tags" gorm:"serializer:json"`
	Source    string    `json:"source" gorm:"size:128;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime:false;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

func (BankQuestion) TableName() string {
	return "questions"
}

// Validate extends the core checks with the id requirement for stored records.
func (q *BankQuestion) Validate() error {
	err := q.Question.Validate()
	if strings.TrimSpace(q.ID) != "" {
		return err
	}
	idDetail := ValidationErrorDetail{Field: "id", Reason: "is required"}
	if errResp, ok := err.(*ErrorResponse); ok {
		errResp.Details = append(errResp.Details, idDetail)
		return errResp
	}
	return &ErrorResponse{
		Code:    "invalid_question",
		Message: "Question must have a valid ID",
		Details: []ValidationErrorDetail{idDetail},
	}
}

// QuestionPatch carries a partial update; nil fields are left untouched.
type QuestionPatch struct {
	Text       *string   `json:"text,omitempty"`
	Topic      *string   `json:"topic,omitempty"`
	Marks      *int      `json:"marks,omitempty"`
	Difficulty *string   `json:"difficulty,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Source     *string   `json:"source,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p QuestionPatch) Empty() bool {
	return p.Text == nil && p.Topic == nil && p.Marks == nil &&
		p.Difficulty == nil && p.Tags == nil && p.Source == nil
}

// ApplyTo merges the patch into q. Difficulty is lowercased; an unrecognised
// value is stored as given so that validation can reject it.
func (p QuestionPatch) ApplyTo(q *BankQuestion) {
	if p.Text != nil {
		q.Text = strings.TrimSpace(*p.Text)
	}
	if p.Topic != nil {
		q.Topic = strings.TrimSpace(*p.Topic)
	}
	if p.Marks != nil {
		q.Marks = *p.Marks
	}
	if p.Difficulty != nil {
		q.Difficulty = Difficulty(strings.ToLower(strings.TrimSpace(*p.Difficulty)))
	}
	if p.Tags != nil {
		q.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Source != nil {
		q.Source = strings.TrimSpace(*p.Source)
	}
}
