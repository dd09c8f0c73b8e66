package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// converts validator field errors into the uniform error payload
func toErrorResponse(code, message string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ErrorResponse{Code: code, Message: err.Error()}
	}
	details := make([]ValidationErrorDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, ValidationErrorDetail{
			Field:  jsonFieldName(fe.Field()),
			Reason: reasonFor(fe),
		})
	}
	return &ErrorResponse{Code: code, Message: message, Details: details}
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	if field == "ID" {
		return "id"
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "dive":
		return "contains an invalid entry"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// QuestionInput is the client-supplied form of a question.
type QuestionInput struct {
	ID         string `json:"id"`
	Text       string `json:"text" validate:"required,min=5"`
	Topic      string `json:"topic" validate:"required"`
	Marks      int    `json:"marks" validate:"gt=0"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

func (in *QuestionInput) normalize() {
	in.ID = strings.TrimSpace(in.ID)
	in.Text = strings.TrimSpace(in.Text)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
}

func (in *QuestionInput) Validate() error {
	in.normalize()
	return toErrorResponse("invalid_question",
		"Question must have valid text, topic, marks (positive number), and difficulty",
		validate.Struct(in))
}

func (in QuestionInput) ToQuestion() Question {
	return Question{
		ID:         in.ID,
		Text:       in.Text,
		Topic:      in.Topic,
		Marks:      in.Marks,
		Difficulty: Difficulty(in.Difficulty),
	}
}

// SaveQuestionRequest adds (or upserts) a question in the bank.
type SaveQuestionRequest struct {
	Question *QuestionInput `json:"question"`
	Tags     []string       `json:"tags"`
	Source   string         `json:"source"`
}

// implements the Validator interface
func (r *SaveQuestionRequest) Validate() error {
	if r.Question == nil {
		return &ErrorResponse{Code: "missing_question", Message: "Question data is required"}
	}
	return r.Question.Validate()
}

// ToBankQuestion builds the stored record; timestamps and a missing id are set by the service.
func (r *SaveQuestionRequest) ToBankQuestion() BankQuestion {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return BankQuestion{
		Question: r.Question.ToQuestion(),
		Tags:     tags,
		Source:   strings.TrimSpace(r.Source),
	}
}

// ReplaceQuestionRequest overwrites every core field of a stored question.
type ReplaceQuestionRequest struct {
	QuestionInput
	Tags   *[]string `json:"tags,omitempty"`
	Source *string   `json:"source,omitempty"`
}

func (r *ReplaceQuestionRequest) Validate() error {
	return r.QuestionInput.Validate()
}

// ToPatch turns the replacement into a patch that sets every core field.
func (r *ReplaceQuestionRequest) ToPatch() QuestionPatch {
	return QuestionPatch{
		Text:       &r.Text,
		Topic:      &r.Topic,
		Marks:      &r.Marks,
		Difficulty: &r.Difficulty,
		Tags:       r.Tags,
		Source:     r.Source,
	}
}

// PatchQuestionRequest is a partial update; only supplied fields are checked.
type PatchQuestionRequest struct {
	QuestionPatch
}

func (r *PatchQuestionRequest) Validate() error {
	if r.Empty() {
		return &ErrorResponse{Code: "empty_update", Message: "At least one field must be provided"}
	}
	var details []ValidationErrorDetail
	if r.Text != nil && len([]rune(strings.TrimSpace(*r.Text))) < MinTextLength {
		details = append(details, ValidationErrorDetail{Field: "text", Reason: "must be at least 5 characters"})
	}
	if r.Topic != nil && strings.TrimSpace(*r.Topic) == "" {
		details = append(details, ValidationErrorDetail{Field: "topic", Reason: "must not be empty"})
	}
	if r.Marks != nil && *r.Marks <= 0 {
		details = append(details, ValidationErrorDetail{Field: "marks", Reason: "must be a positive integer"})
	}
	if r.Difficulty != nil {
		if _, ok := ParseDifficulty(*r.Difficulty); !ok {
			details = append(details, ValidationErrorDetail{Field: "difficulty", Reason: "must be one of: easy, medium, hard"})
		}
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "invalid_update", Message: "Invalid question update", Details: details}
	}
	return nil
}

// GenerateRequest is the JSON form of a generation request.
type GenerateRequest struct {
	Syllabus         string `json:"syllabus"`
	ExtractedContent string `json:"extractedContent"`
}

func (r *GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Syllabus) == "" && strings.TrimSpace(r.ExtractedContent) == "" {
		return &ErrorResponse{
			Code:    "missing_input",
			Message: "Provide a syllabus or extracted content",
		}
	}
	return nil
}

// PaperQuestion is a question as submitted for PDF rendering.
type PaperQuestion struct {
	Text       string `json:"text" validate:"required"`
	Topic      string `json:"topic" validate:"required"`
	Marks      int    `json:"marks" validate:"gte=0"`
	Difficulty string `json:"difficulty" validate:"required"`
}

// PaperRequest asks for a printable question paper.
type PaperRequest struct {
	Questions    []PaperQuestion `json:"questions" validate:"required,min=1,dive"`
	Title        string          `json:"title"`
	Subject      string          `json:"subject"`
	Instructions string          `json:"instructions"`
}

func (r *PaperRequest) Validate() error {
	if len(r.Questions) == 0 {
		return &ErrorResponse{Code: "missing_questions", Message: "No questions provided"}
	}
	return toErrorResponse("invalid_questions", "All questions must have text, topic, marks, and difficulty", validate.Struct(r))
}
