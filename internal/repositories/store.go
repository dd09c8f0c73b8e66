package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/GajendraSingh33/smart-prep/internal/models"
)

var (
	ErrNotFound        = errors.New("question not found")
	ErrInvalidQuestion = errors.New("invalid question")
)

// QuestionStore persists the question bank.
//
// Append inserts, or replaces the record with the same id while keeping its
// creation time. Update and Delete report found=false for unknown ids rather
// than failing. Stores own the timestamps.
type QuestionStore interface {
	Load(ctx context.Context) ([]models.BankQuestion, error)
	Get(ctx context.Context, id string) (models.BankQuestion, error)
	Append(ctx context.Context, q *models.BankQuestion) error
	Update(ctx context.Context, id string, patch models.QuestionPatch) (models.BankQuestion, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// InvalidQuestionError carries the validation failure behind ErrInvalidQuestion.
type InvalidQuestionError struct {
	Cause error
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidQuestion, e.Cause)
}

func (e *InvalidQuestionError) Is(target error) bool {
	return target == ErrInvalidQuestion
}

func (e *InvalidQuestionError) Unwrap() error {
	return e.Cause
}

func validateRecord(q *models.BankQuestion) error {
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if err := q.Validate(); err != nil {
		return &InvalidQuestionError{Cause: err}
	}
	return nil
}
