package services

import (
	"sort"
	"strings"

	"github.com/GajendraSingh33/smart-prep/internal/models"
)

// SortKey names a field the bank can be ordered by.
type SortKey string

const (
	SortCreatedAt  SortKey = "createdAt"
	SortUpdatedAt  SortKey = "updatedAt"
	SortMarks      SortKey = "marks"
	SortTopic      SortKey = "topic"
	SortDifficulty SortKey = "difficulty"
	SortText       SortKey = "text"
	SortID         SortKey = "id"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

type lessFunc func(a, b *models.BankQuestion) bool

var comparators = map[SortKey]lessFunc{
	SortCreatedAt:  func(a, b *models.BankQuestion) bool { return a.CreatedAt.Before(b.CreatedAt) },
	SortUpdatedAt:  func(a, b *models.BankQuestion) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
	SortMarks:      func(a, b *models.BankQuestion) bool { return a.Marks < b.Marks },
	SortTopic:      func(a, b *models.BankQuestion) bool { return strings.ToLower(a.Topic) < strings.ToLower(b.Topic) },
	SortDifficulty: func(a, b *models.BankQuestion) bool { return a.Difficulty.Rank() < b.Difficulty.Rank() },
	SortText:       func(a, b *models.BankQuestion) bool { return strings.ToLower(a.Text) < strings.ToLower(b.Text) },
	SortID:         func(a, b *models.BankQuestion) bool { return a.ID < b.ID },
}

// ParseSortKey maps a query value to a SortKey; empty means createdAt.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortCreatedAt, nil
	}
	key := SortKey(s)
	if _, ok := comparators[key]; !ok {
		return "", ErrInvalidSortKey
	}
	return key, nil
}

// ParseSortOrder accepts asc or desc in any case; empty means desc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "", Descending:
		return Descending, nil
	case Ascending:
		return Ascending, nil
	}
	return "", ErrInvalidSortOrder
}

// SortKeys lists the accepted keys in documentation order.
func SortKeys() []SortKey {
	return []SortKey{SortCreatedAt, SortUpdatedAt, SortMarks, SortTopic, SortDifficulty, SortText, SortID}
}

// sortQuestions orders in place. Equal elements keep their stored order in both directions.
func sortQuestions(questions []models.BankQuestion, key SortKey, order SortOrder) {
	less := comparators[key]
	if order == Descending {
		sort.SliceStable(questions, func(i, j int) bool { return less(&questions[j], &questions[i]) })
		return
	}
	sort.SliceStable(questions, func(i, j int) bool { return less(&questions[i], &questions[j]) })
}
