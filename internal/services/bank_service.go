package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultRandomCount = 3
	MaxRandomCount     = 100
)

var (
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidCount     = fmt.Errorf("count must be between 1 and %d", MaxRandomCount)
)

// RandomQuery selects a uniform random sample without replacement.
type RandomQuery struct {
	Count      int
	Topic      string
	Difficulty string
	Marks      *int
	ExcludeIDs []string
}

type RandomResult struct {
	Questions      []models.BankQuestion
	TotalAvailable int
}

type SearchQuery struct {
	Topic      string
	Marks      *int
	Difficulty string
	Tags       []string
	Source     string
	SortBy     SortKey
	SortOrder  SortOrder
	Limit      *int
	Offset     int
}

type SearchResult struct {
	Results    []models.BankQuestion
	Pagination models.Pagination
}

type BankService struct {
	store  repositories.QuestionStore
	logger *zap.Logger
	newID  func() string
	intn   func(n int) int
}

func NewBankService(store repositories.QuestionStore, logger *zap.Logger) *BankService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankService{
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
		intn:   rand.Intn,
	}
}

// Add stores q, assigning an id and the default source when missing.
func (s *BankService) Add(ctx context.Context, q models.BankQuestion) (models.BankQuestion, error) {
	if strings.TrimSpace(q.ID) == "" {
		q.ID = s.newID()
	}
	if q.Source == "" {
		q.Source = models.DefaultSource
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}

	if err := s.store.Append(ctx, &q); err != nil {
		return models.BankQuestion{}, fmt.Errorf("add question: %w", err)
	}
	s.logger.Info("question saved", zap.String("id", q.ID), zap.String("source", q.Source))
	return q, nil
}

func (s *BankService) Get(ctx context.Context, id string) (models.BankQuestion, error) {
	return s.store.Get(ctx, id)
}

// Update merges patch into the stored question. Unknown ids give repositories.ErrNotFound.
func (s *BankService) Update(ctx context.Context, id string, patch models.QuestionPatch) (models.BankQuestion, error) {
	updated, found, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return models.BankQuestion{}, fmt.Errorf("update question %s: %w", id, err)
	}
	if !found {
		return models.BankQuestion{}, repositories.ErrNotFound
	}
	s.logger.Info("question updated", zap.String("id", id))
	return updated, nil
}

func (s *BankService) Delete(ctx context.Context, id string) error {
	found, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	if !found {
		return repositories.ErrNotFound
	}
	s.logger.Info("question deleted", zap.String("id", id))
	return nil
}

func (s *BankService) All(ctx context.Context) ([]models.BankQuestion, error) {
	return s.store.Load(ctx)
}

// Random filters the bank and returns up to q.Count questions in random order.
func (s *BankService) Random(ctx context.Context, q RandomQuery) (RandomResult, error) {
	if q.Count < 1 || q.Count > MaxRandomCount {
		return RandomResult{}, ErrInvalidCount
	}

	all, err := s.store.Load(ctx)
	if err != nil {
		return RandomResult{}, fmt.Errorf("load questions: %w", err)
	}

	topic := strings.ToLower(strings.TrimSpace(q.Topic))
	difficulty := strings.TrimSpace(q.Difficulty)
	pool := make([]models.BankQuestion, 0, len(all))
	for _, bq := range all {
		if topic != "" && !strings.Contains(strings.ToLower(bq.Topic), topic) {
			continue
		}
		if difficulty != "" && !strings.EqualFold(string(bq.Difficulty), difficulty) {
			continue
		}
		if q.Marks != nil && bq.Marks != *q.Marks {
			continue
		}
		if slices.Contains(q.ExcludeIDs, bq.ID) {
			continue
		}
		pool = append(pool, bq)
	}

	// Fisher-Yates
	for i := len(pool) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	n := min(q.Count, len(pool))
	return RandomResult{Questions: pool[:n], TotalAvailable: len(pool)}, nil
}

// Search filters, sorts and pages the bank.
func (s *BankService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	if q.SortBy == "" {
		q.SortBy = SortCreatedAt
	}
	if _, ok := comparators[q.SortBy]; !ok {
		return SearchResult{}, ErrInvalidSortKey
	}
	if q.SortOrder == "" {
		q.SortOrder = Descending
	}
	if q.SortOrder != Ascending && q.SortOrder != Descending {
		return SearchResult{}, ErrInvalidSortOrder
	}

	all, err := s.store.Load(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("load questions: %w", err)
	}

	filtered := make([]models.BankQuestion, 0, len(all))
	for _, bq := range all {
		if matchesSearch(bq, q) {
			filtered = append(filtered, bq)
		}
	}
	sortQuestions(filtered, q.SortBy, q.SortOrder)

	total := len(filtered)
	start := min(max(q.Offset, 0), total)
	end := total
	limit := total
	if q.Limit != nil {
		limit = max(*q.Limit, 0)
		end = min(start+limit, total)
	}

	return SearchResult{
		Results: filtered[start:end],
		Pagination: models.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  max(q.Offset, 0),
			HasMore: end < total,
		},
	}, nil
}

func matchesSearch(bq models.BankQuestion, q SearchQuery) bool {
	if topic := strings.ToLower(strings.TrimSpace(q.Topic)); topic != "" {
		if !strings.Contains(strings.ToLower(bq.Topic), topic) && !strings.Contains(strings.ToLower(bq.Text), topic) {
			return false
		}
	}
	if q.Marks != nil && bq.Marks != *q.Marks {
		return false
	}
	if d := strings.TrimSpace(q.Difficulty); d != "" && !strings.EqualFold(string(bq.Difficulty), d) {
		return false
	}
	if len(q.Tags) > 0 && !anyTagMatches(bq.Tags, q.Tags) {
		return false
	}
	if src := strings.TrimSpace(q.Source); src != "" && !strings.EqualFold(bq.Source, src) {
		return false
	}
	return true
}

// anyTagMatches reports whether some stored tag contains some wanted tag, ignoring case.
func anyTagMatches(stored, wanted []string) bool {
	for _, tag := range stored {
		tag = strings.ToLower(tag)
		for _, w := range wanted {
			if strings.Contains(tag, strings.ToLower(w)) {
				return true
			}
		}
	}
	return false
}
