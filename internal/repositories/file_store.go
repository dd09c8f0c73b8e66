package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"go.uber.org/zap"
)

// FileStore keeps the whole bank in one JSON document. Every write replaces
// the document through a temp file and rename. The mutex makes this process
// the single writer; other processes sharing the file are last-writer-wins.
type FileStore struct {
	path   string
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:   path,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) ([]models.BankQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Get(ctx context.Context, id string) (models.BankQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.read()
	if err != nil {
		return models.BankQuestion{}, err
	}
	if i := indexOf(questions, id); i >= 0 {
		return questions[i], nil
	}
	return models.BankQuestion{}, ErrNotFound
}

func (s *FileStore) Append(ctx context.Context, q *models.BankQuestion) error {
	if err := validateRecord(q); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.read()
	if err != nil {
		return err
	}

	now := s.now()
	q.UpdatedAt = now
	if i := indexOf(questions, q.ID); i >= 0 {
		q.CreatedAt = questions[i].CreatedAt
		questions[i] = *q
	} else {
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		questions = append(questions, *q)
	}
	return s.write(questions)
}

func (s *FileStore) Update(ctx context.Context, id string, patch models.QuestionPatch) (models.BankQuestion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.read()
	if err != nil {
		return models.BankQuestion{}, false, err
	}
	i := indexOf(questions, id)
	if i < 0 {
		return models.BankQuestion{}, false, nil
	}

	updated := questions[i]
	patch.ApplyTo(&updated)
	updated.ID = id
	if err := validateRecord(&updated); err != nil {
		return models.BankQuestion{}, true, err
	}
	updated.UpdatedAt = s.now()
	questions[i] = updated

	if err := s.write(questions); err != nil {
		return models.BankQuestion{}, true, err
	}
	return updated, true, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.read()
	if err != nil {
		return false, err
	}
	i := indexOf(questions, id)
	if i < 0 {
		return false, nil
	}
	questions = append(questions[:i], questions[i+1:]...)
	return true, s.write(questions)
}

// read loads the document. A missing or unparsable document is replaced by an
// empty collection.
func (s *FileStore) read() ([]models.BankQuestion, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.repair("missing")
	}
	if err != nil {
		return nil, fmt.Errorf("read question store: %w", err)
	}

	var questions []models.BankQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		s.logger.Warn("question store unreadable, resetting", zap.String("path", s.path), zap.Error(err))
		return s.repair("corrupt")
	}
	if questions == nil {
		questions = []models.BankQuestion{}
	}
	for i := range questions {
		if questions[i].Tags == nil {
			questions[i].Tags = []string{}
		}
	}
	return questions, nil
}

func (s *FileStore) repair(reason string) ([]models.BankQuestion, error) {
	empty := []models.BankQuestion{}
	if err := s.write(empty); err != nil {
		return nil, err
	}
	s.logger.Info("question store initialised", zap.String("path", s.path), zap.String("reason", reason))
	return empty, nil
}

func (s *FileStore) write(questions []models.BankQuestion) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".questions-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(questions); err != nil {
		tmp.Close()
		return fmt.Errorf("encode question store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync question store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close question store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace question store: %w", err)
	}
	return nil
}

func indexOf(questions []models.BankQuestion, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}
