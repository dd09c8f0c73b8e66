package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func newQuestion(id, text string) *models.BankQuestion {
	return &models.BankQuestion{
		Question: models.Question{ID: id, Text: text, Topic: "Physics", Marks: 2, Difficulty: models.Easy},
		Source:   models.DefaultSource,
	}
}

type storeFactory func(t *testing.T) QuestionStore

func newTestFileStore(t *testing.T) QuestionStore {
	s := NewFileStore(filepath.Join(t.TempDir(), "data", "questions.json"), zap.NewNop())
	s.now = steppingClock()
	return s
}

func newTestGormStore(t *testing.T) QuestionStore {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	s := NewGormStore(db)
	s.now = steppingClock()
	require.NoError(t, s.Migrate())
	return s
}

var factories = map[string]storeFactory{
	"file": newTestFileStore,
	"gorm": newTestGormStore,
}

func TestStoreRoundTrip(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			q := newQuestion("q1", "Define inertia")
			q.Tags = []string{"mechanics"}
			require.NoError(t, s.Append(ctx, q))
			require.NoError(t, s.Append(ctx, newQuestion("q2", "Define momentum")))

			all, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, q.Question, all[0].Question)
			assert.Equal(t, []string{"mechanics"}, all[0].Tags)
			assert.Equal(t, []string{}, all[1].Tags)
			assert.False(t, all[0].CreatedAt.IsZero())

			got, err := s.Get(ctx, "q2")
			require.NoError(t, err)
			assert.Equal(t, "Define momentum", got.Text)

			_, err = s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreUpdateKeepsCreatedAt(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			require.NoError(t, s.Append(ctx, newQuestion("q1", "Define inertia")))
			before, err := s.Get(ctx, "q1")
			require.NoError(t, err)

			marks, difficulty := 6, "HARD"
			updated, found, err := s.Update(ctx, "q1", models.QuestionPatch{Marks: &marks, Difficulty: &difficulty})
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 6, updated.Marks)
			assert.Equal(t, models.Hard, updated.Difficulty)
			assert.Equal(t, "Define inertia", updated.Text)

			after, err := s.Get(ctx, "q1")
			require.NoError(t, err)
			assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
			assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

			_, found, err = s.Update(ctx, "missing", models.QuestionPatch{Marks: &marks})
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStoreUpdateRejectsInvalidMerge(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			require.NoError(t, s.Append(ctx, newQuestion("q1", "Define inertia")))

			marks := 0
			_, found, err := s.Update(ctx, "q1", models.QuestionPatch{Marks: &marks})
			assert.True(t, found)
			assert.ErrorIs(t, err, ErrInvalidQuestion)

			var errResp *models.ErrorResponse
			assert.True(t, errors.As(err, &errResp))

			got, err := s.Get(ctx, "q1")
			require.NoError(t, err)
			assert.Equal(t, 2, got.Marks)
		})
	}
}

func TestStoreAppendUpsert(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			require.NoError(t, s.Append(ctx, newQuestion("q1", "Define inertia")))
			first, err := s.Get(ctx, "q1")
			require.NoError(t, err)

			require.NoError(t, s.Append(ctx, newQuestion("q1", "Define inertia precisely")))

			all, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "Define inertia precisely", all[0].Text)
			assert.True(t, first.CreatedAt.Equal(all[0].CreatedAt))

			err = s.Append(ctx, newQuestion("", "Define nothing"))
			assert.ErrorIs(t, err, ErrInvalidQuestion)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			require.NoError(t, s.Append(ctx, newQuestion("q1", "Define inertia")))

			found, err := s.Delete(ctx, "q1")
			require.NoError(t, err)
			assert.True(t, found)

			found, err = s.Delete(ctx, "q1")
			require.NoError(t, err)
			assert.False(t, found)

			all, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestFileStoreReadRepair(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, zap.NewNop())
	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestFileStoreCreatesMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "questions.json")
	s := NewFileStore(path, zap.NewNop())

	all, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.FileExists(t, path)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "questions.json"), zap.NewNop())
	require.NoError(t, s.Append(context.Background(), newQuestion("q1", "Define inertia")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "questions.json", entries[0].Name())
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "questions.json"), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, newQuestion(fmt.Sprintf("q%d", i), fmt.Sprintf("Question number %d", i))))
		}(i)
	}
	wg.Wait()

	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB("mysql", "dsn")
	assert.Error(t, err)
}
