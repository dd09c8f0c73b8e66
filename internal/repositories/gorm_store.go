package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps the bank in a SQL table, one row per question.
type GormStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		DB:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// OpenDB connects to sqlite or postgres.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

func (s *GormStore) Migrate() error {
	return s.DB.AutoMigrate(&models.BankQuestion{})
}

func (s *GormStore) Load(ctx context.Context) ([]models.BankQuestion, error) {
	var questions []models.BankQuestion
	if err := s.DB.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	for i := range questions {
		if questions[i].Tags == nil {
			questions[i].Tags = []string{}
		}
	}
	return questions, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (models.BankQuestion, error) {
	var q models.BankQuestion
	err := s.DB.WithContext(ctx).First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.BankQuestion{}, ErrNotFound
	}
	if err != nil {
		return models.BankQuestion{}, fmt.Errorf("get question: %w", err)
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return q, nil
}

func (s *GormStore) Append(ctx context.Context, q *models.BankQuestion) error {
	if err := validateRecord(q); err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		q.UpdatedAt = now

		var existing models.BankQuestion
		err := tx.First(&existing, "id = ?", q.ID).Error
		switch {
		case err == nil:
			q.CreatedAt = existing.CreatedAt
			return tx.Save(q).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if q.CreatedAt.IsZero() {
				q.CreatedAt = now
			}
			return tx.Create(q).Error
		default:
			return fmt.Errorf("append question: %w", err)
		}
	})
}

func (s *GormStore) Update(ctx context.Context, id string, patch models.QuestionPatch) (models.BankQuestion, bool, error) {
	var updated models.BankQuestion
	found := true

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&updated, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("update question: %w", err)
		}

		patch.ApplyTo(&updated)
		updated.ID = id
		if err := validateRecord(&updated); err != nil {
			return err
		}
		updated.UpdatedAt = s.now()
		return tx.Save(&updated).Error
	})
	if err != nil || !found {
		return models.BankQuestion{}, found, err
	}
	return updated, true, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) (bool, error) {
	result := s.DB.WithContext(ctx).Delete(&models.BankQuestion{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("delete question: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
