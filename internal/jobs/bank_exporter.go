package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	snapshotPrefix = "questions-"
	snapshotSuffix = ".json"
	snapshotLayout = "2006-01-02T15-04-05Z"
)

// BankSource is the read side of the question store.
type BankSource interface {
	Load(ctx context.Context) ([]models.BankQuestion, error)
}

// BankExporterJob periodically writes the whole question bank to a timestamped JSON file
type BankExporterJob struct {
	source BankSource
	config *ExporterConfig
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule  string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir string // Directory to store snapshots
	Enabled   bool
	Keep      int // Newest snapshots retained; 0 keeps all
}

func NewBankExporterJob(source BankSource, config *ExporterConfig, logger *zap.Logger) *BankExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankExporterJob{
		source: source,
		config: config,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start begins the scheduled export job
func (j *BankExporterJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("bank export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(context.Background()); err != nil {
			j.logger.Error("bank export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule bank export: %w", err)
	}

	j.cron.Start()
	j.logger.Info("bank exporter started", zap.String("schedule", j.config.Schedule), zap.String("dir", j.config.ExportDir))
	return nil
}

// Stop waits for a running export to finish.
func (j *BankExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("bank exporter stopped")
	}
}

// RunExport writes one snapshot and prunes old ones. It returns the snapshot path.
func (j *BankExporterJob) RunExport(ctx context.Context) (string, error) {
	questions, err := j.source.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load question bank: %w", err)
	}
	if questions == nil {
		questions = []models.BankQuestion{}
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := snapshotPrefix + j.now().UTC().Format(snapshotLayout) + snapshotSuffix
	path := filepath.Join(j.config.ExportDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	j.logger.Info("bank snapshot written", zap.String("path", path), zap.Int("questions", len(questions)))

	if err := j.prune(); err != nil {
		return path, err
	}
	return path, nil
}

// prune removes all but the newest Keep snapshots. Names sort by time.
func (j *BankExporterJob) prune() error {
	if j.config.Keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(j.config.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to list export directory: %w", err)
	}

	var snapshots []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, snapshotSuffix) {
			snapshots = append(snapshots, name)
		}
	}
	if len(snapshots) <= j.config.Keep {
		return nil
	}

	sort.Strings(snapshots)
	for _, name := range snapshots[:len(snapshots)-j.config.Keep] {
		if err := os.Remove(filepath.Join(j.config.ExportDir, name)); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", name, err)
		}
		j.logger.Debug("old snapshot removed", zap.String("name", name))
	}
	return nil
}
