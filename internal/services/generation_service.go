package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GajendraSingh33/smart-prep/internal/docextract"
	"github.com/GajendraSingh33/smart-prep/internal/extraction"
	"github.com/GajendraSingh33/smart-prep/internal/metrics"
	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/seeds"
	"go.uber.org/zap"
)

var ErrEmptyInput = errors.New("syllabus or files are required")

type GenerateInput struct {
	Syllabus         string
	ExtractedContent string
	Files            []docextract.Document
}

type GenerateResult struct {
	Questions      []models.Question
	ProcessedFiles []string
	Seeded         bool
}

type UploadResult struct {
	ExtractedContent string
	Processed        []string
}

// DocumentExtractor is satisfied by *docextract.Extractor.
type DocumentExtractor interface {
	ExtractAll(ctx context.Context, docs []docextract.Document) ([]docextract.Result, error)
}

type GenerationService struct {
	extractor *extraction.Extractor
	docs      DocumentExtractor
	seeds     *seeds.Library
	logger    *zap.Logger
}

func NewGenerationService(extractor *extraction.Extractor, docs DocumentExtractor, lib *seeds.Library, logger *zap.Logger) *GenerationService {
	if extractor == nil {
		extractor = extraction.NewExtractor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{extractor: extractor, docs: docs, seeds: lib, logger: logger}
}

// Upload extracts text from every file without generating questions.
func (s *GenerationService) Upload(ctx context.Context, files []docextract.Document) (UploadResult, error) {
	results, err := s.extractDocuments(ctx, files)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{
		ExtractedContent: docextract.Combine(results),
		Processed:        docextract.Names(results),
	}, nil
}

// Generate runs the pipeline over the syllabus and any extracted material.
// When that yields nothing, the upload seed for the subject is used instead.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	syllabus := strings.TrimSpace(in.Syllabus)
	extracted := strings.TrimSpace(in.ExtractedContent)
	if syllabus == "" && extracted == "" && len(in.Files) == 0 {
		return GenerateResult{}, ErrEmptyInput
	}

	results, err := s.extractDocuments(ctx, in.Files)
	if err != nil {
		return GenerateResult{}, err
	}
	names := docextract.Names(results)

	text := joinNonEmpty(syllabus, extracted, docextract.Combine(results))
	questions := s.extractor.Extract(text)
	if len(questions) > 0 {
		metrics.ObserveExtraction("text", len(questions))
		return GenerateResult{Questions: questions, ProcessedFiles: names}, nil
	}

	seedText, err := s.seeds.Render(seeds.Upload, seeds.Data{Subject: syllabus, FileNames: names})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("render seed: %w", err)
	}
	questions = s.extractor.Extract(seedText)
	metrics.ObserveExtraction("seed", len(questions))
	s.logger.Info("no questions found in input, using seed",
		zap.Int("input_chars", len(text)),
		zap.Int("files", len(names)))

	return GenerateResult{Questions: questions, ProcessedFiles: names, Seeded: true}, nil
}

// Quick returns the short seed set for a subject.
func (s *GenerationService) Quick(ctx context.Context, subject string) ([]models.Question, error) {
	seedText, err := s.seeds.Render(seeds.Quick, seeds.Data{Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("render seed: %w", err)
	}
	questions := s.extractor.Extract(seedText)
	metrics.ObserveExtraction("seed", len(questions))
	return questions, nil
}

func (s *GenerationService) extractDocuments(ctx context.Context, files []docextract.Document) ([]docextract.Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	results, err := s.docs.ExtractAll(ctx, files)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		metrics.ObserveDocument(string(r.Kind), strings.TrimSpace(r.Text) != "")
	}
	return results, nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
