// Package docextract pulls plain text out of uploaded documents.
//
// Extraction is best effort: unsupported formats and parse failures yield an
// empty string for that document and never fail a batch.
package docextract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// Document is one uploaded file.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result pairs a document name with its extracted text.
type Result struct {
	Name string
	Kind Kind
	Text string
}

type Extractor struct {
	logger      *zap.Logger
	cache       TextCache
	concurrency int
}

type Option func(*Extractor)

func WithCache(cache TextCache) Option {
	return func(e *Extractor) {
		if cache != nil {
			e.cache = cache
		}
	}
}

// WithConcurrency bounds parallel extractions in ExtractAll.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func NewExtractor(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{logger: logger, cache: NopCache{}, concurrency: 4}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText returns the document's text, or "" when the format is not
// supported or the document cannot be parsed.
func (e *Extractor) ExtractText(ctx context.Context, doc Document) Result {
	res := Result{Name: doc.Name, Kind: DetectKind(doc.Name, doc.ContentType, doc.Data)}
	if res.Kind == KindUnsupported {
		e.logger.Info("unsupported document skipped", zap.String("name", doc.Name), zap.String("content_type", doc.ContentType))
		return res
	}

	key := ContentKey(doc.Data)
	if text, ok, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("document cache read failed", zap.String("name", doc.Name), zap.Error(err))
	} else if ok {
		res.Text = text
		return res
	}

	text, err := extractKind(res.Kind, doc.Data)
	if err != nil {
		e.logger.Warn("document extraction failed",
			zap.String("name", doc.Name),
			zap.String("kind", string(res.Kind)),
			zap.Error(err))
		return res
	}
	res.Text = normalize(text)

	if err := e.cache.Set(ctx, key, res.Text); err != nil {
		e.logger.Warn("document cache write failed", zap.String("name", doc.Name), zap.Error(err))
	}
	return res
}

// ExtractAll extracts every document concurrently. Results keep input order.
func (e *Extractor) ExtractAll(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.ExtractText(gctx, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract documents: %w", err)
	}
	return results, nil
}

func extractKind(kind Kind, data []byte) (string, error) {
	switch kind {
	case KindText:
		return extractPlainText(data), nil
	case KindPDF:
		return extractPDF(data)
	case KindDOCX:
		return extractDOCX(data)
	}
	return "", fmt.Errorf("unsupported kind %q", kind)
}

// normalize converts to NFC, unifies line endings and trims each line.
func normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ").Replace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Combine renders results as "--- name ---" blocks separated by blank lines,
// skipping documents with no text.
func Combine(results []Result) string {
	var blocks []string
	for _, r := range results {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("--- %s ---\n%s", r.Name, r.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// Names lists the document names in order.
func Names(results []Result) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	return names
}
