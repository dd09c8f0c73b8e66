// Package paper renders question lists as a single-page PDF.
package paper

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	DefaultTitle        = "Generated Question Paper"
	DefaultSubject      = "Academic Assessment"
	DefaultInstructions = "Answer all questions. Show your work clearly."
)

// layout in points on an A4 page
const (
	marginLeft       = 50.0
	marginTop        = 50.0
	titleSize        = 18.0
	instructionsSize = 10.0
	questionSize     = 12.0
	titleGap         = 40.0
	lineGap          = 30.0
	fontFamily       = "Helvetica"
)

// Line is one printable question.
type Line struct {
	Text       string
	Topic      string
	Marks      int
	Difficulty string
}

type Options struct {
	Title        string
	Subject      string
	Instructions string
	// CreatedAt pins the document creation date; zero means now.
	CreatedAt time.Time
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Subject == "" {
		o.Subject = DefaultSubject
	}
	if o.Instructions == "" {
		o.Instructions = DefaultInstructions
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	return o
}

// FormatLine renders "Q<n>. <text> (<marks> marks) - <topic> - <difficulty>".
func FormatLine(n int, l Line) string {
	return fmt.Sprintf("Q%d. %s (%d marks) - %s - %s", n, l.Text, l.Marks, l.Topic, l.Difficulty)
}

// Render draws every line top to bottom on one page. Lines that do not fit
// run off the page; there is no pagination.
func Render(lines []Line, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(opts.Title, true)
	pdf.SetSubject(opts.Subject, true)
	pdf.SetCreator("smart-prep", true)
	pdf.SetCreationDate(opts.CreatedAt)
	pdf.SetModificationDate(opts.CreatedAt)
	pdf.AddPage()

	// core fonts are cp1252; the translator maps what it can
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := marginTop + titleSize
	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.Text(marginLeft, y, tr(opts.Title))
	y += titleGap

	pdf.SetFont(fontFamily, "", instructionsSize)
	pdf.Text(marginLeft, y, tr(opts.Instructions))
	y += lineGap

	pdf.SetFont(fontFamily, "", questionSize)
	for i, l := range lines {
		pdf.Text(marginLeft, y, tr(FormatLine(i+1, l)))
		y += lineGap
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render question paper: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the attachment name for a paper generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("question-paper-%s.pdf", t.UTC().Format("2006-01-02T15-04-05"))
}
