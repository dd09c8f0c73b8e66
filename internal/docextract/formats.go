package docextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Kind is a document format the extractor understands.
type Kind string

const (
	KindUnsupported Kind = ""
	KindText        Kind = "txt"
	KindPDF         Kind = "pdf"
	KindDOCX        Kind = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var errNoDocumentXML = errors.New("docx: word/document.xml not found")

// DetectKind decides the format from the file name, falling back to content
// sniffing when the extension says nothing.
func DetectKind(name, contentType string, data []byte) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md":
		return KindText
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".doc", ".ppt", ".pptx", ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp":
		return KindUnsupported
	}

	switch {
	case strings.HasPrefix(contentType, mimePDF):
		return KindPDF
	case strings.HasPrefix(contentType, mimeDOCX):
		return KindDOCX
	}

	if len(data) == 0 {
		return KindUnsupported
	}
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(mimePDF):
		return KindPDF
	case mt.Is(mimeDOCX):
		return KindDOCX
	case mt.Is(mimeText):
		return KindText
	}
	return KindUnsupported
}

func extractPlainText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(data)
}

// extractPDF reads text row by row so that question lines survive; pages that
// cannot be read by row fall back to the plain text stream.
func extractPDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	var out strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return extractPDFPlain(r)
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			if s := strings.TrimSpace(line.String()); s != "" {
				out.WriteString(s)
				out.WriteByte('\n')
			}
		}
		out.WriteByte('\n')
	}

	if strings.TrimSpace(out.String()) == "" {
		return extractPDFPlain(r)
	}
	return out.String(), nil
}

func extractPDFPlain(r *pdf.Reader) (string, error) {
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// extractDOCX gathers <w:t> runs from word/document.xml, ending a line at each
// paragraph and explicit break.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errNoDocumentXML
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	defer rc.Close()

	var out strings.Builder
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				var v string
				if err := dec.DecodeElement(&v, &el); err != nil {
					return "", fmt.Errorf("docx xml: %w", err)
				}
				out.WriteString(v)
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				out.WriteByte('\n')
			}
		}
	}
	return out.String(), nil
}
