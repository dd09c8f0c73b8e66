package seeds

import (
	"strings"
	"testing"

	"github.com/GajendraSingh33/smart-prep/internal/extraction"
	"github.com/GajendraSingh33/smart-prep/internal/models"
)

func TestLibraryRender(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary error: %v", err)
	}
	if len(lib.Names()) != 2 {
		t.Fatalf("expected 2 seed templates, got %v", lib.Names())
	}

	text, err := lib.Render(Upload, Data{Subject: "Thermodynamics", FileNames: []string{"a.pdf", "b.docx", "c.txt"}})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "1. Define Thermodynamics. (2 marks) - General - easy" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "based on a.pdf, b.docx.") || strings.Contains(lines[1], "c.txt") {
		t.Fatalf("unexpected file hint: %q", lines[1])
	}

	if _, err := lib.Render("missing", Data{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestLibraryRenderDefaultSubject(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary error: %v", err)
	}

	text, err := lib.Render(Quick, Data{Subject: "   "})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(text, "1. Define General Subject.") {
		t.Fatalf("expected default subject, got %q", text)
	}
	if lib.DefaultSubject(Upload) != "Uploaded Material" {
		t.Fatalf("unexpected upload default subject %q", lib.DefaultSubject(Upload))
	}
}

func TestSeedsParseThroughPipeline(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary error: %v", err)
	}

	cases := map[string]int{Upload: 5, Quick: 3}
	for name, want := range cases {
		text, err := lib.Render(name, Data{Subject: "Organic Chemistry - Reactions"})
		if err != nil {
			t.Fatalf("Render(%s) error: %v", name, err)
		}

		got := extraction.Extract(text)
		if len(got) != want {
			t.Fatalf("%s: expected %d questions, got %d", name, want, len(got))
		}
		for _, q := range got {
			if q.Topic != models.DefaultTopic {
				t.Fatalf("%s: expected topic General, got %q", name, q.Topic)
			}
		}
		if got[0].Text != "Define Organic Chemistry, Reactions." || got[0].Difficulty != models.Easy || got[0].Marks != 2 {
			t.Fatalf("%s: unexpected first question %+v", name, got[0])
		}
		if got[2].Difficulty != models.Hard || got[2].Marks != 10 {
			t.Fatalf("%s: unexpected third question %+v", name, got[2])
		}
	}
}

func TestSeedsKeepLineFieldsForAnySubject(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary error: %v", err)
	}

	type line struct {
		text       string
		marks      int
		difficulty models.Difficulty
	}
	cases := []struct {
		name    string
		seed    string
		subject string
		want    []line
	}{
		{"difficulty word in subject", Upload, "Basic Chemistry", []line{
			{"Define Basic Chemistry.", 2, models.Easy},
			{"Explain key concepts.", 5, models.Medium},
			{"Compare and contrast two major ideas in Basic Chemistry.", 10, models.Hard},
			{"Design a short exercise related to Basic Chemistry.", 3, models.Medium},
			{"List core principles of Basic Chemistry.", 2, models.Easy},
		}},
		{"hard keyword in subject", Quick, "Advanced Physics", []line{
			{"Define Advanced Physics.", 2, models.Easy},
			{"Explain key concepts of Advanced Physics.", 5, models.Medium},
			{"Compare and contrast two core ideas in Advanced Physics.", 10, models.Hard},
		}},
		{"marks annotation in subject", Upload, "Statistics (3 marks)", []line{
			{"Define Statistics.", 2, models.Easy},
			{"Explain key concepts.", 5, models.Medium},
			{"Compare and contrast two major ideas in Statistics.", 10, models.Hard},
			{"Design a short exercise related to Statistics.", 3, models.Medium},
			{"List core principles of Statistics.", 2, models.Easy},
		}},
		{"points and bare number in subject", Quick, "Probability 4 pts (7) - hard", []line{
			{"Define Probability, hard.", 2, models.Easy},
			{"Explain key concepts of Probability, hard.", 5, models.Medium},
			{"Compare and contrast two core ideas in Probability, hard.", 10, models.Hard},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := lib.Render(tc.seed, Data{Subject: tc.subject})
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}

			got := extraction.Extract(text)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d questions, got %d: %+v", len(tc.want), len(got), got)
			}
			for i, w := range tc.want {
				q := got[i]
				if q.Text != w.text || q.Marks != w.marks || q.Difficulty != w.difficulty || q.Topic != models.DefaultTopic {
					t.Fatalf("line %d: expected %+v, got %+v", i+1, w, q)
				}
			}
		})
	}
}

func TestSanitizeSubject(t *testing.T) {
	cases := map[string]string{
		"  Linear   Algebra ":    "Linear Algebra",
		"Statistics (3 marks)":   "Statistics",
		"Optics [2 mark] basics": "Optics basics",
		"Loops (5)":              "Loops",
		"Graphs - hard":          "Graphs, hard",
		"- Calculus |":           "Calculus",
		"cost-benefit analysis":  "cost-benefit analysis",
	}
	for in, want := range cases {
		if got := sanitizeSubject(in); got != want {
			t.Fatalf("sanitizeSubject(%q) = %q, want %q", in, got, want)
		}
	}
}
