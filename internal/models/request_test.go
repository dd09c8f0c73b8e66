package models

import (
	"testing"
)

func assertErrorCode(t *testing.T, err error, code string) *ErrorResponse {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	errResp, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected *ErrorResponse, got %T", err)
	}
	if errResp.Code != code {
		t.Fatalf("expected code %s, got %s", code, errResp.Code)
	}
	return errResp
}

func TestSaveQuestionRequestValidate(t *testing.T) {
	valid := SaveQuestionRequest{
		Question: &QuestionInput{Text: "  Define inertia ", Topic: "Physics", Marks: 2, Difficulty: "EASY"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if valid.Question.Text != "Define inertia" {
		t.Fatalf("expected trimmed text, got %q", valid.Question.Text)
	}

	q := valid.ToBankQuestion()
	if q.Difficulty != Easy {
		t.Fatalf("expected lowercased difficulty, got %s", q.Difficulty)
	}
	if q.Tags == nil {
		t.Fatal("expected non-nil tags")
	}

	t.Run("missing question", func(t *testing.T) {
		assertErrorCode(t, (&SaveQuestionRequest{}).Validate(), "missing_question")
	})

	t.Run("invalid fields", func(t *testing.T) {
		req := SaveQuestionRequest{Question: &QuestionInput{Text: "abc", Marks: 0, Difficulty: "extreme"}}
		errResp := assertErrorCode(t, req.Validate(), "invalid_question")
		fields := map[string]bool{}
		for _, d := range errResp.Details {
			fields[d.Field] = true
		}
		for _, f := range []string{"text", "topic", "marks", "difficulty"} {
			if !fields[f] {
				t.Fatalf("expected detail for %s, got %+v", f, errResp.Details)
			}
		}
	})
}

func TestReplaceQuestionRequestToPatch(t *testing.T) {
	req := ReplaceQuestionRequest{QuestionInput: QuestionInput{Text: "Define inertia", Topic: "Physics", Marks: 3, Difficulty: "Medium"}}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	q := BankQuestion{Question: Question{ID: "1", Text: "Old text", Topic: "Old", Marks: 1, Difficulty: Easy}, Source: "manual"}
	req.ToPatch().ApplyTo(&q)

	if q.Text != "Define inertia" || q.Marks != 3 || q.Difficulty != Medium || q.Source != "manual" {
		t.Fatalf("unexpected replace result: %+v", q)
	}
}

func TestPatchQuestionRequestValidate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assertErrorCode(t, (&PatchQuestionRequest{}).Validate(), "empty_update")
	})

	t.Run("bad marks", func(t *testing.T) {
		marks := -1
		req := PatchQuestionRequest{QuestionPatch{Marks: &marks}}
		assertErrorCode(t, req.Validate(), "invalid_update")
	})

	t.Run("valid", func(t *testing.T) {
		d := "Hard"
		req := PatchQuestionRequest{QuestionPatch{Difficulty: &d}}
		if err := req.Validate(); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}

func TestGenerateRequestValidate(t *testing.T) {
	assertErrorCode(t, (&GenerateRequest{Syllabus: "  "}).Validate(), "missing_input")
	if err := (&GenerateRequest{ExtractedContent: "text"}).Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestPaperRequestValidate(t *testing.T) {
	assertErrorCode(t, (&PaperRequest{}).Validate(), "missing_questions")
	assertErrorCode(t, (&PaperRequest{Questions: []PaperQuestion{{Marks: 1}}}).Validate(), "invalid_questions")

	req := PaperRequest{Questions: []PaperQuestion{{Text: "Define inertia", Topic: "Physics", Marks: 2, Difficulty: "easy"}}}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestQuestionPatchApplyTo(t *testing.T) {
	q := BankQuestion{Question: Question{ID: "1", Text: "Old text", Topic: "A", Marks: 1, Difficulty: Easy}}
	text, tags := "New text", []string{"x"}
	QuestionPatch{Text: &text, Tags: &tags}.ApplyTo(&q)

	if q.Text != "New text" || q.Topic != "A" || len(q.Tags) != 1 {
		t.Fatalf("unexpected merge result: %+v", q)
	}
	tags[0] = "mutated"
	if q.Tags[0] != "x" {
		t.Fatal("expected tags to be copied")
	}
}

func TestBankQuestionValidateRequiresID(t *testing.T) {
	q := BankQuestion{Question: Question{Text: "Define inertia", Topic: "Physics", Marks: 1, Difficulty: Easy}}
	errResp := assertErrorCode(t, q.Validate(), "invalid_question")
	if len(errResp.Details) != 1 || errResp.Details[0].Field != "id" {
		t.Fatalf("expected only id detail, got %+v", errResp.Details)
	}
}
