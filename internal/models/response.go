package models

// uniform error payload
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// a single field error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// response for question generation
type GenerateResponse struct {
	Questions      []Question `json:"questions"`
	ProcessedFiles []string   `json:"processedFiles"`
	Seeded         bool       `json:"seeded"`
}

// response for document upload
type UploadResponse struct {
	ExtractedContent string   `json:"extractedContent"`
	Processed        []string `json:"processed"`
}

type SaveQuestionResponse struct {
	Saved BankQuestion `json:"saved"`
}

type RandomQuestionsResponse struct {
	Questions      []BankQuestion `json:"questions"`
	TotalAvailable int            `json:"totalAvailable"`
	Requested      int            `json:"requested"`
	Returned       int            `json:"returned"`
	Message        string         `json:"message,omitempty"`
}

// pagination metadata for offset/limit search
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// echo of the filters applied to a search
type SearchFilters struct {
	Topic      string   `json:"topic,omitempty"`
	Marks      *int     `json:"marks,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Source     string   `json:"source,omitempty"`
}

type SearchResponse struct {
	Results    []BankQuestion `json:"results"`
	Pagination Pagination     `json:"pagination"`
	Filters    SearchFilters  `json:"filters"`
}
