package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/GajendraSingh33/smart-prep/internal/middleware"
	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/repositories"
	"github.com/GajendraSingh33/smart-prep/internal/services"
	"github.com/GajendraSingh33/smart-prep/internal/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const noMatchMessage = "No questions match the specified criteria"

type QuestionBank interface {
	Add(ctx context.Context, q models.BankQuestion) (models.BankQuestion, error)
	Get(ctx context.Context, id string) (models.BankQuestion, error)
	Update(ctx context.Context, id string, patch models.QuestionPatch) (models.BankQuestion, error)
	Delete(ctx context.Context, id string) error
	Random(ctx context.Context, q services.RandomQuery) (services.RandomResult, error)
	Search(ctx context.Context, q services.SearchQuery) (services.SearchResult, error)
}

type BankHandler struct {
	bank   QuestionBank
	logger *zap.Logger
}

func NewBankHandler(bank QuestionBank, logger *zap.Logger) *BankHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankHandler{bank: bank, logger: logger}
}

// AddQuestionHandler expects a validated *models.SaveQuestionRequest in the context.
func (handler *BankHandler) AddQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.SaveQuestionRequest](request)

	saved, err := handler.bank.Add(request.Context(), req.ToBankQuestion())
	if err != nil {
		handler.writeStoreError(writer, err, "Failed to save question")
		return
	}

	writer.Header().Set("Location", "/api/v1/questions/"+saved.ID)
	utils.JSON(writer, http.StatusCreated, models.SaveQuestionResponse{Saved: saved})
}

func (handler *BankHandler) GetQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	q, err := handler.bank.Get(request.Context(), id)
	if err != nil {
		handler.writeStoreError(writer, err, "Failed to fetch question")
		return
	}
	utils.JSON(writer, http.StatusOK, q)
}

// PatchQuestionHandler merges the supplied fields into the stored question.
func (handler *BankHandler) PatchQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.PatchQuestionRequest](request)
	handler.update(writer, request, req.QuestionPatch)
}

// ReplaceQuestionHandler overwrites text, topic, marks and difficulty.
func (handler *BankHandler) ReplaceQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.ReplaceQuestionRequest](request)
	handler.update(writer, request, req.ToPatch())
}

func (handler *BankHandler) update(writer http.ResponseWriter, request *http.Request, patch models.QuestionPatch) {
	id := chi.URLParam(request, "id")

	updated, err := handler.bank.Update(request.Context(), id, patch)
	if err != nil {
		handler.writeStoreError(writer, err, "Failed to update question")
		return
	}
	utils.JSON(writer, http.StatusOK, models.SaveQuestionResponse{Saved: updated})
}

func (handler *BankHandler) DeleteQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.bank.Delete(request.Context(), id); err != nil {
		handler.writeStoreError(writer, err, "Failed to delete question")
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

// RandomQuestionsHandler handles GET /api/v1/questions/random
func (handler *BankHandler) RandomQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	count := services.DefaultRandomCount
	if raw := query.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_count",
				Message: "count must be a positive number",
			})
			return
		}
		count = n
	}
	marks, ok := handler.optionalInt(writer, query.Get("marks"), "marks")
	if !ok {
		return
	}

	result, err := handler.bank.Random(request.Context(), services.RandomQuery{
		Count:      count,
		Topic:      query.Get("topic"),
		Difficulty: query.Get("difficulty"),
		Marks:      marks,
		ExcludeIDs: utils.CSV(query.Get("excludeIds")),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCount) {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_count",
				Message: "count must be between 1 and 100",
			})
			return
		}
		handler.writeStoreError(writer, err, "Failed to get random questions")
		return
	}

	response := models.RandomQuestionsResponse{
		Questions:      result.Questions,
		TotalAvailable: result.TotalAvailable,
		Requested:      count,
		Returned:       len(result.Questions),
	}
	if response.Questions == nil {
		response.Questions = []models.BankQuestion{}
	}
	if result.TotalAvailable == 0 {
		response.Message = noMatchMessage
	}
	utils.JSON(writer, http.StatusOK, response)
}

// SearchQuestionsHandler handles GET /api/v1/questions
func (handler *BankHandler) SearchQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	sortBy, err := services.ParseSortKey(query.Get("sortBy"))
	if err != nil {
		keys := services.SortKeys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = string(k)
		}
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_sort_key",
			Message: "sortBy must be one of: " + strings.Join(names, ", "),
		})
		return
	}
	sortOrder, err := services.ParseSortOrder(query.Get("sortOrder"))
	if err != nil {
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_sort_order",
			Message: "sortOrder must be asc or desc",
		})
		return
	}

	marks, ok := handler.optionalInt(writer, query.Get("marks"), "marks")
	if !ok {
		return
	}
	limit, ok := handler.optionalInt(writer, query.Get("limit"), "limit")
	if !ok {
		return
	}
	if limit != nil && *limit < 1 {
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_limit",
			Message: "limit must be a positive integer",
		})
		return
	}
	offset, ok := handler.optionalInt(writer, query.Get("offset"), "offset")
	if !ok {
		return
	}

	filters := models.SearchFilters{
		Topic:      strings.TrimSpace(query.Get("topic")),
		Marks:      marks,
		Difficulty: strings.TrimSpace(query.Get("difficulty")),
		Tags:       utils.CSV(query.Get("tags")),
		Source:     strings.TrimSpace(query.Get("source")),
	}
	sq := services.SearchQuery{
		Topic:      filters.Topic,
		Marks:      filters.Marks,
		Difficulty: filters.Difficulty,
		Tags:       filters.Tags,
		Source:     filters.Source,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
		Limit:      limit,
	}
	if offset != nil {
		sq.Offset = *offset
	}

	result, err := handler.bank.Search(request.Context(), sq)
	if err != nil {
		handler.writeStoreError(writer, err, "Failed to search questions")
		return
	}

	results := result.Results
	if results == nil {
		results = []models.BankQuestion{}
	}
	utils.JSON(writer, http.StatusOK, models.SearchResponse{
		Results:    results,
		Pagination: result.Pagination,
		Filters:    filters,
	})
}

// optionalInt parses an optional integer query value, writing a 400 on failure.
func (handler *BankHandler) optionalInt(writer http.ResponseWriter, raw, field string) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_" + field,
			Message: field + " must be an integer",
		})
		return nil, false
	}
	return &n, true
}

func (handler *BankHandler) writeStoreError(writer http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSON(writer, http.StatusNotFound, models.ErrorResponse{
			Code:    "question_not_found",
			Message: "Question not found",
		})
	case errors.Is(err, repositories.ErrInvalidQuestion):
		resp := models.ErrorResponse{Code: "invalid_question", Message: err.Error()}
		var detailed *models.ErrorResponse
		if errors.As(err, &detailed) {
			resp.Message = detailed.Message
			resp.Details = detailed.Details
		}
		utils.JSON(writer, http.StatusBadRequest, resp)
	case errors.Is(err, services.ErrInvalidSortKey), errors.Is(err, services.ErrInvalidSortOrder):
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_sort",
			Message: err.Error(),
		})
	default:
		handler.logger.Error(message, zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: message,
		})
	}
}
