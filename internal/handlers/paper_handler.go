package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/middleware"
	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/paper"
	"github.com/GajendraSingh33/smart-prep/internal/utils"
	"go.uber.org/zap"
)

type PaperHandler struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewPaperHandler(logger *zap.Logger) *PaperHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaperHandler{logger: logger, now: time.Now}
}

// PaperPDFHandler expects a validated *models.PaperRequest and streams the PDF back as an attachment.
func (handler *PaperHandler) PaperPDFHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.PaperRequest](request)

	lines := make([]paper.Line, len(req.Questions))
	for i, q := range req.Questions {
		lines[i] = paper.Line{Text: q.Text, Topic: q.Topic, Marks: q.Marks, Difficulty: q.Difficulty}
	}

	now := handler.now()
	data, err := paper.Render(lines, paper.Options{
		Title:        req.Title,
		Subject:      req.Subject,
		Instructions: req.Instructions,
		CreatedAt:    now,
	})
	if err != nil {
		handler.logger.Error("failed to render question paper", zap.Error(err), zap.Int("questions", len(lines)))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to generate PDF",
		})
		return
	}

	writer.Header().Set("Content-Type", "application/pdf")
	writer.Header().Set("Content-Disposition", `attachment; filename="`+paper.Filename(now)+`"`)
	writer.Header().Set("Content-Length", strconv.Itoa(len(data)))
	writer.Header().Set("Cache-Control", "no-cache")
	writer.WriteHeader(http.StatusOK)
	writer.Write(data)
}
