package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/GajendraSingh33/smart-prep/internal/docextract"
	"github.com/GajendraSingh33/smart-prep/internal/middleware"
	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/services"
	"github.com/GajendraSingh33/smart-prep/internal/utils"
	"go.uber.org/zap"
)

// DefaultUploadLimit caps a multipart request body at 32 MiB.
const DefaultUploadLimit int64 = 32 << 20

type Generator interface {
	Generate(ctx context.Context, in services.GenerateInput) (services.GenerateResult, error)
	Quick(ctx context.Context, subject string) ([]models.Question, error)
	Upload(ctx context.Context, files []docextract.Document) (services.UploadResult, error)
}

type GenerationHandler struct {
	generator   Generator
	logger      *zap.Logger
	uploadLimit int64
}

func NewGenerationHandler(generator Generator, logger *zap.Logger, uploadLimit int64) *GenerationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if uploadLimit <= 0 {
		uploadLimit = DefaultUploadLimit
	}
	return &GenerationHandler{generator: generator, logger: logger, uploadLimit: uploadLimit}
}

// GenerateHandler handles POST /api/v1/generate with a JSON or multipart body.
func (handler *GenerationHandler) GenerateHandler(writer http.ResponseWriter, request *http.Request) {
	var in services.GenerateInput

	switch mediaType(request) {
	case "application/json":
		req, errResp := middleware.DecodeAndValidate[*models.GenerateRequest](request)
		if errResp != nil {
			utils.JSON(writer, http.StatusBadRequest, *errResp)
			return
		}
		in.Syllabus = req.Syllabus
		in.ExtractedContent = req.ExtractedContent
	case "multipart/form-data":
		form, err := handler.parseMultipart(writer, request)
		if err != nil {
			handler.writeFormError(writer, err)
			return
		}
		in.Syllabus = strings.TrimSpace(firstValue(form, "syllabus"))
		in.Files, err = readFiles(form.File["files"])
		if err != nil {
			handler.writeFormError(writer, err)
			return
		}
		if in.Syllabus == "" && len(in.Files) == 0 {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "missing_input",
				Message: "Syllabus or files are required",
			})
			return
		}
	default:
		utils.JSON(writer, http.StatusUnsupportedMediaType, models.ErrorResponse{
			Code:    "unsupported_media_type",
			Message: "Use application/json or multipart/form-data",
		})
		return
	}

	result, err := handler.generator.Generate(request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrEmptyInput) {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "missing_input",
				Message: "Syllabus or files are required",
			})
			return
		}
		handler.logger.Error("generation failed", zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to generate questions",
		})
		return
	}

	processed := result.ProcessedFiles
	if processed == nil {
		processed = []string{}
	}
	utils.JSON(writer, http.StatusOK, models.GenerateResponse{
		Questions:      result.Questions,
		ProcessedFiles: processed,
		Seeded:         result.Seeded,
	})
}

// QuickGenerateHandler handles GET /api/v1/generate?syllabus=
func (handler *GenerationHandler) QuickGenerateHandler(writer http.ResponseWriter, request *http.Request) {
	subject := strings.TrimSpace(request.URL.Query().Get("syllabus"))

	questions, err := handler.generator.Quick(request.Context(), subject)
	if err != nil {
		handler.logger.Error("quick generation failed", zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to generate questions",
		})
		return
	}

	utils.JSON(writer, http.StatusOK, models.GenerateResponse{
		Questions:      questions,
		ProcessedFiles: []string{},
		Seeded:         true,
	})
}

// UploadHandler handles POST /api/v1/upload
func (handler *GenerationHandler) UploadHandler(writer http.ResponseWriter, request *http.Request) {
	if mediaType(request) != "multipart/form-data" {
		utils.JSON(writer, http.StatusUnsupportedMediaType, models.ErrorResponse{
			Code:    "unsupported_media_type",
			Message: "Use multipart/form-data with files",
		})
		return
	}

	form, err := handler.parseMultipart(writer, request)
	if err != nil {
		handler.writeFormError(writer, err)
		return
	}
	files, err := readFiles(form.File["files"])
	if err != nil {
		handler.writeFormError(writer, err)
		return
	}
	if len(files) == 0 {
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "no_files",
			Message: "No files uploaded",
		})
		return
	}

	result, err := handler.generator.Upload(request.Context(), files)
	if err != nil {
		handler.logger.Error("upload processing failed", zap.Error(err), zap.Int("files", len(files)))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to process upload",
		})
		return
	}

	utils.JSON(writer, http.StatusOK, models.UploadResponse{
		ExtractedContent: result.ExtractedContent,
		Processed:        result.Processed,
	})
}

func (handler *GenerationHandler) parseMultipart(writer http.ResponseWriter, request *http.Request) (*multipart.Form, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, handler.uploadLimit)
	if err := request.ParseMultipartForm(handler.uploadLimit); err != nil {
		return nil, err
	}
	return request.MultipartForm, nil
}

func (handler *GenerationHandler) writeFormError(writer http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.JSON(writer, http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Code:    "payload_too_large",
			Message: fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	handler.logger.Warn("invalid multipart body", zap.Error(err))
	utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
		Code:    "invalid_form",
		Message: "Invalid multipart form data",
	})
}

func mediaType(request *http.Request) string {
	mt, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readFiles(headers []*multipart.FileHeader) ([]docextract.Document, error) {
	docs := make([]docextract.Document, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		docs = append(docs, docextract.Document{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return docs, nil
}
