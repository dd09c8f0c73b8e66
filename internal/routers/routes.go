package routers

import (
	"net/http"

	"github.com/GajendraSingh33/smart-prep/internal/handlers"
	"github.com/GajendraSingh33/smart-prep/internal/middleware"
	"github.com/GajendraSingh33/smart-prep/internal/models"

	"github.com/go-chi/chi/v5"
)

func GenerationRoutes(router *chi.Mux, generationHandler *handlers.GenerationHandler) {
	router.Post("/api/v1/generate", generationHandler.GenerateHandler)
	router.Get("/api/v1/generate", generationHandler.QuickGenerateHandler)
	router.Post("/api/v1/upload", generationHandler.UploadHandler)
}

func BankRoutes(router *chi.Mux, bankHandler *handlers.BankHandler) {
	router.Route("/api/v1/questions", func(r chi.Router) {
		r.Get("/", bankHandler.SearchQuestionsHandler)
		r.With(middleware.ValidateRequest[*models.SaveQuestionRequest]()).Post("/", bankHandler.AddQuestionHandler)
		r.Get("/random", bankHandler.RandomQuestionsHandler)
		r.Get("/{id}", bankHandler.GetQuestionHandler)
		r.With(middleware.ValidateRequest[*models.PatchQuestionRequest]()).Patch("/{id}", bankHandler.PatchQuestionHandler)
		r.With(middleware.ValidateRequest[*models.ReplaceQuestionRequest]()).Put("/{id}", bankHandler.ReplaceQuestionHandler)
		r.Delete("/{id}", bankHandler.DeleteQuestionHandler)
	})
}

func PaperRoutes(router *chi.Mux, paperHandler *handlers.PaperHandler) {
	router.With(middleware.ValidateRequest[*models.PaperRequest]()).Post("/api/v1/pdf", paperHandler.PaperPDFHandler)
}

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler, metricsHandler http.Handler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler)
	}
}
