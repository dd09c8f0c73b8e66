package handlers

import (
	"context"
	"net/http"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

// BankLoader is the part of the question store the readiness probe touches.
type BankLoader interface {
	Load(ctx context.Context) ([]models.BankQuestion, error)
}

type HealthHandler struct {
	store  BankLoader
	driver string
}

func NewHealthHandler(store BankLoader, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "smart-prep",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	ready := true

	switch {
	case handler.store == nil:
		checks["store"] = ReadinessCheck{Status: "failed", Message: "Question store not initialized"}
		ready = false
	default:
		if _, err := handler.store.Load(request.Context()); err != nil {
			checks["store"] = ReadinessCheck{Status: "failed", Message: err.Error()}
			ready = false
		} else {
			checks["store"] = ReadinessCheck{Status: "ok", Message: handler.driver}
		}
	}

	response := ReadinessResponse{Service: "smart-prep", Checks: checks}
	if ready {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	utils.JSON(writer, http.StatusServiceUnavailable, response)
}
