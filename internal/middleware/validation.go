package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/utils"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request models implement this interface
type Validator interface {
	Validate() error
}

// DecodeAndValidate reads a JSON body into a fresh T and runs its Validate method.
// The returned error is always an *models.ErrorResponse.
func DecodeAndValidate[T Validator](r *http.Request) (T, *models.ErrorResponse) {
	var req T
	reqType := reflect.TypeOf(req)
	if reqType.Kind() == reflect.Ptr {
		req = reflect.New(reqType.Elem()).Interface().(T)
	} else {
		req = reflect.New(reqType).Interface().(T)
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return req, &models.ErrorResponse{
			Code:    "invalid_json",
			Message: "Invalid JSON in request body",
		}
	}

	if err := req.Validate(); err != nil {
		var errResp *models.ErrorResponse
		if errors.As(err, &errResp) {
			return req, errResp
		}
		return req, &models.ErrorResponse{
			Code:    "validation_error",
			Message: err.Error(),
		}
	}
	return req, nil
}

// validates JSON requests using generics
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, errResp := DecodeAndValidate[T](r)
			if errResp != nil {
				utils.JSON(w, http.StatusBadRequest, *errResp)
				return
			}

			// store validated request in context
			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
