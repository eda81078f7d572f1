package httputils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
	usecase "delivery-market/internal/app/usecase/errors"
)

const jsonContentType = "application/json"

// ParseCaller extracts the caller placed in the context by the token
// middleware. A non-200 middleware verdict is replayed as the response.
func ParseCaller(w http.ResponseWriter, r *http.Request) (entity.Caller, bool) {
	callerCtx, ok := r.Context().Value(entity.CallerCtxKey{}).(entity.CallerCtx)
	if !ok {
		zap.L().Error("caller couldn't be obtained from request context")
		WriteError(w, http.StatusInternalServerError, usecase.ErrInternal)

		return entity.Caller{}, false
	}

	if callerCtx.StatusCode != http.StatusOK {
		WriteError(w, callerCtx.StatusCode, statusError(callerCtx.StatusCode))

		return entity.Caller{}, false
	}

	return callerCtx.Caller, true
}

// ParseCustomer narrows the caller to the customer capability, answering 401
// on a role mismatch.
func ParseCustomer(w http.ResponseWriter, r *http.Request) (entity.CustomerCaller, bool) {
	caller, ok := ParseCaller(w, r)
	if !ok {
		return entity.CustomerCaller{}, false
	}

	customer, ok := caller.AsCustomer()
	if !ok {
		WriteError(w, http.StatusUnauthorized, usecase.ErrUnauthorized)

		return entity.CustomerCaller{}, false
	}

	return customer, true
}

// ParseStore narrows the caller to the store operator capability, answering
// 401 on a role mismatch.
func ParseStore(w http.ResponseWriter, r *http.Request) (entity.StoreCaller, bool) {
	caller, ok := ParseCaller(w, r)
	if !ok {
		return entity.StoreCaller{}, false
	}

	store, ok := caller.AsStore()
	if !ok {
		WriteError(w, http.StatusUnauthorized, usecase.ErrUnauthorized)

		return entity.StoreCaller{}, false
	}

	return store, true
}

// ParseID reads a positive int64 URL parameter.
func ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}

	return id, nil
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("error while encoding response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, statusCode int, err error) {
	WriteJSON(w, statusCode, model.ErrorResponse{Error: err.Error()})
}

// WriteUsecaseError maps the lifecycle error taxonomy onto HTTP statuses
// with the uniform {"error": <message>} body. Quota and state-transition
// refusals answer 400; 409 is reserved for duplicate resource creation.
func WriteUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		WriteError(w, http.StatusBadRequest, usecase.ErrValidation)
	case errors.Is(err, usecase.ErrLimitExceeded):
		WriteError(w, http.StatusBadRequest, usecase.ErrLimitExceeded)
	case errors.Is(err, usecase.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, usecase.ErrUnauthorized)
	case errors.Is(err, usecase.ErrNotFound):
		WriteError(w, http.StatusNotFound, usecase.ErrNotFound)
	case errors.Is(err, usecase.ErrConflict):
		WriteError(w, http.StatusConflict, usecase.ErrConflict)
	default:
		WriteError(w, http.StatusInternalServerError, usecase.ErrInternal)
	}
}

func statusError(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return usecase.ErrValidation
	case http.StatusUnauthorized:
		return usecase.ErrUnauthorized
	default:
		return usecase.ErrInternal
	}
}
