package stores

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	httputils "delivery-market/internal/app/controller/http/utils"
	"delivery-market/internal/app/model"
	usecase "delivery-market/internal/app/usecase/errors"
	"delivery-market/internal/app/usecase/stores"
)

type Store struct {
	storage         stores.StoreProcessor
	defaultRadiusKm int
}

func New(storage stores.StoreProcessor, defaultRadiusKm int) Store {
	return Store{
		storage:         storage,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// CreateStore handles POST /store for store operators.
func (p *Store) CreateStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseStore(w, r)
		if !ok {
			return
		}

		var req model.CreateStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			zap.L().Info("error while decoding create store body", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := stores.Create(r.Context(), caller, req, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusCreated, resp)
	}
}

// GetStore handles GET /store/{storeID}, scoped to the owning operator.
func (p *Store) GetStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseStore(w, r)
		if !ok {
			return
		}

		storeID, err := httputils.ParseID(r, "storeID")
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := stores.Get(r.Context(), caller, storeID, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusOK, resp)
	}
}

// ListNearbyOrders handles GET /store/{storeID}/order/nearme: the open
// orders within the store's service radius.
func (p *Store) ListNearbyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseStore(w, r)
		if !ok {
			return
		}

		storeID, err := httputils.ParseID(r, "storeID")
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := stores.ListNearby(r.Context(), caller, storeID, p.defaultRadiusKm, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusOK, resp)
	}
}
