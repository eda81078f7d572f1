package offers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	httputils "delivery-market/internal/app/controller/http/utils"
	"delivery-market/internal/app/model"
	usecase "delivery-market/internal/app/usecase/errors"
	"delivery-market/internal/app/usecase/offers"
)

type Offer struct {
	storage offers.OfferProcessor
}

func New(storage offers.OfferProcessor) Offer {
	return Offer{
		storage: storage,
	}
}

// CreateOffer handles POST /offer for store operators.
func (p *Offer) CreateOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseStore(w, r)
		if !ok {
			return
		}

		var req model.CreateOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			zap.L().Info("error while decoding create offer body", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := offers.Create(r.Context(), caller, req, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusCreated, resp)
	}
}
