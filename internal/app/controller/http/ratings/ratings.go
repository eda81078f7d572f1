package ratings

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	httputils "delivery-market/internal/app/controller/http/utils"
	"delivery-market/internal/app/model"
	usecase "delivery-market/internal/app/usecase/errors"
	"delivery-market/internal/app/usecase/ratings"
)

type Rating struct {
	storage ratings.RatingProcessor
}

func New(storage ratings.RatingProcessor) Rating {
	return Rating{
		storage: storage,
	}
}

// CreateRating handles POST /rating for customers.
func (p *Rating) CreateRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseCustomer(w, r)
		if !ok {
			return
		}

		var req model.CreateRatingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			zap.L().Info("error while decoding create rating body", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := ratings.Create(r.Context(), caller, req, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusCreated, resp)
	}
}
