package ratings

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"delivery-market/internal/app/converter"
	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
	err_storage "delivery-market/internal/app/storage/api/errors"
	usecase "delivery-market/internal/app/usecase/errors"
	httputils "delivery-market/internal/app/usecase/utils"
	"delivery-market/internal/app/validator"
)

type RatingProcessor interface {
	CreateRating(ctx context.Context, userID entity.UserID, rating entity.Rating) (entity.Rating, error)
}

// Create rates the customer's Accepted order. The processor folds the stars
// into the store's running average and finishes the order in the same
// transaction.
func Create(parent context.Context, caller entity.CustomerCaller, req model.CreateRatingRequest, processor RatingProcessor) (model.RatingResponse, error) {
	if err := validator.CreateRatingRequest(req); err != nil {
		zap.L().Info("invalid create rating request", zap.Error(err))

		return model.RatingResponse{}, usecase.ErrValidation
	}

	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	rating, err := processor.CreateRating(ctx, caller.ID, converter.ConvertCreateRatingRequestToRating(req))
	if err != nil {
		switch {
		case errors.Is(err, err_storage.ErrOrderNotFound):
			return model.RatingResponse{}, usecase.ErrNotFound
		case errors.Is(err, err_storage.ErrOrderNotAccepted):
			zap.L().Info("rating refused", zap.Error(err), zap.Int64("order_id", req.OrderID))

			return model.RatingResponse{}, usecase.ErrValidation
		}

		zap.L().Error("error while creating rating", zap.Error(err))

		return model.RatingResponse{}, usecase.ErrInternal
	}

	return converter.ConvertRatingToResponse(rating), nil
}
