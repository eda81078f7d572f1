package offers

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

type OfferProcessor interface {
	GetUserStore(ctx context.Context, userID entity.UserID) (entity.Store, error)
	CreateOffer(ctx context.Context, userID entity.UserID, offer entity.Offer) (entity.Offer, error)
}

// Create places a store's bid on a Made order. The caller must bid as the
// store they own; the processor checks the order status, the store's
// accepted-orders quota, the per-order offer quota and the one-bid-per-store
// rule.
func Create(parent context.Context, caller entity.StoreCaller, req model.CreateOfferRequest, processor OfferProcessor) (model.OfferResponse, error) {
	if err := validator.CreateOfferRequest(req); err != nil {
		zap.L().Info("invalid create offer request", zap.Error(err))

		return model.OfferResponse{}, usecase.ErrValidation
	}

	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	ownStore, err := processor.GetUserStore(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, err_storage.ErrStoreNotFound) {
			return model.OfferResponse{}, usecase.ErrNotFound
		}

		zap.L().Error("error while resolving caller store", zap.Error(err))

		return model.OfferResponse{}, usecase.ErrInternal
	}
	if ownStore.ID != req.StoreID {
		zap.L().Info("offer for a store the caller does not own",
			zap.Int64("store_id", req.StoreID), zap.String("user_id", caller.ID.String()))

		return model.OfferResponse{}, usecase.ErrNotFound
	}

	offer, err := processor.CreateOffer(ctx, caller.ID, converter.ConvertCreateOfferRequestToOffer(req))
	if err != nil {
		switch {
		case errors.Is(err, err_storage.ErrOrderNotFound),
			errors.Is(err, err_storage.ErrStoreNotFound):
			return model.OfferResponse{}, usecase.ErrNotFound
		case errors.Is(err, err_storage.ErrOrderNotMade),
			errors.Is(err, err_storage.ErrOfferExists):
			zap.L().Info("offer refused", zap.Error(err),
				zap.Int64("order_id", req.OrderID), zap.Int64("store_id", req.StoreID))

			return model.OfferResponse{}, usecase.ErrValidation
		case errors.Is(err, err_storage.ErrStoreOrderLimit),
			errors.Is(err, err_storage.ErrOrderOffersLimit):
			zap.L().Info("offer quota exhausted", zap.Error(err),
				zap.Int64("order_id", req.OrderID), zap.Int64("store_id", req.StoreID))

			return model.OfferResponse{}, usecase.ErrLimitExceeded
		}

		zap.L().Error("error while creating offer", zap.Error(err))

		return model.OfferResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOfferToResponse(offer), nil
}
