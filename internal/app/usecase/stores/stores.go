package stores

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

type StoreProcessor interface {
	CreateStore(ctx context.Context, store entity.Store) (entity.Store, error)
	GetStore(ctx context.Context, storeID int64) (entity.Store, error)
	ListNearbyOrders(ctx context.Context, center entity.GeoPoint, radiusKm int) (entity.Orders, error)
}

// Create registers the operator's store. One store per operator.
func Create(parent context.Context, caller entity.StoreCaller, req model.CreateStoreRequest, processor StoreProcessor) (model.StoreResponse, error) {
	if err := validator.CreateStoreRequest(req); err != nil {
		zap.L().Info("invalid create store request", zap.Error(err))

		return model.StoreResponse{}, usecase.ErrValidation
	}

	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	store, err := processor.CreateStore(ctx, converter.ConvertCreateStoreRequestToStore(caller, req))
	if err != nil {
		if errors.Is(err, err_storage.ErrStoreExists) {
			zap.L().Info("store already registered", zap.String("user_id", caller.ID.String()))

			return model.StoreResponse{}, usecase.ErrConflict
		}

		zap.L().Error("error while creating store", zap.Error(err))

		return model.StoreResponse{}, usecase.ErrInternal
	}

	return converter.ConvertStoreToResponse(store), nil
}

// Get returns the operator's store. Stores of other operators stay hidden
// behind a not found, same as foreign orders.
func Get(parent context.Context, caller entity.StoreCaller, storeID int64, processor StoreProcessor) (model.StoreResponse, error) {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	store, err := fetchOwnStore(ctx, caller, storeID, processor)
	if err != nil {
		if errors.Is(err, err_storage.ErrStoreNotFound) {
			return model.StoreResponse{}, usecase.ErrNotFound
		}

		zap.L().Error("error while fetching store", zap.Error(err))

		return model.StoreResponse{}, usecase.ErrInternal
	}

	return converter.ConvertStoreToResponse(store), nil
}

// ListNearby returns the open orders within the store's service radius,
// falling back to the configured default radius. Only the owning operator
// may query it.
func ListNearby(parent context.Context, caller entity.StoreCaller, storeID int64, defaultRadiusKm int, processor StoreProcessor) (model.OrdersResponse, error) {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	store, err := processor.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, err_storage.ErrStoreNotFound) {
			return model.OrdersResponse{}, usecase.ErrNotFound
		}

		zap.L().Error("error while fetching store", zap.Error(err))

		return model.OrdersResponse{}, usecase.ErrInternal
	}
	if store.UserID != caller.ID {
		return model.OrdersResponse{}, usecase.ErrUnauthorized
	}

	orders, err := processor.ListNearbyOrders(ctx, store.Geo, store.Radius(defaultRadiusKm))
	if err != nil {
		zap.L().Error("error while listing nearby orders", zap.Error(err))

		return model.OrdersResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOrdersToResponse(orders), nil
}

func fetchOwnStore(ctx context.Context, caller entity.StoreCaller, storeID int64, processor StoreProcessor) (entity.Store, error) {
	store, err := processor.GetStore(ctx, storeID)
	if err != nil {
		return entity.Store{}, err
	}
	if store.UserID != caller.ID {
		return entity.Store{}, err_storage.ErrStoreNotFound
	}

	return store, nil
}
