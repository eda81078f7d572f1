package orders

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

type OrderProcessor interface {
	CreateOrder(ctx context.Context, order entity.Order) (entity.Order, error)
	GetUserOrder(ctx context.Context, userID entity.UserID, orderID int64) (entity.Order, error)
	GetStoreOrder(ctx context.Context, userID entity.UserID, orderID int64) (entity.Order, error)
	ListUserOrders(ctx context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error)
	ListStoreOrders(ctx context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error)
	DeleteOrder(ctx context.Context, userID entity.UserID, orderID int64) error
	AcceptOffer(ctx context.Context, userID entity.UserID, orderID, offerID int64) (entity.Order, error)
}

// Create opens a new Made order for the customer. The processor refuses a
// second open order and enforces the accepted-orders quota.
func Create(parent context.Context, caller entity.CustomerCaller, req model.CreateOrderRequest, processor OrderProcessor) (model.OrderResponse, error) {
	if err := validator.CreateOrderRequest(req); err != nil {
		zap.L().Info("invalid create order request", zap.Error(err))

		return model.OrderResponse{}, usecase.ErrValidation
	}

	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	order, err := processor.CreateOrder(ctx, converter.ConvertCreateOrderRequestToOrder(caller, req))
	if err != nil {
		switch {
		case errors.Is(err, err_storage.ErrMadeOrderExists),
			errors.Is(err, err_storage.ErrUserOrderLimit):
			zap.L().Info("order creation refused", zap.Error(err), zap.String("user_id", caller.ID.String()))

			return model.OrderResponse{}, usecase.ErrLimitExceeded
		}

		zap.L().Error("error while creating order", zap.Error(err))

		return model.OrderResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOrderToResponse(order), nil
}

// Get returns the customer's own order.
func Get(parent context.Context, caller entity.CustomerCaller, orderID int64, processor OrderProcessor) (model.OrderResponse, error) {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	order, err := processor.GetUserOrder(ctx, caller.ID, orderID)

	return convertOrderResult(order, err)
}

// GetForStore returns an order fulfilled by the operator's store.
func GetForStore(parent context.Context, caller entity.StoreCaller, orderID int64, processor OrderProcessor) (model.OrderResponse, error) {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	order, err := processor.GetStoreOrder(ctx, caller.ID, orderID)

	return convertOrderResult(order, err)
}

// List returns the customer's orders, optionally filtered by status,
// newest first.
func List(parent context.Context, caller entity.CustomerCaller, status entity.OrderStatus, processor OrderProcessor) (model.OrdersResponse, error) {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	orders, err := processor.ListUserOrders(ctx, caller.ID, status)
	if err != nil {
		zap.L().Error("error while listing user orders", zap.Error(err))

		return model.OrdersResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOrdersToResponse(orders), nil
}

// ListForStore returns the orders the operator's store fulfils, optionally
// filtered by status, newest first.
func ListForStore(parent context.Context, caller entity.StoreCaller, status entity.OrderStatus, processor OrderProcessor) (model.OrdersResponse, error) {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	orders, err := processor.ListStoreOrders(ctx, caller.ID, status)
	if err != nil {
		zap.L().Error("error while listing store orders", zap.Error(err))

		return model.OrdersResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOrdersToResponse(orders), nil
}

// AcceptOffer moves the customer's Made order to Accepted with the chosen
// offer's price, time and store. Every offer of the order is discarded.
func AcceptOffer(parent context.Context, caller entity.CustomerCaller, orderID int64, req model.AcceptOfferRequest, processor OrderProcessor) (model.OrderResponse, error) {
	if err := validator.AcceptOfferRequest(req); err != nil {
		zap.L().Info("invalid accept offer request", zap.Error(err))

		return model.OrderResponse{}, usecase.ErrValidation
	}

	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	order, err := processor.AcceptOffer(ctx, caller.ID, orderID, req.OfferID)
	if err != nil {
		switch {
		case errors.Is(err, err_storage.ErrOfferNotFound),
			errors.Is(err, err_storage.ErrOrderNotFound):
			return model.OrderResponse{}, usecase.ErrNotFound
		case errors.Is(err, err_storage.ErrOrderNotMade):
			return model.OrderResponse{}, usecase.ErrValidation
		}

		zap.L().Error("error while accepting offer", zap.Error(err))

		return model.OrderResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOrderToResponse(order), nil
}

// Cancel removes the customer's order unless it is already Finished.
func Cancel(parent context.Context, caller entity.CustomerCaller, orderID int64, processor OrderProcessor) error {
	ctx, cancel := context.WithTimeout(parent, httputils.RequestTimeout)
	defer cancel()

	err := processor.DeleteOrder(ctx, caller.ID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, err_storage.ErrOrderNotFound):
			return usecase.ErrNotFound
		case errors.Is(err, err_storage.ErrOrderFinished):
			return usecase.ErrValidation
		}

		zap.L().Error("error while cancelling order", zap.Error(err))

		return usecase.ErrInternal
	}

	return nil
}

func convertOrderResult(order entity.Order, err error) (model.OrderResponse, error) {
	if err != nil {
		if errors.Is(err, err_storage.ErrOrderNotFound) {
			return model.OrderResponse{}, usecase.ErrNotFound
		}

		zap.L().Error("error while fetching order", zap.Error(err))

		return model.OrderResponse{}, usecase.ErrInternal
	}

	return converter.ConvertOrderToResponse(order), nil
}
