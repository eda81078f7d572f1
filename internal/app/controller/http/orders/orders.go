package orders

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	httputils "delivery-market/internal/app/controller/http/utils"
	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
	usecase "delivery-market/internal/app/usecase/errors"
	"delivery-market/internal/app/usecase/orders"
)

type Order struct {
	storage orders.OrderProcessor
}

func New(storage orders.OrderProcessor) Order {
	return Order{
		storage: storage,
	}
}

// CreateOrder handles POST /order for customers.
func (p *Order) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseCustomer(w, r)
		if !ok {
			return
		}

		var req model.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			zap.L().Info("error while decoding create order body", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := orders.Create(r.Context(), caller, req, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusCreated, resp)
	}
}

// GetOrders handles GET /order. Customers see their own orders, operators
// the orders their store fulfils. The optional status query narrows the
// listing.
func (p *Order) GetOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := entity.StatusAnyOrder
		if raw := r.URL.Query().Get("status"); len(raw) > 0 {
			parsed, err := entity.ParseOrderStatus(raw)
			if err != nil {
				zap.L().Info("invalid status filter", zap.Error(err))
				httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

				return
			}
			status = parsed
		}

		p.listOrders(w, r, status)
	}
}

// GetOrdersWithStatus serves the literal status alias routes.
func (p *Order) GetOrdersWithStatus(status entity.OrderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.listOrders(w, r, status)
	}
}

// GetOrder handles GET /order/{orderID}, scoped to the order's customer or
// the fulfilling store.
func (p *Order) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := httputils.ParseID(r, "orderID")
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		caller, ok := httputils.ParseCaller(w, r)
		if !ok {
			return
		}

		var resp model.OrderResponse
		if customer, ok := caller.AsCustomer(); ok {
			resp, err = orders.Get(r.Context(), customer, orderID, p.storage)
		} else if store, ok := caller.AsStore(); ok {
			resp, err = orders.GetForStore(r.Context(), store, orderID, p.storage)
		} else {
			httputils.WriteError(w, http.StatusUnauthorized, usecase.ErrUnauthorized)

			return
		}

		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusOK, resp)
	}
}

// AcceptOffer handles PUT /order/{orderID} for customers.
func (p *Order) AcceptOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseCustomer(w, r)
		if !ok {
			return
		}

		orderID, err := httputils.ParseID(r, "orderID")
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		var req model.AcceptOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			zap.L().Info("error while decoding accept offer body", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		resp, err := orders.AcceptOffer(r.Context(), caller, orderID, req, p.storage)
		if err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusOK, resp)
	}
}

// DeleteOrder handles DELETE /order/{orderID} for customers.
func (p *Order) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseCustomer(w, r)
		if !ok {
			return
		}

		orderID, err := httputils.ParseID(r, "orderID")
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, usecase.ErrValidation)

			return
		}

		if err := orders.Cancel(r.Context(), caller, orderID, p.storage); err != nil {
			httputils.WriteUsecaseError(w, err)

			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.StatusResponse{Msg: "order cancelled"})
	}
}

func (p *Order) listOrders(w http.ResponseWriter, r *http.Request, status entity.OrderStatus) {
	caller, ok := httputils.ParseCaller(w, r)
	if !ok {
		return
	}

	var resp model.OrdersResponse
	var err error
	if customer, ok := caller.AsCustomer(); ok {
		resp, err = orders.List(r.Context(), customer, status, p.storage)
	} else if store, ok := caller.AsStore(); ok {
		resp, err = orders.ListForStore(r.Context(), store, status, p.storage)
	} else {
		httputils.WriteError(w, http.StatusUnauthorized, usecase.ErrUnauthorized)

		return
	}

	if err != nil {
		httputils.WriteUsecaseError(w, err)

		return
	}

	httputils.WriteJSON(w, http.StatusOK, resp)
}
