package model

import (
	"context"

	"delivery-market/internal/app/entity"
)

// Limits carries the configurable quotas every backend enforces inside its
// own transaction boundaries.
type Limits struct {
	UserAcceptedOrders  int
	StoreAcceptedOrders int
	OffersPerOrder      int
	DefaultRadiusKm     int
}

type Storage interface {
	Close() error

	CreateStore(ctx context.Context, store entity.Store) (entity.Store, error)
	GetStore(ctx context.Context, storeID int64) (entity.Store, error)
	GetUserStore(ctx context.Context, userID entity.UserID) (entity.Store, error)

	// CreateOrder checks the customer quotas (no Made order, accepted orders
	// under the limit) and inserts the order with its items as one unit.
	CreateOrder(ctx context.Context, order entity.Order) (entity.Order, error)
	GetUserOrder(ctx context.Context, userID entity.UserID, orderID int64) (entity.Order, error)
	GetStoreOrder(ctx context.Context, userID entity.UserID, orderID int64) (entity.Order, error)
	ListUserOrders(ctx context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error)
	ListStoreOrders(ctx context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error)
	// DeleteOrder removes the order and cascades into items, offers and
	// rating. Finished orders are refused.
	DeleteOrder(ctx context.Context, userID entity.UserID, orderID int64) error
	// ListNearbyOrders returns Made orders within radiusKm of the centre,
	// newest first.
	ListNearbyOrders(ctx context.Context, center entity.GeoPoint, radiusKm int) (entity.Orders, error)

	// CreateOffer checks the order status, the bidding store's accepted-order
	// quota (resolved through userID), the per-order offer quota and the
	// duplicate-bid rule before inserting.
	CreateOffer(ctx context.Context, userID entity.UserID, offer entity.Offer) (entity.Offer, error)
	// AcceptOffer flips the order to Accepted, copies price/time/store from
	// the winning offer and deletes every offer of the order, atomically.
	AcceptOffer(ctx context.Context, userID entity.UserID, orderID, offerID int64) (entity.Order, error)

	// CreateRating inserts the rating, folds the stars into the fulfilling
	// store's running average and finishes the order, atomically.
	CreateRating(ctx context.Context, userID entity.UserID, rating entity.Rating) (entity.Rating, error)
}
