package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"delivery-market/internal/app/entity"
	err_storage "delivery-market/internal/app/storage/api/errors"
	"delivery-market/internal/app/storage/api/model"
)

// Memory keeps the whole marketplace in process memory behind one mutex.
// It backs the test suite and the no-database dev mode, and enforces the
// same quota and state rules as the postgres backend.
type Memory struct {
	mu sync.Mutex

	limits model.Limits

	stores map[int64]entity.Store
	orders map[int64]entity.Order
	offers map[int64]entity.Offer

	nextStoreID int64
	nextOrderID int64
	nextItemID  int64
	nextOfferID int64
	nextRateID  int64
}

func NewMemoryStorage(limits model.Limits) *Memory {
	return &Memory{
		limits: limits,
		stores: make(map[int64]entity.Store),
		orders: make(map[int64]entity.Order),
		offers: make(map[int64]entity.Offer),
	}
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) CreateStore(_ context.Context, store entity.Store) (entity.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.stores {
		if existing.UserID == store.UserID {
			return entity.Store{}, err_storage.ErrStoreExists
		}
	}

	m.nextStoreID++
	store.ID = m.nextStoreID
	store.CreatedAt = time.Now().UTC()
	m.stores[store.ID] = store

	return store, nil
}

func (m *Memory) GetStore(_ context.Context, storeID int64) (entity.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[storeID]
	if !ok {
		return entity.Store{}, err_storage.ErrStoreNotFound
	}

	return store, nil
}

func (m *Memory) GetUserStore(_ context.Context, userID entity.UserID) (entity.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.userStore(userID)
	if !ok {
		return entity.Store{}, err_storage.ErrStoreNotFound
	}

	return store, nil
}

func (m *Memory) CreateOrder(_ context.Context, order entity.Order) (entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accepted := 0
	for _, existing := range m.orders {
		if existing.UserID != order.UserID {
			continue
		}
		switch existing.Status {
		case entity.StatusMadeOrder:
			return entity.Order{}, err_storage.ErrMadeOrderExists
		case entity.StatusAcceptedOrder:
			accepted++
		}
	}
	if accepted >= m.limits.UserAcceptedOrders {
		return entity.Order{}, err_storage.ErrUserOrderLimit
	}

	m.nextOrderID++
	order.ID = m.nextOrderID
	order.Status = entity.StatusMadeOrder
	order.CreatedAt = time.Now().UTC()

	items := make([]entity.Item, 0, len(order.Items))
	for _, item := range order.Items {
		m.nextItemID++
		item.ID = m.nextItemID
		items = append(items, item)
	}
	order.Items = items

	m.orders[order.ID] = order

	return copyOrder(order), nil
}

func (m *Memory) GetUserOrder(_ context.Context, userID entity.UserID, orderID int64) (entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return entity.Order{}, err_storage.ErrOrderNotFound
	}

	return copyOrder(order), nil
}

func (m *Memory) GetStoreOrder(_ context.Context, userID entity.UserID, orderID int64) (entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.userStore(userID)
	if !ok {
		return entity.Order{}, err_storage.ErrOrderNotFound
	}

	order, ok := m.orders[orderID]
	if !ok || order.StoreID != store.ID {
		return entity.Order{}, err_storage.ErrOrderNotFound
	}

	return copyOrder(order), nil
}

func (m *Memory) ListUserOrders(_ context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(entity.Orders, 0)
	for _, order := range m.orders {
		if order.UserID == userID && matchStatus(order, status) {
			result = append(result, copyOrder(order))
		}
	}
	sortNewestFirst(result)

	return result, nil
}

func (m *Memory) ListStoreOrders(_ context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(entity.Orders, 0)
	store, ok := m.userStore(userID)
	if !ok {
		return result, nil
	}

	for _, order := range m.orders {
		if order.StoreID == store.ID && matchStatus(order, status) {
			result = append(result, copyOrder(order))
		}
	}
	sortNewestFirst(result)

	return result, nil
}

func (m *Memory) DeleteOrder(_ context.Context, userID entity.UserID, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return err_storage.ErrOrderNotFound
	}
	if order.Status == entity.StatusFinishedOrder {
		return err_storage.ErrOrderFinished
	}

	delete(m.orders, orderID)
	for offerID, offer := range m.offers {
		if offer.OrderID == orderID {
			delete(m.offers, offerID)
		}
	}

	return nil
}

func (m *Memory) ListNearbyOrders(_ context.Context, center entity.GeoPoint, radiusKm int) (entity.Orders, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(entity.Orders, 0)
	for _, order := range m.orders {
		if order.Status != entity.StatusMadeOrder {
			continue
		}
		if center.DistanceKm(order.Geo) <= float64(radiusKm) {
			result = append(result, copyOrder(order))
		}
	}
	sortNewestFirst(result)

	return result, nil
}

func (m *Memory) CreateOffer(_ context.Context, userID entity.UserID, offer entity.Offer) (entity.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[offer.OrderID]
	if !ok {
		return entity.Offer{}, err_storage.ErrOrderNotFound
	}
	if order.Status != entity.StatusMadeOrder {
		return entity.Offer{}, err_storage.ErrOrderNotMade
	}

	store, ok := m.stores[offer.StoreID]
	if !ok {
		return entity.Offer{}, err_storage.ErrStoreNotFound
	}

	if callerStore, ok := m.userStore(userID); ok {
		accepted := 0
		for _, existing := range m.orders {
			if existing.StoreID == callerStore.ID && existing.Status == entity.StatusAcceptedOrder {
				accepted++
			}
		}
		if accepted >= m.limits.StoreAcceptedOrders {
			return entity.Offer{}, err_storage.ErrStoreOrderLimit
		}
	}

	orderOffers := 0
	for _, existing := range m.offers {
		if existing.OrderID == offer.OrderID {
			orderOffers++
			if existing.StoreID == offer.StoreID {
				return entity.Offer{}, err_storage.ErrOfferExists
			}
		}
	}
	if orderOffers >= m.limits.OffersPerOrder {
		return entity.Offer{}, err_storage.ErrOrderOffersLimit
	}

	m.nextOfferID++
	offer.ID = m.nextOfferID
	offer.StoreStars = store.Stars
	m.offers[offer.ID] = offer

	return offer, nil
}

func (m *Memory) AcceptOffer(_ context.Context, userID entity.UserID, orderID, offerID int64) (entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	offer, ok := m.offers[offerID]
	if !ok || offer.OrderID != orderID {
		return entity.Order{}, err_storage.ErrOfferNotFound
	}

	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return entity.Order{}, err_storage.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(entity.StatusAcceptedOrder) {
		return entity.Order{}, err_storage.ErrOrderNotMade
	}

	order.Status = entity.StatusAcceptedOrder
	order.Price = offer.Price
	order.Time = offer.Time
	order.StoreID = offer.StoreID
	m.orders[orderID] = order

	for id, existing := range m.offers {
		if existing.OrderID == orderID {
			delete(m.offers, id)
		}
	}

	return copyOrder(order), nil
}

func (m *Memory) CreateRating(_ context.Context, userID entity.UserID, rating entity.Rating) (entity.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[rating.OrderID]
	if !ok || order.UserID != userID {
		return entity.Rating{}, err_storage.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(entity.StatusFinishedOrder) {
		return entity.Rating{}, err_storage.ErrOrderNotAccepted
	}

	m.nextRateID++
	rating.ID = m.nextRateID

	if store, ok := m.stores[order.StoreID]; ok {
		finished := 0
		for _, existing := range m.orders {
			if existing.StoreID == store.ID && existing.Status == entity.StatusFinishedOrder {
				finished++
			}
		}
		store.Stars = (store.Stars*finished + rating.Stars) / (finished + 1)
		m.stores[store.ID] = store
	}

	order.Status = entity.StatusFinishedOrder
	order.Rating = &rating
	m.orders[order.ID] = order

	return rating, nil
}

func (m *Memory) userStore(userID entity.UserID) (entity.Store, bool) {
	for _, store := range m.stores {
		if store.UserID == userID {
			return store, true
		}
	}

	return entity.Store{}, false
}

func matchStatus(order entity.Order, status entity.OrderStatus) bool {
	return status == entity.StatusAnyOrder || order.Status == status
}

func sortNewestFirst(orders entity.Orders) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}

		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func copyOrder(order entity.Order) entity.Order {
	copied := order
	copied.Items = append([]entity.Item(nil), order.Items...)
	if order.Rating != nil {
		rating := *order.Rating
		copied.Rating = &rating
	}

	return copied
}
