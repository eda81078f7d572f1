package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"delivery-market/internal/app/entity"
	err_storage "delivery-market/internal/app/storage/api/errors"
	"delivery-market/internal/app/storage/api/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	insertStoreQuery = `INSERT INTO stores (name, place, lat, lon, radius_km, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, stars, created_at`
	selectStoreQuery     = `SELECT id, name, place, stars, lat, lon, radius_km, user_id, created_at FROM stores WHERE id = $1`
	selectUserStoreQuery = `SELECT id, name, place, stars, lat, lon, radius_km, user_id, created_at FROM stores WHERE user_id = $1`

	orderColumns = `id, place, status, price, fulfil_time, lat, lon, user_id, store_id, created_at`

	selectUserOrderStatusesQuery = `SELECT status FROM orders WHERE user_id = $1 AND status < 2`
	insertOrderQuery             = `INSERT INTO orders (place, lat, lon, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	insertItemQuery = `INSERT INTO items (amount, name, order_id) VALUES ($1, $2, $3) RETURNING id`

	selectUserOrderQuery  = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	selectStoreOrderQuery = `SELECT o.id, o.place, o.status, o.price, o.fulfil_time, o.lat, o.lon, o.user_id, o.store_id, o.created_at
		FROM orders o
		JOIN stores s ON s.id = o.store_id
		WHERE o.id = $1 AND s.user_id = $2`

	listUserOrdersQuery = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 AND ($2 < 0 OR status = $2)
		ORDER BY created_at DESC, id DESC`
	listStoreOrdersQuery = `SELECT o.id, o.place, o.status, o.price, o.fulfil_time, o.lat, o.lon, o.user_id, o.store_id, o.created_at
		FROM orders o
		JOIN stores s ON s.id = o.store_id
		WHERE s.user_id = $1 AND ($2 < 0 OR o.status = $2)
		ORDER BY o.created_at DESC, o.id DESC`

	selectOrderForDeleteQuery = `SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`
	deleteOrderQuery          = `DELETE FROM orders WHERE id = $1`

	listNearbyOrdersQuery = `SELECT ` + orderColumns + ` FROM orders
		WHERE status = 0
		AND 6371 * acos(least(1, greatest(-1,
			cos(radians($1)) * cos(radians(lat)) * cos(radians(lon) - radians($2))
			+ sin(radians($1)) * sin(radians(lat))))) <= $3
		ORDER BY created_at DESC, id DESC`

	selectOrderStatusQuery      = `SELECT status FROM orders WHERE id = $1`
	selectStoreStarsQuery       = `SELECT stars FROM stores WHERE id = $1`
	countStoreAcceptedQuery     = `SELECT count(*) FROM orders o JOIN stores s ON s.id = o.store_id WHERE s.user_id = $1 AND o.status = 1`
	countOrderOffersQuery       = `SELECT count(*), count(*) FILTER (WHERE store_id = $2) FROM offers WHERE order_id = $1`
	insertOfferQuery            = `INSERT INTO offers (price, fulfil_time, order_id, store_id) VALUES ($1, $2, $3, $4) RETURNING id`
	selectOfferQuery            = `SELECT price, fulfil_time, store_id FROM offers WHERE id = $1 AND order_id = $2`
	selectOrderForUpdateQuery   = `SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`
	acceptOrderQuery            = `UPDATE orders SET status = 1, price = $1, fulfil_time = $2, store_id = $3 WHERE id = $4`
	deleteOrderOffersQuery      = `DELETE FROM offers WHERE order_id = $1`
	selectOrderForRatingQuery   = `SELECT status, store_id FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`
	insertRatingQuery           = `INSERT INTO ratings (stars, comment, order_id) VALUES ($1, $2, $3) RETURNING id`
	countStoreFinishedQuery     = `SELECT count(*) FROM orders WHERE store_id = $1 AND status = 2`
	updateStoreStarsQuery       = `UPDATE stores SET stars = $1 WHERE id = $2`
	finishOrderQuery            = `UPDATE orders SET status = 2 WHERE id = $1`
	selectOrderItemsQuery  = `SELECT id, amount, name FROM items WHERE order_id = $1 ORDER BY id`
	selectOrderRatingQuery = `SELECT id, stars, comment FROM ratings WHERE order_id = $1`
)

// querier is the common surface of *sql.DB and *sql.Tx, so row loaders work
// inside and outside transactions.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Postgres struct {
	db     *sql.DB
	limits model.Limits
}

func NewPostgresStorage(dbConnect string, limits model.Limits) (*Postgres, error) {
	db, err := sql.Open("pgx", dbConnect)
	if err != nil {
		return nil, fmt.Errorf("error while postgresql connect: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("error while setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, fmt.Errorf("error while applying migrations: %w", err)
	}

	return &Postgres{
		db:     db,
		limits: limits,
	}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) CreateStore(ctx context.Context, store entity.Store) (entity.Store, error) {
	row := s.db.QueryRowContext(ctx, insertStoreQuery,
		store.Name, store.Place, store.Geo.Lat, store.Geo.Lon, store.RadiusKm, store.UserID.String())

	err := row.Scan(&store.ID, &store.Stars, &store.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.Store{}, err_storage.ErrStoreExists
		}

		return entity.Store{}, fmt.Errorf("error while inserting store: %w", err)
	}

	return store, nil
}

func (s *Postgres) GetStore(ctx context.Context, storeID int64) (entity.Store, error) {
	return scanStore(s.db.QueryRowContext(ctx, selectStoreQuery, storeID))
}

func (s *Postgres) GetUserStore(ctx context.Context, userID entity.UserID) (entity.Store, error) {
	return scanStore(s.db.QueryRowContext(ctx, selectUserStoreQuery, userID.String()))
}

func (s *Postgres) CreateOrder(ctx context.Context, order entity.Order) (entity.Order, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while starting transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, selectUserOrderStatusesQuery, order.UserID.String())
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while checking order quotas: %w", err)
	}

	accepted := 0
	for rows.Next() {
		var status entity.OrderStatus
		if err := rows.Scan(&status); err != nil {
			rows.Close()

			return entity.Order{}, fmt.Errorf("error while scanning order status: %w", err)
		}
		switch status {
		case entity.StatusMadeOrder:
			rows.Close()

			return entity.Order{}, err_storage.ErrMadeOrderExists
		case entity.StatusAcceptedOrder:
			accepted++
		}
	}
	if err := rows.Err(); err != nil {
		return entity.Order{}, fmt.Errorf("error while iterating order statuses: %w", err)
	}
	if accepted >= s.limits.UserAcceptedOrders {
		return entity.Order{}, err_storage.ErrUserOrderLimit
	}

	row := tx.QueryRowContext(ctx, insertOrderQuery,
		order.Place, order.Geo.Lat, order.Geo.Lon, order.UserID.String())
	if err := row.Scan(&order.ID, &order.CreatedAt); err != nil {
		return entity.Order{}, fmt.Errorf("error while inserting order: %w", err)
	}
	order.Status = entity.StatusMadeOrder

	for i := range order.Items {
		item := &order.Items[i]
		row := tx.QueryRowContext(ctx, insertItemQuery, item.Amount, item.Name, order.ID)
		if err := row.Scan(&item.ID); err != nil {
			return entity.Order{}, fmt.Errorf("error while inserting order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return entity.Order{}, fmt.Errorf("error while committing order: %w", err)
	}

	return order, nil
}

func (s *Postgres) GetUserOrder(ctx context.Context, userID entity.UserID, orderID int64) (entity.Order, error) {
	order, err := scanOrder(s.db.QueryRowContext(ctx, selectUserOrderQuery, orderID, userID.String()))
	if err != nil {
		return entity.Order{}, err
	}

	if err := s.loadOrderDetails(ctx, s.db, &order); err != nil {
		return entity.Order{}, err
	}

	return order, nil
}

func (s *Postgres) GetStoreOrder(ctx context.Context, userID entity.UserID, orderID int64) (entity.Order, error) {
	order, err := scanOrder(s.db.QueryRowContext(ctx, selectStoreOrderQuery, orderID, userID.String()))
	if err != nil {
		return entity.Order{}, err
	}

	if err := s.loadOrderDetails(ctx, s.db, &order); err != nil {
		return entity.Order{}, err
	}

	return order, nil
}

func (s *Postgres) ListUserOrders(ctx context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error) {
	return s.listOrders(ctx, listUserOrdersQuery, userID.String(), int(status))
}

func (s *Postgres) ListStoreOrders(ctx context.Context, userID entity.UserID, status entity.OrderStatus) (entity.Orders, error) {
	return s.listOrders(ctx, listStoreOrdersQuery, userID.String(), int(status))
}

func (s *Postgres) DeleteOrder(ctx context.Context, userID entity.UserID, orderID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error while starting transaction: %w", err)
	}
	defer tx.Rollback()

	var status entity.OrderStatus
	row := tx.QueryRowContext(ctx, selectOrderForDeleteQuery, orderID, userID.String())
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err_storage.ErrOrderNotFound
		}

		return fmt.Errorf("error while locking order: %w", err)
	}
	if status == entity.StatusFinishedOrder {
		return err_storage.ErrOrderFinished
	}

	if _, err := tx.ExecContext(ctx, deleteOrderQuery, orderID); err != nil {
		return fmt.Errorf("error while deleting order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error while committing order delete: %w", err)
	}

	return nil
}

func (s *Postgres) ListNearbyOrders(ctx context.Context, center entity.GeoPoint, radiusKm int) (entity.Orders, error) {
	return s.listOrders(ctx, listNearbyOrdersQuery, center.Lat, center.Lon, radiusKm)
}

func (s *Postgres) CreateOffer(ctx context.Context, userID entity.UserID, offer entity.Offer) (entity.Offer, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return entity.Offer{}, fmt.Errorf("error while starting transaction: %w", err)
	}
	defer tx.Rollback()

	var status entity.OrderStatus
	row := tx.QueryRowContext(ctx, selectOrderStatusQuery, offer.OrderID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Offer{}, err_storage.ErrOrderNotFound
		}

		return entity.Offer{}, fmt.Errorf("error while checking order status: %w", err)
	}
	if status != entity.StatusMadeOrder {
		return entity.Offer{}, err_storage.ErrOrderNotMade
	}

	row = tx.QueryRowContext(ctx, selectStoreStarsQuery, offer.StoreID)
	if err := row.Scan(&offer.StoreStars); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Offer{}, err_storage.ErrStoreNotFound
		}

		return entity.Offer{}, fmt.Errorf("error while checking store: %w", err)
	}

	var accepted int
	row = tx.QueryRowContext(ctx, countStoreAcceptedQuery, userID.String())
	if err := row.Scan(&accepted); err != nil {
		return entity.Offer{}, fmt.Errorf("error while counting accepted orders: %w", err)
	}
	if accepted >= s.limits.StoreAcceptedOrders {
		return entity.Offer{}, err_storage.ErrStoreOrderLimit
	}

	var total, duplicates int
	row = tx.QueryRowContext(ctx, countOrderOffersQuery, offer.OrderID, offer.StoreID)
	if err := row.Scan(&total, &duplicates); err != nil {
		return entity.Offer{}, fmt.Errorf("error while counting order offers: %w", err)
	}
	if duplicates > 0 {
		return entity.Offer{}, err_storage.ErrOfferExists
	}
	if total >= s.limits.OffersPerOrder {
		return entity.Offer{}, err_storage.ErrOrderOffersLimit
	}

	row = tx.QueryRowContext(ctx, insertOfferQuery, offer.Price, offer.Time, offer.OrderID, offer.StoreID)
	if err := row.Scan(&offer.ID); err != nil {
		if isUniqueViolation(err) {
			return entity.Offer{}, err_storage.ErrOfferExists
		}

		return entity.Offer{}, fmt.Errorf("error while inserting offer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Offer{}, fmt.Errorf("error while committing offer: %w", err)
	}

	return offer, nil
}

func (s *Postgres) AcceptOffer(ctx context.Context, userID entity.UserID, orderID, offerID int64) (entity.Order, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while starting transaction: %w", err)
	}
	defer tx.Rollback()

	var price, fulfilTime string
	var storeID int64
	row := tx.QueryRowContext(ctx, selectOfferQuery, offerID, orderID)
	if err := row.Scan(&price, &fulfilTime, &storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, err_storage.ErrOfferNotFound
		}

		return entity.Order{}, fmt.Errorf("error while fetching offer: %w", err)
	}

	var status entity.OrderStatus
	row = tx.QueryRowContext(ctx, selectOrderForUpdateQuery, orderID, userID.String())
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, err_storage.ErrOrderNotFound
		}

		return entity.Order{}, fmt.Errorf("error while locking order: %w", err)
	}
	if status != entity.StatusMadeOrder {
		return entity.Order{}, err_storage.ErrOrderNotMade
	}

	if _, err := tx.ExecContext(ctx, acceptOrderQuery, price, fulfilTime, storeID, orderID); err != nil {
		return entity.Order{}, fmt.Errorf("error while accepting order: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteOrderOffersQuery, orderID); err != nil {
		return entity.Order{}, fmt.Errorf("error while clearing order offers: %w", err)
	}

	order, err := scanOrder(tx.QueryRowContext(ctx, selectUserOrderQuery, orderID, userID.String()))
	if err != nil {
		return entity.Order{}, err
	}
	if err := s.loadOrderDetails(ctx, tx, &order); err != nil {
		return entity.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return entity.Order{}, fmt.Errorf("error while committing offer accept: %w", err)
	}

	return order, nil
}

func (s *Postgres) CreateRating(ctx context.Context, userID entity.UserID, rating entity.Rating) (entity.Rating, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return entity.Rating{}, fmt.Errorf("error while starting transaction: %w", err)
	}
	defer tx.Rollback()

	var status entity.OrderStatus
	var storeID sql.NullInt64
	row := tx.QueryRowContext(ctx, selectOrderForRatingQuery, rating.OrderID, userID.String())
	if err := row.Scan(&status, &storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Rating{}, err_storage.ErrOrderNotFound
		}

		return entity.Rating{}, fmt.Errorf("error while locking order: %w", err)
	}
	if status != entity.StatusAcceptedOrder {
		return entity.Rating{}, err_storage.ErrOrderNotAccepted
	}

	row = tx.QueryRowContext(ctx, insertRatingQuery, rating.Stars, rating.Comment, rating.OrderID)
	if err := row.Scan(&rating.ID); err != nil {
		return entity.Rating{}, fmt.Errorf("error while inserting rating: %w", err)
	}

	if storeID.Valid {
		var stars, finished int
		row = tx.QueryRowContext(ctx, selectStoreStarsQuery, storeID.Int64)
		if err := row.Scan(&stars); err != nil {
			return entity.Rating{}, fmt.Errorf("error while fetching store stars: %w", err)
		}
		row = tx.QueryRowContext(ctx, countStoreFinishedQuery, storeID.Int64)
		if err := row.Scan(&finished); err != nil {
			return entity.Rating{}, fmt.Errorf("error while counting finished orders: %w", err)
		}

		stars = (stars*finished + rating.Stars) / (finished + 1)
		if _, err := tx.ExecContext(ctx, updateStoreStarsQuery, stars, storeID.Int64); err != nil {
			return entity.Rating{}, fmt.Errorf("error while updating store stars: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, finishOrderQuery, rating.OrderID); err != nil {
		return entity.Rating{}, fmt.Errorf("error while finishing order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Rating{}, fmt.Errorf("error while committing rating: %w", err)
	}

	return rating, nil
}

func (s *Postgres) listOrders(ctx context.Context, query string, args ...any) (entity.Orders, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error while listing orders: %w", err)
	}
	defer rows.Close()

	orders := make(entity.Orders, 0)
	for rows.Next() {
		order, err := scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating orders: %w", err)
	}

	for i := range orders {
		if err := s.loadOrderDetails(ctx, s.db, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (s *Postgres) loadOrderDetails(ctx context.Context, q querier, order *entity.Order) error {
	rows, err := q.QueryContext(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return fmt.Errorf("error while loading order items: %w", err)
	}
	defer rows.Close()

	order.Items = make([]entity.Item, 0)
	for rows.Next() {
		var item entity.Item
		if err := rows.Scan(&item.ID, &item.Amount, &item.Name); err != nil {
			return fmt.Errorf("error while scanning order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error while iterating order items: %w", err)
	}

	var rating entity.Rating
	row := q.QueryRowContext(ctx, selectOrderRatingQuery, order.ID)
	err = row.Scan(&rating.ID, &rating.Stars, &rating.Comment)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("error while loading order rating: %w", err)
	default:
		rating.OrderID = order.ID
		order.Rating = &rating
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row *sql.Row) (entity.Order, error) {
	order, err := scanOrderFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, err_storage.ErrOrderNotFound
	}

	return order, err
}

func scanOrderRows(rows *sql.Rows) (entity.Order, error) {
	return scanOrderFrom(rows)
}

func scanOrderFrom(scanner rowScanner) (entity.Order, error) {
	var order entity.Order
	var userID string
	var storeID sql.NullInt64

	err := scanner.Scan(&order.ID, &order.Place, &order.Status, &order.Price, &order.Time,
		&order.Geo.Lat, &order.Geo.Lon, &userID, &storeID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, err
		}

		return entity.Order{}, fmt.Errorf("error while scanning order: %w", err)
	}

	order.UserID = entity.UserID(userID)
	order.StoreID = storeID.Int64

	return order, nil
}

func scanStore(row *sql.Row) (entity.Store, error) {
	var store entity.Store
	var userID string

	err := row.Scan(&store.ID, &store.Name, &store.Place, &store.Stars,
		&store.Geo.Lat, &store.Geo.Lon, &store.RadiusKm, &userID, &store.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Store{}, err_storage.ErrStoreNotFound
		}

		return entity.Store{}, fmt.Errorf("error while scanning store: %w", err)
	}

	store.UserID = entity.UserID(userID)

	return store, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}
