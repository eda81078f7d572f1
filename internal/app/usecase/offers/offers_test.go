package offers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
	storagemodel "delivery-market/internal/app/storage/api/model"
	"delivery-market/internal/app/storage/memory"
	usecase "delivery-market/internal/app/usecase/errors"
)

func newStorage() *memory.Memory {
	return memory.NewMemoryStorage(storagemodel.Limits{
		UserAcceptedOrders:  4,
		StoreAcceptedOrders: 10,
		OffersPerOrder:      7,
		DefaultRadiusKm:     1,
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	operator := entity.StoreCaller{ID: "op-1"}

	storage := newStorage()
	order, err := storage.CreateOrder(ctx, entity.Order{Place: "x", UserID: "cust-1"})
	require.NoError(t, err)
	store, err := storage.CreateStore(ctx, entity.Store{Name: "La Esquina", UserID: operator.ID})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  model.CreateOfferRequest

		wantErr error
	}{
		{
			name: "missing price",
			req:  model.CreateOfferRequest{Time: "5 min", OrderID: order.ID, StoreID: store.ID},

			wantErr: usecase.ErrValidation,
		},
		{
			name: "missing order id",
			req:  model.CreateOfferRequest{Price: "10", Time: "5 min", StoreID: store.ID},

			wantErr: usecase.ErrValidation,
		},
		{
			name: "unknown order",
			req:  model.CreateOfferRequest{Price: "10", Time: "5 min", OrderID: order.ID + 50, StoreID: store.ID},

			wantErr: usecase.ErrNotFound,
		},
		{
			name: "unknown store",
			req:  model.CreateOfferRequest{Price: "10", Time: "5 min", OrderID: order.ID, StoreID: store.ID + 50},

			wantErr: usecase.ErrNotFound,
		},
		{
			name: "valid offer",
			req:  model.CreateOfferRequest{Price: "10", Time: "5 min", OrderID: order.ID, StoreID: store.ID},
		},
		{
			name: "duplicate bid",
			req:  model.CreateOfferRequest{Price: "12", Time: "7 min", OrderID: order.ID, StoreID: store.ID},

			wantErr: usecase.ErrValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp, err := Create(ctx, operator, test.req, storage)
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotZero(t, resp.ID)
			assert.Equal(t, order.ID, resp.OrderID)
			assert.Equal(t, store.ID, resp.StoreID)
			assert.Zero(t, resp.Stars)
		})
	}
}

func TestCreateForForeignStoreStaysHidden(t *testing.T) {
	ctx := context.Background()

	storage := newStorage()
	order, err := storage.CreateOrder(ctx, entity.Order{Place: "x", UserID: "cust-1"})
	require.NoError(t, err)
	_, err = storage.CreateStore(ctx, entity.Store{Name: "La Esquina", UserID: "op-1"})
	require.NoError(t, err)
	rival, err := storage.CreateStore(ctx, entity.Store{Name: "Rival", UserID: "op-2"})
	require.NoError(t, err)

	t.Run("bid as somebody else's store", func(t *testing.T) {
		_, err := Create(ctx, entity.StoreCaller{ID: "op-1"}, model.CreateOfferRequest{
			Price:   "10",
			Time:    "5 min",
			OrderID: order.ID,
			StoreID: rival.ID,
		}, storage)
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("operator without a store", func(t *testing.T) {
		_, err := Create(ctx, entity.StoreCaller{ID: "op-3"}, model.CreateOfferRequest{
			Price:   "10",
			Time:    "5 min",
			OrderID: order.ID,
			StoreID: rival.ID,
		}, storage)
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}

func TestCreateOfferQuotaExhausted(t *testing.T) {
	ctx := context.Background()

	storage := memory.NewMemoryStorage(storagemodel.Limits{
		UserAcceptedOrders:  4,
		StoreAcceptedOrders: 10,
		OffersPerOrder:      1,
		DefaultRadiusKm:     1,
	})
	order, err := storage.CreateOrder(ctx, entity.Order{Place: "x", UserID: "cust-1"})
	require.NoError(t, err)
	first, err := storage.CreateStore(ctx, entity.Store{Name: "La Esquina", UserID: "op-1"})
	require.NoError(t, err)
	second, err := storage.CreateStore(ctx, entity.Store{Name: "Rival", UserID: "op-2"})
	require.NoError(t, err)

	_, err = Create(ctx, entity.StoreCaller{ID: "op-1"}, model.CreateOfferRequest{
		Price:   "10",
		Time:    "5 min",
		OrderID: order.ID,
		StoreID: first.ID,
	}, storage)
	require.NoError(t, err)

	_, err = Create(ctx, entity.StoreCaller{ID: "op-2"}, model.CreateOfferRequest{
		Price:   "9",
		Time:    "4 min",
		OrderID: order.ID,
		StoreID: second.ID,
	}, storage)
	assert.ErrorIs(t, err, usecase.ErrLimitExceeded)
}

func TestCreateOnAcceptedOrderRefused(t *testing.T) {
	ctx := context.Background()
	operator := entity.StoreCaller{ID: "op-1"}

	storage := newStorage()
	order, err := storage.CreateOrder(ctx, entity.Order{Place: "x", UserID: "cust-1"})
	require.NoError(t, err)
	store, err := storage.CreateStore(ctx, entity.Store{Name: "La Esquina", UserID: operator.ID})
	require.NoError(t, err)

	offer, err := storage.CreateOffer(ctx, operator.ID, entity.Offer{Price: "10", Time: "5 min", OrderID: order.ID, StoreID: store.ID})
	require.NoError(t, err)
	_, err = storage.AcceptOffer(ctx, "cust-1", order.ID, offer.ID)
	require.NoError(t, err)

	rival, err := storage.CreateStore(ctx, entity.Store{Name: "Rival", UserID: "op-2"})
	require.NoError(t, err)

	_, err = Create(ctx, entity.StoreCaller{ID: "op-2"}, model.CreateOfferRequest{
		Price:   "8",
		Time:    "3 min",
		OrderID: order.ID,
		StoreID: rival.ID,
	}, storage)
	assert.ErrorIs(t, err, usecase.ErrValidation)
}
