package storage

import (
	"go.uber.org/zap"

	"delivery-market/internal/app/config"
	"delivery-market/internal/app/storage/api/model"
	"delivery-market/internal/app/storage/memory"
	"delivery-market/internal/app/storage/postgres"
)

// InitStorage picks the backend from the config: a database URI selects
// postgres, an empty one falls back to the in-process store.
func InitStorage(config config.Config) (model.Storage, error) {
	limits := model.Limits{
		UserAcceptedOrders:  config.UserOrderLimit,
		StoreAcceptedOrders: config.StoreOrderLimit,
		OffersPerOrder:      config.OfferOrderLimit,
		DefaultRadiusKm:     config.DefaultRadiusKm,
	}

	if len(config.DBConnect) == 0 {
		zap.L().Warn("empty database config, using in-memory storage")

		return memory.NewMemoryStorage(limits), nil
	}

	return postgres.NewPostgresStorage(config.DBConnect, limits)
}
