package converter

import (
	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
)

func ConvertStoreToResponse(store entity.Store) model.StoreResponse {
	return model.StoreResponse{
		ID:    store.ID,
		Name:  store.Name,
		Place: store.Place,
		Stars: store.Stars,
		Geo: model.GeoPlaceResponse{
			Lat: store.Geo.Lat,
			Lon: store.Geo.Lon,
		},
		RadiusKm:  store.RadiusKm,
		UserID:    store.UserID.String(),
		CreatedAt: formatTime(store.CreatedAt),
	}
}

func ConvertCreateStoreRequestToStore(caller entity.StoreCaller, req model.CreateStoreRequest) entity.Store {
	return entity.Store{
		Name:  req.Name,
		Place: req.Place,
		Geo: entity.GeoPoint{
			Lat: *req.Geo.Lat,
			Lon: *req.Geo.Lon,
		},
		RadiusKm: req.RadiusKm,
		UserID:   caller.ID,
	}
}
