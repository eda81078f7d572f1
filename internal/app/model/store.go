package model

type CreateStoreRequest struct {
	Name     string    `json:"name" validate:"required"`
	Place    string    `json:"place" validate:"required"`
	Geo      *GeoPlace `json:"geoplace" validate:"required"`
	RadiusKm int       `json:"radius" validate:"omitempty,gt=0"`
}

type StoreResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Place     string           `json:"place"`
	Stars     int              `json:"stars"`
	Geo       GeoPlaceResponse `json:"geoplace"`
	RadiusKm  int              `json:"radius"`
	UserID    string           `json:"user_id"`
	CreatedAt string           `json:"created_at"`
}
