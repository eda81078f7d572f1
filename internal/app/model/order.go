package model

type GeoPlace struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lon *float64 `json:"lon" validate:"required"`
}

type GeoPlaceResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type CreateOrderRequest struct {
	Place string             `json:"place" validate:"required"`
	Geo   *GeoPlace          `json:"geoplace" validate:"required"`
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required"`
}

type AcceptOfferRequest struct {
	OfferID int64 `json:"offer_id" validate:"required"`
}

type ItemResponse struct {
	ID     int64  `json:"id"`
	Amount int    `json:"amount"`
	Name   string `json:"name"`
}

type OrderResponse struct {
	ID        int64            `json:"id"`
	Place     string           `json:"place"`
	Status    string           `json:"status"`
	Price     string           `json:"price"`
	Time      string           `json:"time"`
	Geo       GeoPlaceResponse `json:"geoplace"`
	UserID    string           `json:"user_id"`
	StoreID   *int64           `json:"store_id"`
	Items     []ItemResponse   `json:"items"`
	Rating    *RatingResponse  `json:"rating,omitempty"`
	CreatedAt string           `json:"created_at"`
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
