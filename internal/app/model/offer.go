package model

type CreateOfferRequest struct {
	Price   string `json:"price" validate:"required"`
	Time    string `json:"time" validate:"required"`
	OrderID int64  `json:"order_id" validate:"required"`
	StoreID int64  `json:"store_id" validate:"required"`
}

type OfferResponse struct {
	ID      int64  `json:"id"`
	Price   string `json:"price"`
	Time    string `json:"time"`
	OrderID int64  `json:"order_id"`
	StoreID int64  `json:"store_id"`
	Stars   int    `json:"stars"`
}
