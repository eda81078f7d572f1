package model

// CreateRatingRequest carries a struct-level rule besides the tags: the
// comment becomes mandatory when stars fall below four.
type CreateRatingRequest struct {
	Stars   int    `json:"stars" validate:"required,min=1,max=10"`
	Comment string `json:"comment"`
	OrderID int64  `json:"order_id" validate:"required"`
}

type RatingResponse struct {
	ID      int64  `json:"id"`
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}
