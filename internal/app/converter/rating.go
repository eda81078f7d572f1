package converter

import (
	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
)

func ConvertRatingToResponse(rating entity.Rating) model.RatingResponse {
	return model.RatingResponse{
		ID:      rating.ID,
		Stars:   rating.Stars,
		Comment: rating.Comment,
	}
}

func ConvertCreateRatingRequestToRating(req model.CreateRatingRequest) entity.Rating {
	return entity.Rating{
		Stars:   req.Stars,
		Comment: req.Comment,
		OrderID: req.OrderID,
	}
}
