package converter

import (
	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
)

func ConvertOfferToResponse(offer entity.Offer) model.OfferResponse {
	return model.OfferResponse{
		ID:      offer.ID,
		Price:   offer.Price,
		Time:    offer.Time,
		OrderID: offer.OrderID,
		StoreID: offer.StoreID,
		Stars:   offer.StoreStars,
	}
}

func ConvertCreateOfferRequestToOffer(req model.CreateOfferRequest) entity.Offer {
	return entity.Offer{
		Price:   req.Price,
		Time:    req.Time,
		OrderID: req.OrderID,
		StoreID: req.StoreID,
	}
}
