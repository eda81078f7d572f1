package converter

import (
	"time"

	"github.com/golang-module/carbon/v2"

	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
)

func ConvertOrderToResponse(order entity.Order) model.OrderResponse {
	items := make([]model.ItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, model.ItemResponse{
			ID:     item.ID,
			Amount: item.Amount,
			Name:   item.Name,
		})
	}

	var storeID *int64
	if order.StoreID > 0 {
		id := order.StoreID
		storeID = &id
	}

	var rating *model.RatingResponse
	if order.Rating != nil {
		converted := ConvertRatingToResponse(*order.Rating)
		rating = &converted
	}

	return model.OrderResponse{
		ID:     order.ID,
		Place:  order.Place,
		Status: order.Status.String(),
		Price:  order.Price,
		Time:   order.Time,
		Geo: model.GeoPlaceResponse{
			Lat: order.Geo.Lat,
			Lon: order.Geo.Lon,
		},
		UserID:    order.UserID.String(),
		StoreID:   storeID,
		Items:     items,
		Rating:    rating,
		CreatedAt: formatTime(order.CreatedAt),
	}
}

func ConvertOrdersToResponse(orders entity.Orders) model.OrdersResponse {
	converted := make([]model.OrderResponse, 0, len(orders))
	for _, order := range orders {
		converted = append(converted, ConvertOrderToResponse(order))
	}

	return model.OrdersResponse{Orders: converted}
}

func ConvertCreateOrderRequestToOrder(caller entity.CustomerCaller, req model.CreateOrderRequest) entity.Order {
	items := make([]entity.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.Item{
			Amount: item.Amount,
			Name:   item.Name,
		})
	}

	return entity.Order{
		Place:  req.Place,
		Status: entity.StatusMadeOrder,
		Geo: entity.GeoPoint{
			Lat: *req.Geo.Lat,
			Lon: *req.Geo.Lon,
		},
		UserID: caller.ID,
		Items:  items,
	}
}

func formatTime(t time.Time) string {
	return carbon.CreateFromStdTime(t).ToRfc3339String()
}
