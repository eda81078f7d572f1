package entity

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus int

const (
	StatusMadeOrder OrderStatus = iota
	StatusAcceptedOrder
	StatusFinishedOrder

	// StatusAnyOrder is the "no filter" value for order listings.
	StatusAnyOrder OrderStatus = -1
)

func (s OrderStatus) String() string {
	switch s {
	case StatusMadeOrder:
		return "Made"
	case StatusAcceptedOrder:
		return "Accepted"
	case StatusFinishedOrder:
		return "Finished"
	default:
		return "Unknown"
	}
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch strings.ToLower(raw) {
	case "made":
		return StatusMadeOrder, nil
	case "accepted":
		return StatusAcceptedOrder, nil
	case "finished":
		return StatusFinishedOrder, nil
	default:
		return StatusAnyOrder, fmt.Errorf("unknown order status %q", raw)
	}
}

// CanTransitionTo reports whether the Made -> Accepted -> Finished chain
// allows moving from s to next. No reverse steps, no skipping.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return next == s+1 && next <= StatusFinishedOrder
}

type Orders []Order

type Order struct {
	ID        int64
	Place     string
	Status    OrderStatus
	Price     string
	Time      string
	Geo       GeoPoint
	UserID    UserID
	StoreID   int64
	Items     []Item
	Rating    *Rating
	CreatedAt time.Time
}

type Item struct {
	ID     int64
	Amount int
	Name   string
}
