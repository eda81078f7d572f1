package entity

type Offers []Offer

// Offer is a store's bid to fulfil a Made order. StoreStars is a read-time
// snapshot of the bidding store's rating, not a persisted column.
type Offer struct {
	ID         int64
	Price      string
	Time       string
	OrderID    int64
	StoreID    int64
	StoreStars int
}
