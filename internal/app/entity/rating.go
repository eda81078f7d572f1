package entity

type Rating struct {
	ID      int64
	Stars   int
	Comment string
	OrderID int64
}
