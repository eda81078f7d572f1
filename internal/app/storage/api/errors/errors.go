package storage

import "errors"

var (
	ErrStoreExists   = errors.New("store already exists for given user")
	ErrStoreNotFound = errors.New("store doesn't exist in storage")

	ErrOrderNotFound = errors.New("order doesn't exist in storage")
	ErrOfferNotFound = errors.New("offer doesn't exist in storage")

	ErrMadeOrderExists  = errors.New("user already has an open order")
	ErrUserOrderLimit   = errors.New("user reached the accepted orders limit")
	ErrStoreOrderLimit  = errors.New("store reached the accepted orders limit")
	ErrOrderOffersLimit = errors.New("order reached the offers limit")
	ErrOfferExists      = errors.New("store already has an offer for given order")

	ErrOrderNotMade     = errors.New("order is not in made status")
	ErrOrderNotAccepted = errors.New("order is not in accepted status")
	ErrOrderFinished    = errors.New("order is already finished")
)
