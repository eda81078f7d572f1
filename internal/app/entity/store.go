package entity

import "time"

type Store struct {
	ID        int64
	Name      string
	Place     string
	Stars     int
	Geo       GeoPoint
	RadiusKm  int
	UserID    UserID
	CreatedAt time.Time
}

// Radius resolves the service radius in km, falling back to the configured
// default when the store never set one.
func (s Store) Radius(defaultKm int) int {
	if s.RadiusKm > 0 {
		return s.RadiusKm
	}

	return defaultKm
}
