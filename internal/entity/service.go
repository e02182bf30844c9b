package domain

import "time"

// Service is a catalog offering, e.g. "Wash & Fold" priced per kg.
type Service struct {
	ID        string
	Name      string
	Unit      string // "per_kg", "per_item", ...
	PriceKobo int64
	Active    bool
	CreatedAt time.Time
}

func (s *Service) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "service name required")
	}
	if s.PriceKobo <= 0 {
		return Errorf(EINVALID, "service price must be positive")
	}
	return nil
}
