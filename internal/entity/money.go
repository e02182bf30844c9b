package domain

import "math"

// KoboPerNaira: all stored amounts are kobo (1/100 naira) so order math stays
// in integers; naira only appears at the admin and display boundaries.
const KoboPerNaira = 100

// NairaToKobo converts a naira amount from an admin form into kobo, rounding
// to the nearest kobo.
func NairaToKobo(naira float64) int64 {
	return int64(math.Round(naira * KoboPerNaira))
}

// KoboToNaira converts a stored kobo amount to naira for display.
func KoboToNaira(kobo int64) float64 {
	return float64(kobo) / KoboPerNaira
}
