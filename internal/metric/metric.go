// Package metric derives pace and speed from a workout's distance and duration.
package metric

import "math"

// PaceMinPerKm returns the running pace in minutes per kilometre.
// Callers must ensure distanceKm is positive.
func PaceMinPerKm(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

// SpeedKmPerH returns the cycling speed in kilometres per hour.
// Callers must ensure durationMin is positive.
func SpeedKmPerH(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

// Round1 rounds v to one decimal place for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
