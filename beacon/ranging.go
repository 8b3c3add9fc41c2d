package beacon

import "math"

// DistanceUnknown is the sentinel returned when no reliable distance can be
// derived (RSSI of zero means "no reading").
const DistanceUnknown = -1.0

// Proximity is a coarse bucketed distance classification.
type Proximity int

const (
	ProximityUnknown Proximity = iota
	ProximityImmediate
	ProximityNear
	ProximityFar
)

func (p Proximity) String() string {
	switch p {
	case ProximityImmediate:
		return "Immediate"
	case ProximityNear:
		return "Near"
	case ProximityFar:
		return "Far"
	default:
		return "Unknown"
	}
}

// EstimateDistance converts a measured RSSI into a distance estimate in
// meters using the calibrated reference power at one meter.
//
// The piecewise power-law constants are empirical and must not be changed:
// recorded deployments depend on estimates being reproducible.
func EstimateDistance(calibratedPower int8, rssi float64) float64 {
	if rssi == 0 {
		return DistanceUnknown
	}

	ratio := rssi / float64(calibratedPower)
	if ratio < 1.0 {
		return math.Pow(ratio, 10)
	}
	return 0.89976*math.Pow(ratio, 7.7095) + 0.111
}

// ClassifyProximity buckets a distance estimate. Boundary values are
// inclusive: 0.5m and 4.0m both classify as Near.
func ClassifyProximity(distance float64) Proximity {
	switch {
	case distance < 0:
		return ProximityUnknown
	case distance < 0.5:
		return ProximityImmediate
	case distance <= 4.0:
		return ProximityNear
	default:
		return ProximityFar
	}
}
