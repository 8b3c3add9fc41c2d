package beacon_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/lantern/beacon"
)

func TestEstimateDistanceZeroRSSIIsUnknown(t *testing.T) {
	for _, power := range []int8{-128, -59, -1, 0, 1, 127} {
		assert.Equal(t, beacon.DistanceUnknown, beacon.EstimateDistance(power, 0),
			"calibrated power %d", power)
	}
}

func TestEstimateDistanceNearField(t *testing.T) {
	// rssi stronger than the calibrated power: ratio < 1, distance = ratio^10.
	d := beacon.EstimateDistance(-59, -50)

	ratio := -50.0 / -59.0
	assert.InDelta(t, math.Pow(ratio, 10), d, 1e-12)
	assert.Less(t, d, 0.5)
}

func TestEstimateDistanceFarField(t *testing.T) {
	d := beacon.EstimateDistance(-59, -65)

	assert.InDelta(t, 2.0097, d, 0.001)
}

func TestEstimateDistanceAtCalibrationPoint(t *testing.T) {
	// rssi equal to the calibrated power: ratio is exactly 1, far-field
	// branch, distance just above one meter.
	d := beacon.EstimateDistance(-59, -59)

	assert.InDelta(t, 0.89976+0.111, d, 1e-12)
}

func TestClassifyProximityBoundaries(t *testing.T) {
	tests := []struct {
		distance float64
		want     beacon.Proximity
	}{
		{distance: beacon.DistanceUnknown, want: beacon.ProximityUnknown},
		{distance: 0, want: beacon.ProximityImmediate},
		{distance: 0.4999, want: beacon.ProximityImmediate},
		{distance: 0.5, want: beacon.ProximityNear},
		{distance: 4.0, want: beacon.ProximityNear},
		{distance: 4.0001, want: beacon.ProximityFar},
		{distance: 100, want: beacon.ProximityFar},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, beacon.ClassifyProximity(tt.distance),
			"distance %v", tt.distance)
	}
}

func TestProximityString(t *testing.T) {
	assert.Equal(t, "Unknown", beacon.ProximityUnknown.String())
	assert.Equal(t, "Immediate", beacon.ProximityImmediate.String())
	assert.Equal(t, "Near", beacon.ProximityNear.String())
	assert.Equal(t, "Far", beacon.ProximityFar.String())
	assert.Equal(t, "Unknown", beacon.Proximity(42).String())
}
