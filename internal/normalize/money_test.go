package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromUpstream(t *testing.T) {
	testCases := []struct {
		name     string
		raw      float64
		expected float64
	}{
		{name: "Zero", raw: 0, expected: 0},
		{name: "Small major amount", raw: 42.5, expected: 42.5},
		{name: "Threshold is major", raw: 100, expected: 100},
		{name: "Minor units", raw: 5000, expected: 50},
		{name: "Minor units with cents", raw: 12345, expected: 123.45},
		{name: "Whole currency above threshold is misread", raw: 150, expected: 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, FromUpstream(tc.raw), 1e-9)
		})
	}
}

func TestFromUpstream_RoundTripOnlyHoldsUpToThreshold(t *testing.T) {
	for _, v := range []float64{0, 1, 37.5, 99.99, 100} {
		back := FromUpstream(float64(ToMinorUnits(FromUpstream(v))))
		assert.InDelta(t, FromUpstream(v), back, 1e-9, "value %v", v)
	}

	// 5000 -> 50.00 -> 5000 minor units -> 50.00: stable because the major value is below the threshold.
	assert.InDelta(t, 50.0, FromUpstream(float64(ToMinorUnits(FromUpstream(5000)))), 1e-9)
	// 150 -> 1.50 -> 150 -> 1.50: stable, but the original 150.00 was lost on the first read.
	assert.InDelta(t, 1.5, FromUpstream(float64(ToMinorUnits(FromUpstream(150)))), 1e-9)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5000), ToMinorUnits(50))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(1), ToMinorUnits(0.005))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 0.0, Sum())
}
