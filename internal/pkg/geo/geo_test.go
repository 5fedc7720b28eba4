package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_SamePoint(t *testing.T) {
	assert.InDelta(t, 0, HaversineDistance(31.2304, 121.4737, 31.2304, 121.4737), 1e-9)
}

func TestHaversineDistance_KnownPairs(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Point
		want    float64
		epsilon float64
	}{
		// one degree of latitude is ~111.19 km on a 6371 km sphere
		{"one degree latitude", Point{30, 120}, Point{31, 120}, 111195, 5},
		{"beijing to shanghai", Point{39.9042, 116.4074}, Point{31.2304, 121.4737}, 1067000, 3000},
		{"hundred meters east", Point{31.2304, 121.4737}, Point{31.2304, 121.474751}, 100, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Distance(tc.a, tc.b), tc.epsilon)
		})
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := Point{22.5431, 114.0579}
	b := Point{23.1291, 113.2644}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-6)
}

func TestPoint_IsZero(t *testing.T) {
	assert.True(t, Point{}.IsZero())
	assert.False(t, Point{Latitude: 0, Longitude: 0.0001}.IsZero())
}
