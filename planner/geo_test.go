package planner

import "testing"

func TestHaversineKMZeroForIdenticalPoints(t *testing.T) {
	d := HaversineKM(48.8566, 2.3522, 48.8566, 2.3522)
	if d != 0 {
		t.Errorf("expected 0 distance for identical points, got %f", d)
	}
}

func TestHaversineKMParisToLondon(t *testing.T) {
	d := HaversineKM(48.8566, 2.3522, 51.5074, -0.1278)
	if d < 300 || d > 400 {
		t.Errorf("expected roughly 344km between Paris and London, got %f", d)
	}
}

func TestTravelTimeNonNegativeAndBoundedAwayFromZero(t *testing.T) {
	tt := TravelTime(48.8566, 2.3522, 51.5074, -0.1278, 30)
	if tt <= 0 {
		t.Errorf("expected positive travel time for distinct points, got %f", tt)
	}
}

func TestTravelTimeZeroForSamePoint(t *testing.T) {
	tt := TravelTime(48.8566, 2.3522, 48.8566, 2.3522, 30)
	if tt != 0 {
		t.Errorf("expected zero travel time for identical points, got %f", tt)
	}
}

func TestTravelTimeSymmetric(t *testing.T) {
	a := TravelTime(48.8566, 2.3522, 51.5074, -0.1278, 30)
	b := TravelTime(51.5074, -0.1278, 48.8566, 2.3522, 30)
	if a != b {
		t.Errorf("expected symmetric travel time, got %f vs %f", a, b)
	}
}

func TestWithinRadius(t *testing.T) {
	tests := []struct {
		name   string
		lat    float64
		lon    float64
		radius float64
		want   bool
	}{
		{"same point always within", 48.8566, 2.3522, 1, true},
		{"nearby point within 10km", 48.86, 2.35, 10000, true},
		{"far point outside 1km", 51.5074, -0.1278, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinRadius(48.8566, 2.3522, tt.lat, tt.lon, tt.radius)
			if got != tt.want {
				t.Errorf("WithinRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}
