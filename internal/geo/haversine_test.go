package geo

import "testing"

func TestHaversineZeroDistance(t *testing.T) {
	d := HaversineDistance(35.6812, 139.7671, 35.6812, 139.7671)
	if d != 0 {
		t.Fatalf("distance = %f, want 0", d)
	}
}

func TestHaversineTokyoStationToImperialPalace(t *testing.T) {
	// Tokyo Station -> Imperial Palace plaza, roughly 1.1km.
	d := HaversineDistance(35.6812, 139.7671, 35.6852, 139.7528)
	if d < 1000 || d > 1500 {
		t.Fatalf("distance = %f, want ~1100-1400m", d)
	}
}

func TestHaversineShortHop(t *testing.T) {
	// ~100m northward at Tokyo's latitude.
	d := HaversineDistance(35.6812, 139.7671, 35.6821, 139.7671)
	if d < 80 || d > 120 {
		t.Fatalf("distance = %f, want ~100m", d)
	}
}
