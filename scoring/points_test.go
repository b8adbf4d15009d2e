package scoring

import "testing"

func TestComputePointsPlacementTable(t *testing.T) {
	wantByPlacement := map[int]int{
		1:  12,
		2:  9,
		3:  8,
		4:  7,
		5:  6,
		6:  5,
		7:  4,
		8:  3,
		9:  2,
		10: 1,
	}

	for placement, want := range wantByPlacement {
		got := ComputePoints(placement, 0)
		if got.PlacementPoints != want {
			t.Errorf("placement %d: expected %d placement points, got %d", placement, want, got.PlacementPoints)
		}
		if got.TotalPoints != want {
			t.Errorf("placement %d with 0 kills: expected total %d, got %d", placement, want, got.TotalPoints)
		}
	}
}

func TestComputePointsOutsideTable(t *testing.T) {
	for _, placement := range []int{0, 11, 16, 999, -1} {
		got := ComputePoints(placement, 0)
		if got.PlacementPoints != 0 {
			t.Errorf("placement %d: expected 0 placement points, got %d", placement, got.PlacementPoints)
		}
	}
}

func TestComputePointsTotalsIncludeKills(t *testing.T) {
	tests := []struct {
		name      string
		placement int
		kills     int
		wantTotal int
	}{
		{name: "booyah with kills", placement: 1, kills: 6, wantTotal: 18},
		{name: "second place", placement: 2, kills: 4, wantTotal: 13},
		{name: "outside table keeps kills", placement: 11, kills: 5, wantTotal: 5},
		{name: "tenth place no kills", placement: 10, kills: 0, wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePoints(tt.placement, tt.kills)
			if got.TotalPoints != tt.wantTotal {
				t.Errorf("ComputePoints(%d, %d).TotalPoints = %d, want %d", tt.placement, tt.kills, got.TotalPoints, tt.wantTotal)
			}
			if got.TotalPoints != got.PlacementPoints+tt.kills {
				t.Errorf("total %d != placement %d + kills %d", got.TotalPoints, got.PlacementPoints, tt.kills)
			}
		})
	}
}

func TestIsBooyah(t *testing.T) {
	if !IsBooyah(1) {
		t.Error("placement 1 must be a booyah")
	}
	for _, placement := range []int{0, 2, 10, 11} {
		if IsBooyah(placement) {
			t.Errorf("placement %d must not be a booyah", placement)
		}
	}
}
