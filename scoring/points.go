// Package scoring holds the placement-to-points rules for scrim matches.
package scoring

// placementPoints is the fixed Free Fire scrim table: 1st place earns 12,
// 10th earns 1. Placements outside the table earn nothing.
var placementPoints = map[int]int{
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

// PointsBreakdown is the result of scoring one team's match finish.
type PointsBreakdown struct {
	PlacementPoints int `json:"placement_points"`
	TotalPoints     int `json:"total_points"`
}

// ComputePoints maps a placement and a kill count to points. It is total:
// any placement outside 1-10 (including 0 and negatives) yields zero
// placement points rather than an error.
func ComputePoints(placement, kills int) PointsBreakdown {
	pp := placementPoints[placement]
	return PointsBreakdown{
		PlacementPoints: pp,
		TotalPoints:     pp + kills,
	}
}

// IsBooyah reports whether a placement is a first-place finish.
func IsBooyah(placement int) bool {
	return placement == 1
}
