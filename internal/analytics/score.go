package analytics

// GreenScore rates a business's total emissions against the sector
// average on a 0 to 100 scale. Emitting nothing scores 100, matching
// the sector average scores 0, and emitting double the average or more
// clamps to 0. A sector average of zero or below always scores 100.
func GreenScore(total, sectorAverage float64) float64 {
	if sectorAverage <= 0 {
		return 100
	}
	score := (1 - total/sectorAverage) * 100
	return min(100, max(0, score))
}
