package emissions

// recommendations maps a source category to the advisory surfaced in
// insights and reports.
var recommendations = map[string]string{
	CategoryElectricity: "Consider installing solar panels to reduce reliance on the grid.",
	CategoryTransport:   "Optimize delivery routes and consider using more fuel-efficient vehicles.",
	CategoryWaste:       "Implement a recycling program and compost organic waste.",
}

const defaultRecommendation = "Review your energy consumption and identify areas for reduction."

// RecommendationFor returns the advisory for a source category. Unknown
// categories fall back to the generic message.
func RecommendationFor(sourceCategory string) string {
	if rec, ok := recommendations[sourceCategory]; ok {
		return rec
	}
	return defaultRecommendation
}
