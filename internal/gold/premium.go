package gold

import "sort"

// PremiumPoint is the computed premium for one bar in one run. Premium and
// Price are only meaningful when Available is true; unavailable bars stay in
// the output so history columns keep their position.
type PremiumPoint struct {
	Label     string
	Grams     float64
	Price     float64
	Premium   float64 // percent over spot value of the gold content
	Available bool
}

// ComputePremiums derives the premium of each bar over its gold content.
// premium = ((price / grams) / spotPerGram - 1) * 100
func ComputePremiums(bars []Bar, prices map[string]float64, spotPerGram float64) []PremiumPoint {
	points := make([]PremiumPoint, 0, len(bars))
	for _, bar := range bars {
		p := PremiumPoint{Label: bar.Label, Grams: bar.Grams}
		if price, ok := prices[bar.Label]; ok && spotPerGram > 0 {
			p.Price = price
			p.Premium = (price/bar.Grams/spotPerGram - 1) * 100
			p.Available = true
		}
		points = append(points, p)
	}
	return points
}

// LowestPremiums returns up to n available points sorted by ascending
// premium, for flagging the best buys of the run.
func LowestPremiums(points []PremiumPoint, n int) []PremiumPoint {
	available := make([]PremiumPoint, 0, len(points))
	for _, p := range points {
		if p.Available {
			available = append(available, p)
		}
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].Premium < available[j].Premium
	})
	if len(available) > n {
		available = available[:n]
	}
	return available
}
