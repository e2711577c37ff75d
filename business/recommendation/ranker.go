package recommendation

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"wildNest/domain"
)

type candidate struct {
	drinkID uint64
	score   float64
}

// rankCandidates orders positive scores descending, ties by drink id, and
// keeps the top limit entries.
func rankCandidates(scores map[uint64]float64, limit int) []candidate {
	ranked := make([]candidate, 0, len(scores))
	for id, s := range scores {
		if s > 0 {
			ranked = append(ranked, candidate{drinkID: id, score: s})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].drinkID < ranked[j].drinkID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (e *Engine) rank(scores map[uint64]float64, drinks []domain.Drink, matched []domain.MatchedRule, userTags map[string]struct{}) []domain.RecommendedDrink {
	byID := make(map[uint64]domain.Drink, len(drinks))
	for _, d := range drinks {
		byID[d.ID] = d
	}

	var out []domain.RecommendedDrink
	for _, c := range rankCandidates(scores, e.cfg.MaxResults) {
		d, ok := byID[c.drinkID]
		if !ok || !d.IsAvailable {
			continue
		}

		tags := sortedOverlap(d, userTags)
		out = append(out, domain.RecommendedDrink{
			Drink:       d,
			MatchScore:  roundHalfUp(math.Min(c.score, e.cfg.ScoreCeiling), e.cfg.RoundingPlaces),
			Reason:      e.reasonFor(d, matched, tags),
			MatchedTags: tags,
		})
	}

	return out
}

// fallback returns featured drinks by popularity when nothing ranked.
func (e *Engine) fallback(drinks []domain.Drink) []domain.RecommendedDrink {
	var featured []domain.Drink
	for _, d := range drinks {
		if d.IsAvailable && d.IsFeatured {
			featured = append(featured, d)
		}
	}

	sort.Slice(featured, func(i, j int) bool {
		if featured[i].ViewCount != featured[j].ViewCount {
			return featured[i].ViewCount > featured[j].ViewCount
		}
		return featured[i].ID < featured[j].ID
	})

	if len(featured) > e.cfg.FallbackLimit {
		featured = featured[:e.cfg.FallbackLimit]
	}

	out := make([]domain.RecommendedDrink, 0, len(featured))
	for _, d := range featured {
		out = append(out, domain.RecommendedDrink{
			Drink:       d,
			MatchScore:  e.cfg.FallbackScore,
			Reason:      fallbackReason,
			MatchedTags: []string{},
		})
	}
	return out
}

// roundHalfUp rounds on the shortest decimal form of v, so 0.15 becomes
// 0.2 rather than following its binary approximation down.
func roundHalfUp(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= places {
		return v
	}

	cut := dot + 1 + places
	truncated, err := strconv.ParseFloat(strings.TrimSuffix(s[:cut], "."), 64)
	if err != nil {
		return v
	}

	if s[cut] >= '5' {
		step := math.Pow10(-places)
		if v < 0 {
			truncated -= step
		} else {
			truncated += step
		}
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(truncated, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
