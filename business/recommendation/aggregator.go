package recommendation

import (
	"math"

	"wildNest/domain"
)

// Score aggregation is a fold: each stage reads the previous map and
// returns a new one.

func ruleContribution(matched []domain.MatchedRule) map[uint64]float64 {
	scores := make(map[uint64]float64)
	for _, m := range matched {
		for _, drinkID := range m.Rule.TargetDrinks() {
			scores[drinkID] += m.MatchScore
		}
	}
	return scores
}

// tagOverlap returns the drink tags that the user also selected.
func tagOverlap(drinkTags []string, userTags map[string]struct{}) []string {
	var common []string
	for _, tag := range drinkTags {
		if _, ok := userTags[tag]; ok {
			common = append(common, tag)
		}
	}
	return common
}

func (e *Engine) tagContribution(drinks []domain.Drink, userTags map[string]struct{}) map[uint64]float64 {
	scores := make(map[uint64]float64)
	if len(userTags) == 0 {
		return scores
	}

	for _, d := range drinks {
		if !d.IsAvailable {
			continue
		}
		drinkTags := d.TagList()
		overlap := len(tagOverlap(drinkTags, userTags))
		if overlap == 0 {
			continue
		}
		ratio := float64(overlap) / float64(max(len(drinkTags), len(userTags)))
		scores[d.ID] += ratio * e.cfg.TagWeight
	}

	return scores
}

func mergeScores(maps ...map[uint64]float64) map[uint64]float64 {
	out := make(map[uint64]float64)
	for _, m := range maps {
		for id, v := range m {
			out[id] += v
		}
	}
	return out
}

func (e *Engine) weightBonus(totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	return math.Min(totalWeight*e.cfg.WeightMultiple, e.cfg.WeightBonusCap)
}

// applyBonus adds bonus to drinks that already scored positively. Rule scores
// are never negative, so positive and nonzero select the same drinks.
func applyBonus(scores map[uint64]float64, bonus float64) map[uint64]float64 {
	out := make(map[uint64]float64, len(scores))
	for id, v := range scores {
		if v > 0 {
			v += bonus
		}
		out[id] = v
	}
	return out
}

func (e *Engine) aggregate(matched []domain.MatchedRule, sel selection, drinks []domain.Drink) map[uint64]float64 {
	scores := mergeScores(ruleContribution(matched), e.tagContribution(drinks, sel.tags))
	return applyBonus(scores, e.weightBonus(sel.totalWeight))
}
