package recommendation

import (
	"fmt"
	"sort"
	"strings"

	"wildNest/domain"
)

const fallbackReason = "Popular recommendation, well liked by our customers."

func sortedOverlap(d domain.Drink, userTags map[string]struct{}) []string {
	tags := tagOverlap(d.TagList(), userTags)
	if tags == nil {
		return []string{}
	}
	sort.Strings(tags)
	return tags
}

// reasonFor prefers the reason of the best matched rule targeting the
// drink, then the shared tags, then a generic line.
func (e *Engine) reasonFor(d domain.Drink, matched []domain.MatchedRule, matchedTags []string) string {
	for _, m := range matched {
		if strings.TrimSpace(m.Rule.RecommendationReason) == "" {
			continue
		}
		for _, id := range m.Rule.TargetDrinks() {
			if id == d.ID {
				return m.Rule.RecommendationReason
			}
		}
	}

	if len(matchedTags) > 0 {
		shown := matchedTags
		if len(shown) > e.cfg.ReasonTagLimit {
			shown = shown[:e.cfg.ReasonTagLimit]
		}
		return fmt.Sprintf("Based on your preference (%s), this %s suits you well.", strings.Join(shown, ", "), d.Name)
	}

	return fmt.Sprintf("This %s is our popular recommendation, you're likely to enjoy it.", d.Name)
}
