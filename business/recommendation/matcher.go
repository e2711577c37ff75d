package recommendation

import (
	"math"
	"sort"

	"wildNest/domain"
	"wildNest/pkg/logger"
)

// matchRules evaluates every active rule against the selected option ids
// and returns the matches ordered by final score, highest first.
func (e *Engine) matchRules(selected []uint64, rules []domain.RecommendationRule) []domain.MatchedRule {
	var matched []domain.MatchedRule

	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}

		combination, err := rule.OptionIDs()
		if err != nil {
			logger.Warn("skipping rule with malformed option combination", "rule_id", rule.ID, "error", err)
			continue
		}
		if len(combination) == 0 {
			continue
		}

		m, ok := e.evaluateRule(rule, combination, selected)
		if ok {
			matched = append(matched, m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})

	return matched
}

func (e *Engine) evaluateRule(rule domain.RecommendationRule, combination, selected []uint64) (domain.MatchedRule, bool) {
	members := make(map[uint64]struct{}, len(combination))
	for _, id := range combination {
		members[id] = struct{}{}
	}

	var hits []uint64
	for _, id := range selected {
		if _, ok := members[id]; ok {
			hits = append(hits, id)
		}
	}

	matchedCount := len(hits)
	totalRuleOptions := len(combination)

	var (
		isMatch    bool
		percentage float64
	)

	switch rule.ConditionType {
	case domain.ConditionExact:
		isMatch = matchedCount == totalRuleOptions && matchedCount == len(selected)
		percentage = 100
	case domain.ConditionPartial:
		isMatch = matchedCount >= rule.MinMatch()
		percentage = float64(matchedCount) / float64(totalRuleOptions) * 100
	case domain.ConditionFuzzy:
		isMatch = matchedCount > 0
		percentage = float64(matchedCount) / float64(max(totalRuleOptions, len(selected))) * 100
	default:
		logger.Warn("unknown rule condition type", "rule_id", rule.ID, "condition_type", rule.ConditionType)
		return domain.MatchedRule{}, false
	}

	if !isMatch {
		return domain.MatchedRule{}, false
	}

	// rows written before priority was bounded may still carry large negatives
	priorityMultiplier := 1 + float64(rule.PriorityLevel)*e.cfg.PriorityStep
	if priorityMultiplier <= 0 {
		logger.Warn("rule skipped, non-positive priority multiplier", "rule_id", rule.ID, "priority_level", rule.PriorityLevel)
		return domain.MatchedRule{}, false
	}
	finalScore := percentage * (rule.Score() / 100) * priorityMultiplier
	if math.IsNaN(finalScore) || math.IsInf(finalScore, 0) {
		return domain.MatchedRule{}, false
	}

	return domain.MatchedRule{
		Rule:               rule,
		MatchScore:         finalScore,
		MatchedOptionCount: matchedCount,
		MatchedOptionIDs:   hits,
	}, true
}
