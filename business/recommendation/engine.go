package recommendation

import (
	"fmt"
	"time"

	"wildNest/domain"
	"wildNest/pkg/logger"
)

// Engine turns quiz answers into a ranked drink list. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg == (Config{}) {
		return &Engine{cfg: def}
	}
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = def.FallbackLimit
	}
	if cfg.ReasonTagLimit <= 0 {
		cfg.ReasonTagLimit = def.ReasonTagLimit
	}
	if cfg.ScoreCeiling <= 0 {
		cfg.ScoreCeiling = def.ScoreCeiling
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Version() string {
	return e.cfg.Version
}

// Recommend never fails. A panic anywhere in the pipeline yields an
// empty result that still reports the elapsed time.
func (e *Engine) Recommend(answers domain.UserAnswers, options []domain.Option, rules []domain.RecommendationRule, drinks []domain.Drink) (result domain.RecommendationResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("recommendation pipeline failed", "panic", fmt.Sprint(r))
			result = domain.RecommendationResult{
				RecommendedDrinks: []domain.RecommendedDrink{},
				MatchedRules:      []domain.MatchedRule{},
				AlgorithmVersion:  e.cfg.Version,
			}
		}
		result.ExecutionTimeMs = time.Since(start).Milliseconds()
	}()

	sel := extractSelection(answers, options)
	matched := e.matchRules(sel.optionIDs, rules)
	scores := e.aggregate(matched, sel, drinks)

	strategy := domain.StrategyRanked
	recommended := e.rank(scores, drinks, matched, sel.tags)
	if len(recommended) == 0 {
		strategy = domain.StrategyFallback
		recommended = e.fallback(drinks)
	}

	if matched == nil {
		matched = []domain.MatchedRule{}
	}
	if recommended == nil {
		recommended = []domain.RecommendedDrink{}
	}

	logger.Debug("recommendation computed",
		"selected_options", len(sel.optionIDs),
		"user_tags", len(sel.tags),
		"total_weight", sel.totalWeight,
		"matched_rules", len(matched),
		"candidates", len(scores),
		"strategy", strategy,
	)

	return domain.RecommendationResult{
		RecommendedDrinks: recommended,
		MatchedRules:      matched,
		TotalScore:        averageScore(recommended),
		AlgorithmVersion:  e.cfg.Version,
		Strategy:          strategy,
	}
}

func averageScore(drinks []domain.RecommendedDrink) float64 {
	if len(drinks) == 0 {
		return 0
	}
	var sum float64
	for _, d := range drinks {
		sum += d.MatchScore
	}
	return sum / float64(len(drinks))
}
