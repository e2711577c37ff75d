package domain

// UserAnswers maps a question id to the option ids picked for it.
type UserAnswers map[uint64][]uint64

const (
	StrategyRanked   = "ranked"
	StrategyFallback = "fallback"
)

type MatchedRule struct {
	Rule               RecommendationRule `json:"rule"`
	MatchScore         float64            `json:"match_score"`
	MatchedOptionCount int                `json:"matched_option_count"`
	MatchedOptionIDs   []uint64           `json:"matched_option_ids"`
}

type RecommendedDrink struct {
	Drink       Drink    `json:"drink"`
	MatchScore  float64  `json:"match_score"`
	Reason      string   `json:"reason"`
	MatchedTags []string `json:"matched_tags"`
}

type RecommendationResult struct {
	RecommendedDrinks []RecommendedDrink `json:"recommended_drinks"`
	MatchedRules      []MatchedRule      `json:"matched_rules"`
	TotalScore        float64            `json:"total_score"`
	ExecutionTimeMs   int64              `json:"execution_time_ms"`
	AlgorithmVersion  string             `json:"algorithm_version"`
	Strategy          string             `json:"strategy"`
}

// CatalogSnapshot is everything the engine reads for one request.
type CatalogSnapshot struct {
	Options []Option             `json:"options"`
	Rules   []RecommendationRule `json:"rules"`
	Drinks  []Drink              `json:"drinks"`
}
