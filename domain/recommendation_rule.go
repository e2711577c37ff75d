package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.recommendation_rules (
//     id                     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     rule_name              TEXT NOT NULL UNIQUE,
//     rule_description       TEXT,
//     option_combination     JSONB NOT NULL,
//     target_drink_ids       TEXT NOT NULL,
//     match_score            NUMERIC(5,2),
//     recommendation_reason  TEXT,
//     condition_type         TEXT DEFAULT 'exact',
//     min_match_count        INT DEFAULT 1,
//     is_active              BOOLEAN,
//     priority_level         INT DEFAULT 0,
//     created_at             TIMESTAMPTZ DEFAULT NOW(),
//     updated_at             TIMESTAMPTZ DEFAULT NOW()
// );

const (
	ConditionExact   = "exact"
	ConditionPartial = "partial"
	ConditionFuzzy   = "fuzzy"
)

type RecommendationRule struct {
	ID                   uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	RuleName             string         `gorm:"column:rule_name;type:text;not null;uniqueIndex" json:"rule_name"`
	RuleDescription      string         `gorm:"column:rule_description;type:text" json:"rule_description"`
	OptionCombination    datatypes.JSON `gorm:"column:option_combination;type:jsonb" json:"option_combination"`
	TargetDrinkIDs       string         `gorm:"column:target_drink_ids;type:text" json:"target_drink_ids"`
	MatchScore           *float64       `gorm:"column:match_score;type:numeric(5,2)" json:"match_score"`
	RecommendationReason string         `gorm:"column:recommendation_reason;type:text" json:"recommendation_reason"`
	ConditionType        string         `gorm:"column:condition_type;type:text;default:exact" json:"condition_type"`
	MinMatchCount        *int           `gorm:"column:min_match_count" json:"min_match_count"`
	IsActive             bool           `gorm:"column:is_active" json:"is_active"`
	PriorityLevel        int            `gorm:"column:priority_level;default:0" json:"priority_level"`
	CreatedAt            time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (RecommendationRule) TableName() string {
	return "recommendation_rules"
}

// OptionIDs decodes the option combination, a JSON array of option ids.
func (r RecommendationRule) OptionIDs() ([]uint64, error) {
	if len(r.OptionCombination) == 0 {
		return nil, nil
	}

	var ids []uint64
	if err := json.Unmarshal(r.OptionCombination, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}

// TargetDrinks parses the comma-separated target list. A malformed entry
// invalidates the whole list.
func (r RecommendationRule) TargetDrinks() []uint64 {
	raw := strings.TrimSpace(r.TargetDrinkIDs)
	if raw == "" {
		return nil
	}

	var ids []uint64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil
		}
		ids = append(ids, id)
	}

	return ids
}

func (r RecommendationRule) Score() float64 {
	if r.MatchScore == nil {
		return 0
	}
	return *r.MatchScore
}

// MinMatch is the partial-match threshold; unset or non-positive means 1.
func (r RecommendationRule) MinMatch() int {
	if r.MinMatchCount == nil || *r.MinMatchCount < 1 {
		return 1
	}
	return *r.MinMatchCount
}

type RuleFilter struct {
	ConditionType string
	IsActive      *bool
	Page          int
	PageSize      int
}
