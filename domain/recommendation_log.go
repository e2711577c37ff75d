package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.recommendation_logs (
//     id                  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     session_id          TEXT NOT NULL,
//     user_answers        JSONB,
//     recommended_drinks  JSONB,
//     matched_rules       JSONB,
//     algorithm_version   TEXT,
//     strategy            TEXT,
//     total_score         NUMERIC(5,2),
//     execution_time_ms   BIGINT,
//     user_ip             TEXT,
//     user_agent          TEXT,
//     device_info         JSONB,
//     user_feedback       SMALLINT,
//     feedback_reason     TEXT,
//     is_test_data        BOOLEAN DEFAULT FALSE,
//     created_at          TIMESTAMPTZ DEFAULT NOW()
// );

const (
	FeedbackUnsatisfied = 0
	FeedbackSatisfied   = 1
)

type RecommendationLog struct {
	ID                uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID         string            `gorm:"column:session_id;type:text;not null;index" json:"session_id"`
	UserAnswers       datatypes.JSON    `gorm:"column:user_answers;type:jsonb" json:"user_answers"`
	RecommendedDrinks datatypes.JSON    `gorm:"column:recommended_drinks;type:jsonb" json:"recommended_drinks"`
	MatchedRules      datatypes.JSON    `gorm:"column:matched_rules;type:jsonb" json:"matched_rules"`
	AlgorithmVersion  string            `gorm:"column:algorithm_version;type:text" json:"algorithm_version"`
	Strategy          string            `gorm:"column:strategy;type:text" json:"strategy"`
	TotalScore        float64           `gorm:"column:total_score;type:numeric(5,2)" json:"total_score"`
	ExecutionTimeMs   int64             `gorm:"column:execution_time_ms" json:"execution_time_ms"`
	UserIP            string            `gorm:"column:user_ip;type:text" json:"user_ip"`
	UserAgent         string            `gorm:"column:user_agent;type:text" json:"user_agent"`
	DeviceInfo        datatypes.JSONMap `gorm:"column:device_info;type:jsonb" json:"device_info"`
	UserFeedback      *int              `gorm:"column:user_feedback" json:"user_feedback"`
	FeedbackReason    string            `gorm:"column:feedback_reason;type:text" json:"feedback_reason"`
	IsTestData        bool              `gorm:"column:is_test_data;default:false" json:"is_test_data"`
	CreatedAt         time.Time         `gorm:"column:created_at;index" json:"created_at"`
}

func (RecommendationLog) TableName() string {
	return "recommendation_logs"
}

type RecommendationLogFilter struct {
	SessionID        string
	AlgorithmVersion string
	UserFeedback     *int
	IsTestData       *bool
	Page             int
	PageSize         int
}

type RecommendationStatistics struct {
	TotalRecommendations   int64   `json:"total_recommendations"`
	TodayRecommendations   int64   `json:"today_recommendations"`
	SatisfiedCount         int64   `json:"satisfied_count"`
	UnsatisfiedCount       int64   `json:"unsatisfied_count"`
	SatisfactionRate       float64 `json:"satisfaction_rate"`
	AverageScore           float64 `json:"average_score"`
	AverageExecutionTimeMs float64 `json:"average_execution_time_ms"`
	UniqueUsers            int64   `json:"unique_users"`
}

type DailyRecommendationStat struct {
	Date             string  `json:"date"`
	Recommendations  int64   `json:"recommendations"`
	SatisfiedCount   int64   `json:"satisfied_count"`
	UnsatisfiedCount int64   `json:"unsatisfied_count"`
	AverageScore     float64 `json:"average_score"`
}
