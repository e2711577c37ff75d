package domain

import (
	"time"
)

// CREATE TABLE public.questions (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     title          TEXT NOT NULL,
//     description    TEXT,
//     question_type  TEXT DEFAULT 'single',
//     sort_order     INT DEFAULT 0,
//     is_active      BOOLEAN,
//     created_at     TIMESTAMPTZ DEFAULT NOW(),
//     updated_at     TIMESTAMPTZ DEFAULT NOW()
// );
//
// CREATE TABLE public.options (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     question_id   BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
//     content       TEXT NOT NULL,
//     weight_value  NUMERIC(4,2),
//     tag_keywords  TEXT,
//     sort_order    INT DEFAULT 0,
//     is_active     BOOLEAN,
//     created_at    TIMESTAMPTZ DEFAULT NOW(),
//     updated_at    TIMESTAMPTZ DEFAULT NOW()
// );

const (
	QuestionTypeSingle   = "single"
	QuestionTypeMultiple = "multiple"
)

// DefaultOptionWeight applies to options without an explicit weight.
const DefaultOptionWeight = 1.0

type Question struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"column:title;type:text;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	QuestionType string    `gorm:"column:question_type;type:text;default:single" json:"question_type"`
	SortOrder    int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	IsActive     bool      `gorm:"column:is_active" json:"is_active"`
	Options      []Option  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

type Option struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID  uint64    `gorm:"column:question_id;not null;index" json:"question_id"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	WeightValue *float64  `gorm:"column:weight_value;type:numeric(4,2)" json:"weight_value"`
	TagKeywords string    `gorm:"column:tag_keywords;type:text" json:"tag_keywords"`
	SortOrder   int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Option) TableName() string {
	return "options"
}

func (o Option) Weight() float64 {
	if o.WeightValue == nil {
		return DefaultOptionWeight
	}
	return *o.WeightValue
}

func (o Option) Tags() []string {
	return SplitTags(o.TagKeywords)
}
