package domain

import (
	"time"
)

// CREATE TABLE public.drink_categories (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name         TEXT NOT NULL,
//     description  TEXT,
//     parent_id    BIGINT DEFAULT 0,
//     sort_order   INT DEFAULT 0,
//     icon_url     TEXT,
//     status       SMALLINT DEFAULT 1,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

const (
	CategoryDisabled = 0
	CategoryEnabled  = 1
)

type Category struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	ParentID    uint64    `gorm:"column:parent_id;default:0" json:"parent_id"`
	SortOrder   int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	IconURL     string    `gorm:"column:icon_url;type:text" json:"icon_url"`
	Status      int       `gorm:"column:status" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "drink_categories"
}
