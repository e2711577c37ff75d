package domain

import (
	"time"
)

// CREATE TABLE public.drinks (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name             TEXT NOT NULL,
//     english_name     TEXT,
//     category_id      BIGINT DEFAULT 0,
//     price            NUMERIC,
//     alcohol_content  NUMERIC,
//     description      TEXT,
//     ingredients      TEXT,
//     taste_notes      TEXT,
//     image_url        TEXT,
//     tags             TEXT,
//     is_featured      BOOLEAN,
//     is_available     BOOLEAN,
//     view_count       INT DEFAULT 0,
//     sort_order       INT DEFAULT 0,
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     updated_at       TIMESTAMPTZ DEFAULT NOW()
// );

type Drink struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;type:text;not null" json:"name"`
	EnglishName    string    `gorm:"column:english_name;type:text" json:"english_name"`
	CategoryID     uint64    `gorm:"column:category_id;default:0;index" json:"category_id"`
	Price          float64   `gorm:"column:price;type:numeric" json:"price"`
	AlcoholContent float64   `gorm:"column:alcohol_content;type:numeric" json:"alcohol_content"`
	Description    string    `gorm:"column:description;type:text" json:"description"`
	Ingredients    string    `gorm:"column:ingredients;type:text" json:"ingredients"`
	TasteNotes     string    `gorm:"column:taste_notes;type:text" json:"taste_notes"`
	ImageURL       string    `gorm:"column:image_url;type:text" json:"image_url"`
	Tags           string    `gorm:"column:tags;type:text" json:"tags"`
	IsFeatured     bool      `gorm:"column:is_featured" json:"is_featured"`
	IsAvailable    bool      `gorm:"column:is_available" json:"is_available"`
	ViewCount      int       `gorm:"column:view_count;default:0" json:"view_count"`
	SortOrder      int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Drink) TableName() string {
	return "drinks"
}

// TagList returns the drink's tags as a set, in first-seen order.
func (d Drink) TagList() []string {
	return SplitTags(d.Tags)
}

type DrinkFilter struct {
	CategoryID         uint64
	Keyword            string
	Tag                string
	IncludeUnavailable bool
	Page               int
	PageSize           int
}
