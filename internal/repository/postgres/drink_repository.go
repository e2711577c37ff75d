package postgres

import (
	"context"
	"errors"
	"fmt"

	"wildNest/business/drink"
	"wildNest/business/recommendation"
	"wildNest/domain"

	"gorm.io/gorm"
)

type DrinkRepository struct {
	DB *gorm.DB
}

var (
	_ drink.DrinkRepository          = (*DrinkRepository)(nil)
	_ recommendation.DrinkRepository = (*DrinkRepository)(nil)
)

func NewDrinkRepository(db *gorm.DB) *DrinkRepository {
	return &DrinkRepository{
		DB: db,
	}
}

func (r *DrinkRepository) Create(ctx context.Context, drink *domain.Drink) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(drink).Error; err != nil {
		return fmt.Errorf("failed to create drink: %w", err)
	}

	return nil
}

func (r *DrinkRepository) FindByID(ctx context.Context, id uint64) (domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		return domain.Drink{}, fmt.Errorf("context error: %w", err)
	}

	var drink domain.Drink

	err := r.DB.WithContext(ctx).First(&drink, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Drink{}, domain.ErrDrinkNotFound
		}
		return domain.Drink{}, fmt.Errorf("failed to find drink: %w", err)
	}

	return drink, nil
}

// FindAll returns every drink, available or not. The recommendation
// engine filters availability itself.
func (r *DrinkRepository) FindAll(ctx context.Context) ([]domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var drinks []domain.Drink
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&drinks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find drinks: %w", err)
	}

	return drinks, nil
}

func (r *DrinkRepository) FindPage(ctx context.Context, filter domain.DrinkFilter) (domain.Page[domain.Drink], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Drink]{}, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Drink{})
	if !filter.IncludeUnavailable {
		query = query.Where("is_available = ?", true)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR english_name ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if filter.Tag != "" {
		// tags are stored normalized, without spaces around commas
		query = query.Where("(',' || tags || ',') LIKE ?", "%,"+filter.Tag+",%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return domain.Page[domain.Drink]{}, fmt.Errorf("failed to count drinks: %w", err)
	}

	var drinks []domain.Drink
	err := query.
		Order("sort_order ASC, id ASC").
		Offset(domain.Offset(filter.Page, filter.PageSize)).
		Limit(filter.PageSize).
		Find(&drinks).Error
	if err != nil {
		return domain.Page[domain.Drink]{}, fmt.Errorf("failed to find drinks: %w", err)
	}

	return domain.Page[domain.Drink]{
		Items:    drinks,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (r *DrinkRepository) FindFeatured(ctx context.Context, limit int) ([]domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var drinks []domain.Drink
	err := r.DB.WithContext(ctx).
		Where("is_available = ? AND is_featured = ?", true, true).
		Order("sort_order ASC, view_count DESC, id ASC").
		Limit(limit).
		Find(&drinks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find featured drinks: %w", err)
	}

	return drinks, nil
}

func (r *DrinkRepository) FindPopular(ctx context.Context, limit int) ([]domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var drinks []domain.Drink
	err := r.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Order("view_count DESC, id ASC").
		Limit(limit).
		Find(&drinks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular drinks: %w", err)
	}

	return drinks, nil
}

func (r *DrinkRepository) Update(ctx context.Context, drink *domain.Drink) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":            drink.Name,
		"english_name":    drink.EnglishName,
		"category_id":     drink.CategoryID,
		"price":           drink.Price,
		"alcohol_content": drink.AlcoholContent,
		"description":     drink.Description,
		"ingredients":     drink.Ingredients,
		"taste_notes":     drink.TasteNotes,
		"image_url":       drink.ImageURL,
		"tags":            drink.Tags,
		"is_featured":     drink.IsFeatured,
		"is_available":    drink.IsAvailable,
		"sort_order":      drink.SortOrder,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Drink{}).Where("id = ?", drink.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update drink: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDrinkNotFound
	}

	return nil
}

func (r *DrinkRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Drink{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete drink: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDrinkNotFound
	}

	return nil
}

func (r *DrinkRepository) IncrementViewCount(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Model(&domain.Drink{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	return nil
}

func (r *DrinkRepository) SetAvailability(ctx context.Context, id uint64, available bool) error {
	return r.setFlag(ctx, id, "is_available", available)
}

func (r *DrinkRepository) SetFeatured(ctx context.Context, id uint64, featured bool) error {
	return r.setFlag(ctx, id, "is_featured", featured)
}

func (r *DrinkRepository) setFlag(ctx context.Context, id uint64, column string, value bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Drink{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update drink %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDrinkNotFound
	}

	return nil
}
