package drink

import (
	"context"
	"fmt"
	"strings"

	"wildNest/domain"
	"wildNest/pkg/logger"
)

const (
	defaultFeaturedLimit = 6
	defaultPopularLimit  = 10
	maxListLimit         = 50
)

// DrinkRepository contract interface
type DrinkRepository interface {
	Create(ctx context.Context, drink *domain.Drink) error
	FindByID(ctx context.Context, id uint64) (domain.Drink, error)
	FindPage(ctx context.Context, filter domain.DrinkFilter) (domain.Page[domain.Drink], error)
	FindFeatured(ctx context.Context, limit int) ([]domain.Drink, error)
	FindPopular(ctx context.Context, limit int) ([]domain.Drink, error)
	Update(ctx context.Context, drink *domain.Drink) error
	Delete(ctx context.Context, id uint64) error
	IncrementViewCount(ctx context.Context, id uint64) error
	SetAvailability(ctx context.Context, id uint64, available bool) error
	SetFeatured(ctx context.Context, id uint64, featured bool) error
}

// CatalogInvalidator drops cached recommendation inputs after a write.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

type drinkService struct {
	drinkRepo DrinkRepository
	catalog   CatalogInvalidator
}

func NewDrinkService(drinkRepo DrinkRepository, catalog CatalogInvalidator) *drinkService {
	return &drinkService{
		drinkRepo: drinkRepo,
		catalog:   catalog,
	}
}

func validateDrink(d *domain.Drink) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return domain.ErrDrinkNameRequired
	}
	if d.Price < 0 {
		return domain.ErrInvalidPrice
	}
	if d.AlcoholContent < 0 || d.AlcoholContent > 100 {
		return domain.ErrInvalidAlcohol
	}
	d.Tags = domain.JoinTags(domain.SplitTags(d.Tags))
	return nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *drinkService) invalidate(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		logger.Warn("failed to invalidate catalog cache", err)
	}
}

func (s *drinkService) ListDrinks(ctx context.Context, filter domain.DrinkFilter) (domain.Page[domain.Drink], error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing drinks")
		return domain.Page[domain.Drink]{}, fmt.Errorf("context error: %w", err)
	}

	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Tag = strings.TrimSpace(filter.Tag)

	page, err := s.drinkRepo.FindPage(ctx, filter)
	if err != nil {
		logger.Error("Failed to list drinks", err)
		return domain.Page[domain.Drink]{}, err
	}

	return page, nil
}

// GetDrink returns a drink and counts the view. A failed counter update
// does not fail the read.
func (s *drinkService) GetDrink(ctx context.Context, id uint64) (*domain.Drink, error) {
	if id == 0 {
		logger.Error("invalid drink id")
		return nil, domain.ErrInvalidID
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	drink, err := s.drinkRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find drink by id", err)
		return nil, err
	}

	if err := s.drinkRepo.IncrementViewCount(ctx, id); err != nil {
		logger.Warn("failed to increment view count", "drink_id", id, "error", err)
	} else {
		drink.ViewCount++
	}

	return &drink, nil
}

func (s *drinkService) FeaturedDrinks(ctx context.Context, limit int) ([]domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	drinks, err := s.drinkRepo.FindFeatured(ctx, clampLimit(limit, defaultFeaturedLimit))
	if err != nil {
		logger.Error("Failed to find featured drinks", err)
		return nil, err
	}

	return drinks, nil
}

func (s *drinkService) PopularDrinks(ctx context.Context, limit int) ([]domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	drinks, err := s.drinkRepo.FindPopular(ctx, clampLimit(limit, defaultPopularLimit))
	if err != nil {
		logger.Error("Failed to find popular drinks", err)
		return nil, err
	}

	return drinks, nil
}

func (s *drinkService) CreateDrink(ctx context.Context, drink *domain.Drink) (*domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create drink")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateDrink(drink); err != nil {
		logger.Error("Invalid drink data", err)
		return nil, err
	}

	if err := s.drinkRepo.Create(ctx, drink); err != nil {
		logger.Error("failed to create new drink", err)
		return nil, fmt.Errorf("failed to create drink: %w", err)
	}

	s.invalidate(ctx)
	logger.Info("drink created successfully", "drink_id", drink.ID)

	return drink, nil
}

func (s *drinkService) UpdateDrink(ctx context.Context, drink *domain.Drink) (*domain.Drink, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating drink")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if drink.ID == 0 {
		return nil, domain.ErrInvalidID
	}

	if err := validateDrink(drink); err != nil {
		logger.Error("Invalid drink data", err)
		return nil, err
	}

	if err := s.drinkRepo.Update(ctx, drink); err != nil {
		logger.Error("failed to update drink", err)
		return nil, err
	}

	updated, err := s.drinkRepo.FindByID(ctx, drink.ID)
	if err != nil {
		logger.Error("failed to fetch updated drink", err)
		return nil, fmt.Errorf("failed to fetch updated drink: %w", err)
	}

	s.invalidate(ctx)
	logger.Info("drink updated success", "drink_id", drink.ID)

	return &updated, nil
}

func (s *drinkService) DeleteDrink(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.drinkRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete drink", err)
		return err
	}

	s.invalidate(ctx)
	logger.Info("drink deleted success", "drink_id", id)

	return nil
}

func (s *drinkService) SetAvailability(ctx context.Context, id uint64, available bool) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := s.drinkRepo.SetAvailability(ctx, id, available); err != nil {
		logger.Error("failed to update drink availability", err)
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *drinkService) SetFeatured(ctx context.Context, id uint64, featured bool) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := s.drinkRepo.SetFeatured(ctx, id, featured); err != nil {
		logger.Error("failed to update drink featured flag", err)
		return err
	}

	s.invalidate(ctx)
	return nil
}
