package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	QueryTimeout    = 30 * time.Second

	maxTotalMinutes = 1440
)

var (
	ErrDishNotFound  = errors.New("dish not found")
	ErrNotDishOwner  = errors.New("dish does not belong to this user")
	ErrInvalidFilter = errors.New("invalid filter parameters")
	ErrDatabaseQuery = errors.New("database query failed")
)

var (
	minBasePrice = decimal.NewFromInt(100)
	maxBasePrice = decimal.NewFromInt(1_000_000)
)

type DishService struct {
	db *gorm.DB
}

func NewDishService(db *gorm.DB) *DishService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &DishService{db: db}
}

type DishRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"required,max=2000"`
	Category    string          `json:"category" binding:"required"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
	Available   bool            `json:"available"`
	StructureID *uint           `json:"structure_id,omitempty"`

	PreparationMinutes int    `json:"preparation_minutes" binding:"required,min=1"`
	CookingMinutes     int    `json:"cooking_minutes" binding:"min=0"`
	Ingredients        string `json:"ingredients"`
	Allergens          string `json:"allergens"`
	Calories           *int   `json:"calories,omitempty"`
	Portion            string `json:"portion"`
	Difficulty         string `json:"difficulty" binding:"required"`

	Promotion PromotionInput `json:"promotion"`
}

type DishFilter struct {
	Category      string  `form:"category"`
	Search        string  `form:"search"`
	MinPrice      float64 `form:"min_price"`
	MaxPrice      float64 `form:"max_price"`
	AvailableOnly bool    `form:"available_only"`
	PromotedOnly  bool    `form:"promoted_only"`
	Page          int     `form:"page"`
	Limit         int     `form:"limit"`
}

type DishListResponse struct {
	Dishes []models.Dish `json:"dishes"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
	Pages  int           `json:"pages"`
}

// ValidateAndNormalize validates and normalizes filter parameters
func (f *DishFilter) ValidateAndNormalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return fmt.Errorf("%w: prices cannot be negative", ErrInvalidFilter)
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return fmt.Errorf("%w: min_price cannot be greater than max_price", ErrInvalidFilter)
	}

	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	if f.Category != "" && !models.IsValidDishCategory(f.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, f.Category)
	}
	return nil
}

func (s *DishService) validateRequest(req *DishRequest) error {
	if !models.IsValidDishCategory(req.Category) {
		return fieldError("category", "unknown dish category")
	}
	if !models.IsValidDishDifficulty(req.Difficulty) {
		return fieldError("difficulty", "unknown difficulty level")
	}
	if req.BasePrice.LessThan(minBasePrice) {
		return fieldError("base_price", "minimum price is 100")
	}
	if req.BasePrice.GreaterThan(maxBasePrice) {
		return fieldError("base_price", "maximum price is 1000000")
	}
	if req.PreparationMinutes+req.CookingMinutes > maxTotalMinutes {
		return formError("preparation plus cooking time cannot exceed 24 hours")
	}
	return nil
}

// resolveStructure checks that the dish's structure, when given, is owned
// by the dish's creator. The mismatch is reported at this boundary instead
// of being left to the foreign-key layer.
func (s *DishService) resolveStructure(ctx context.Context, creatorID uint, structureID *uint) error {
	if structureID == nil {
		return nil
	}
	var structure models.Structure
	if err := s.db.WithContext(ctx).First(&structure, *structureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fieldError("structure_id", "structure not found")
		}
		return fmt.Errorf("%w: failed to fetch structure: %v", ErrDatabaseQuery, err)
	}
	if structure.UserID != creatorID {
		return fieldError("structure_id", "structure does not belong to the dish creator")
	}
	return nil
}

func (s *DishService) CreateDish(ctx context.Context, creatorID uint, req DishRequest) (*models.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}
	if err := s.resolveStructure(ctx, creatorID, req.StructureID); err != nil {
		return nil, err
	}

	dish := models.Dish{
		Name:               strings.TrimSpace(req.Name),
		Description:        strings.TrimSpace(req.Description),
		Category:           req.Category,
		BasePrice:          req.BasePrice,
		Available:          req.Available,
		CreatorID:          creatorID,
		StructureID:        req.StructureID,
		PreparationMinutes: req.PreparationMinutes,
		CookingMinutes:     req.CookingMinutes,
		Ingredients:        req.Ingredients,
		Allergens:          req.Allergens,
		Calories:           req.Calories,
		Portion:            req.Portion,
		Difficulty:         req.Difficulty,
	}
	if err := ApplyPromotion(&dish, req.Promotion, time.Now()); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&dish).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create dish: %v", ErrDatabaseQuery, err)
	}
	return &dish, nil
}

// UpdateDish revalidates the whole submission, promotion included, and
// persists it as a single update so the promotion fields can never be half
// written.
func (s *DishService) UpdateDish(ctx context.Context, dishID, userID uint, req DishRequest) (*models.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	dish, err := s.ownedDish(ctx, dishID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}
	if err := s.resolveStructure(ctx, userID, req.StructureID); err != nil {
		return nil, err
	}

	dish.Name = strings.TrimSpace(req.Name)
	dish.Description = strings.TrimSpace(req.Description)
	dish.Category = req.Category
	dish.BasePrice = req.BasePrice
	dish.Available = req.Available
	dish.StructureID = req.StructureID
	dish.PreparationMinutes = req.PreparationMinutes
	dish.CookingMinutes = req.CookingMinutes
	dish.Ingredients = req.Ingredients
	dish.Allergens = req.Allergens
	dish.Calories = req.Calories
	dish.Portion = req.Portion
	dish.Difficulty = req.Difficulty
	if err := ApplyPromotion(dish, req.Promotion, time.Now()); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(dish).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update dish: %v", ErrDatabaseQuery, err)
	}
	return dish, nil
}

func (s *DishService) DeleteDish(ctx context.Context, dishID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	dish, err := s.ownedDish(ctx, dishID, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Reviews").Delete(dish).Error; err != nil {
		return fmt.Errorf("%w: failed to delete dish: %v", ErrDatabaseQuery, err)
	}
	return nil
}

// GetDish retrieves a single dish by ID (public access).
func (s *DishService) GetDish(ctx context.Context, id uint) (*models.Dish, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid dish ID", ErrInvalidFilter)
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch dish: %v", ErrDatabaseQuery, err)
	}
	return &dish, nil
}

// QuoteDish returns the current promotion state of a dish for display.
func (s *DishService) QuoteDish(ctx context.Context, id uint) (*PromotionQuote, error) {
	dish, err := s.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	quote := QuoteDish(dish, time.Now())
	return &quote, nil
}

// GetDishes retrieves dishes with filtering and pagination (public access).
func (s *DishService) GetDishes(ctx context.Context, filter DishFilter) (*DishListResponse, error) {
	if err := filter.ValidateAndNormalize(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var dishes []models.Dish
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Dish{})
	query = s.applyFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count dishes: %v", ErrDatabaseQuery, err)
	}
	if total == 0 {
		return &DishListResponse{Dishes: []models.Dish{}, Page: filter.Page, Limit: filter.Limit}, nil
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Offset(offset).
		Limit(filter.Limit).
		Order("name ASC").
		Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch dishes: %v", ErrDatabaseQuery, err)
	}

	pages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		pages++
	}

	return &DishListResponse{
		Dishes: dishes,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
		Pages:  pages,
	}, nil
}

// GetDishesByCreator lists a user's own dishes, promotion fields included.
func (s *DishService) GetDishesByCreator(ctx context.Context, creatorID uint) ([]models.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var dishes []models.Dish
	if err := s.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("name ASC").
		Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch dishes: %v", ErrDatabaseQuery, err)
	}
	return dishes, nil
}

func (s *DishService) GetCategories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.Dish{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch categories: %v", ErrDatabaseQuery, err)
	}
	return categories, nil
}

// SetPhoto stores the new photo reference and returns the key of the photo
// it replaced, so the caller can clean up the old object.
func (s *DishService) SetPhoto(ctx context.Context, dishID, userID uint, url, key string) (string, error) {
	dish, err := s.ownedDish(ctx, dishID, userID)
	if err != nil {
		return "", err
	}
	oldKey := dish.PhotoKey
	if err := s.db.WithContext(ctx).Model(dish).
		Updates(map[string]interface{}{"photo_url": url, "photo_key": key}).Error; err != nil {
		return "", fmt.Errorf("%w: failed to store photo reference: %v", ErrDatabaseQuery, err)
	}
	return oldKey, nil
}

func (s *DishService) ownedDish(ctx context.Context, dishID, userID uint) (*models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch dish: %v", ErrDatabaseQuery, err)
	}
	if dish.CreatorID != userID {
		return nil, ErrNotDishOwner
	}
	return &dish, nil
}

func (s *DishService) applyFilters(query *gorm.DB, filter DishFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}
	if filter.PromotedOnly {
		query = query.Where("promotion_enabled = ?", true)
	}
	if filter.MinPrice > 0 {
		query = query.Where("base_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("base_price <= ?", filter.MaxPrice)
	}
	if filter.Search != "" {
		searchTerm := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}
	return query
}
