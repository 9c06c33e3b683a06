package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emenu-app/emenu-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrStructureNotFound = errors.New("structure not found")
	ErrNotStructureOwner = errors.New("structure does not belong to this user")
	ErrStructureExists   = errors.New("user already owns a structure")
)

type StructureService struct {
	db *gorm.DB
}

func NewStructureService(db *gorm.DB) *StructureService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &StructureService{db: db}
}

type StructureRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Address     string `json:"address" binding:"required,max=255"`
	City        string `json:"city" binding:"required,max=100"`
	OpeningHour string `json:"opening_hour"`
	ClosingHour string `json:"closing_hour"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`
}

type StructureFilter struct {
	City   string `form:"city"`
	Type   string `form:"type"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type StructureListResponse struct {
	Structures []models.Structure `json:"structures"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

// RegisterStructure creates the user's structure. Each user owns at most
// one; the unique index on user_id backs up this check.
func (s *StructureService) RegisterStructure(ctx context.Context, userID uint, req StructureRequest) (*models.Structure, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if !models.IsValidStructureType(req.Type) {
		return nil, fieldError("type", "unknown structure type")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Structure{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to check existing structure: %v", ErrDatabaseQuery, err)
	}
	if count > 0 {
		return nil, ErrStructureExists
	}

	structure := models.Structure{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        strings.TrimSpace(req.City),
		OpeningHour: req.OpeningHour,
		ClosingHour: req.ClosingHour,
		Description: req.Description,
		Type:        req.Type,
	}
	if err := s.db.WithContext(ctx).Create(&structure).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create structure: %v", ErrDatabaseQuery, err)
	}
	return &structure, nil
}

func (s *StructureService) UpdateStructure(ctx context.Context, structureID, userID uint, req StructureRequest) (*models.Structure, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	structure, err := s.ownedStructure(ctx, structureID, userID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidStructureType(req.Type) {
		return nil, fieldError("type", "unknown structure type")
	}

	structure.Name = strings.TrimSpace(req.Name)
	structure.PhoneNumber = req.PhoneNumber
	structure.Address = req.Address
	structure.City = strings.TrimSpace(req.City)
	structure.OpeningHour = req.OpeningHour
	structure.ClosingHour = req.ClosingHour
	structure.Description = req.Description
	structure.Type = req.Type

	if err := s.db.WithContext(ctx).Save(structure).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update structure: %v", ErrDatabaseQuery, err)
	}
	return structure, nil
}

func (s *StructureService) DeleteStructure(ctx context.Context, structureID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	structure, err := s.ownedStructure(ctx, structureID, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Menus", "Reviews").Delete(structure).Error; err != nil {
		return fmt.Errorf("%w: failed to delete structure: %v", ErrDatabaseQuery, err)
	}
	return nil
}

// GetStructure retrieves a structure with its menus and dishes (public
// detail page).
func (s *StructureService) GetStructure(ctx context.Context, id uint) (*models.Structure, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var structure models.Structure
	if err := s.db.WithContext(ctx).
		Preload("Menus.Dishes").
		First(&structure, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStructureNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch structure: %v", ErrDatabaseQuery, err)
	}
	return &structure, nil
}

func (s *StructureService) GetUserStructure(ctx context.Context, userID uint) (*models.Structure, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var structure models.Structure
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&structure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStructureNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch structure: %v", ErrDatabaseQuery, err)
	}
	return &structure, nil
}

// GetStructures lists structures with city/type filters, featured ones
// first.
func (s *StructureService) GetStructures(ctx context.Context, filter StructureFilter) (*StructureListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > MaxPageSize {
		filter.Limit = DefaultPageSize
	}
	if filter.Type != "" && !models.IsValidStructureType(filter.Type) {
		return nil, fmt.Errorf("%w: unknown structure type %q", ErrInvalidFilter, filter.Type)
	}

	query := s.db.WithContext(ctx).Model(&models.Structure{})
	if filter.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(filter.City)))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count structures: %v", ErrDatabaseQuery, err)
	}

	var structures []models.Structure
	if err := query.
		Order("featured DESC, created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&structures).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch structures: %v", ErrDatabaseQuery, err)
	}

	return &StructureListResponse{
		Structures: structures,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetCities returns the distinct cities structures exist in, for the filter
// dropdown.
func (s *StructureService) GetCities(ctx context.Context) ([]string, error) {
	cities := make([]string, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.Structure{}).
		Distinct("city").
		Where("city <> ''").
		Order("city").
		Pluck("city", &cities).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch cities: %v", ErrDatabaseQuery, err)
	}
	return cities, nil
}

// SetPhoto stores the new photo reference and returns the key of the photo
// it replaced, so the caller can clean up the old object.
func (s *StructureService) SetPhoto(ctx context.Context, structureID, userID uint, url, key string) (string, error) {
	structure, err := s.ownedStructure(ctx, structureID, userID)
	if err != nil {
		return "", err
	}
	oldKey := structure.PhotoKey
	if err := s.db.WithContext(ctx).Model(structure).
		Updates(map[string]interface{}{"photo_url": url, "photo_key": key}).Error; err != nil {
		return "", fmt.Errorf("%w: failed to store photo reference: %v", ErrDatabaseQuery, err)
	}
	return oldKey, nil
}

func (s *StructureService) ownedStructure(ctx context.Context, structureID, userID uint) (*models.Structure, error) {
	var structure models.Structure
	if err := s.db.WithContext(ctx).First(&structure, structureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStructureNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch structure: %v", ErrDatabaseQuery, err)
	}
	if structure.UserID != userID {
		return nil, ErrNotStructureOwner
	}
	return &structure, nil
}
