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
	ErrMenuNotFound   = errors.New("menu not found")
	ErrNotMenuOwner   = errors.New("menu does not belong to this user")
	ErrNoOwnStructure = errors.New("user has no structure to attach the menu to")
	ErrDishNotOwned   = errors.New("dish does not belong to the menu creator")
)

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &MenuService{db: db}
}

type MenuRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Status string `json:"status" binding:"required"`
}

// CreateMenu creates a menu bound to the creator's own structure. A user
// without a structure cannot publish menus.
func (s *MenuService) CreateMenu(ctx context.Context, creatorID uint, req MenuRequest) (*models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if !models.IsValidMenuStatus(req.Status) {
		return nil, fieldError("status", "unknown menu status")
	}

	var structure models.Structure
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", creatorID).
		First(&structure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOwnStructure
		}
		return nil, fmt.Errorf("%w: failed to fetch structure: %v", ErrDatabaseQuery, err)
	}

	menu := models.Menu{
		Name:        strings.TrimSpace(req.Name),
		Status:      req.Status,
		CreatorID:   creatorID,
		StructureID: structure.ID,
	}
	if err := s.db.WithContext(ctx).Create(&menu).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create menu: %v", ErrDatabaseQuery, err)
	}
	return &menu, nil
}

func (s *MenuService) UpdateMenu(ctx context.Context, menuID, userID uint, req MenuRequest) (*models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	menu, err := s.ownedMenu(ctx, menuID, userID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidMenuStatus(req.Status) {
		return nil, fieldError("status", "unknown menu status")
	}

	menu.Name = strings.TrimSpace(req.Name)
	menu.Status = req.Status
	if err := s.db.WithContext(ctx).Save(menu).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update menu: %v", ErrDatabaseQuery, err)
	}
	return menu, nil
}

func (s *MenuService) DeleteMenu(ctx context.Context, menuID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	menu, err := s.ownedMenu(ctx, menuID, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Dishes").Delete(menu).Error; err != nil {
		return fmt.Errorf("%w: failed to delete menu: %v", ErrDatabaseQuery, err)
	}
	return nil
}

// AttachDish adds one of the creator's dishes to the menu. A dish created
// by someone else is a consistency error caught here, not left to the
// database.
func (s *MenuService) AttachDish(ctx context.Context, menuID, dishID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	menu, err := s.ownedMenu(ctx, menuID, userID)
	if err != nil {
		return err
	}

	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDishNotFound
		}
		return fmt.Errorf("%w: failed to fetch dish: %v", ErrDatabaseQuery, err)
	}
	if dish.CreatorID != menu.CreatorID {
		return ErrDishNotOwned
	}

	if err := s.db.WithContext(ctx).Model(menu).Association("Dishes").Append(&dish); err != nil {
		return fmt.Errorf("%w: failed to attach dish: %v", ErrDatabaseQuery, err)
	}
	return nil
}

func (s *MenuService) DetachDish(ctx context.Context, menuID, dishID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	menu, err := s.ownedMenu(ctx, menuID, userID)
	if err != nil {
		return err
	}
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDishNotFound
		}
		return fmt.Errorf("%w: failed to fetch dish: %v", ErrDatabaseQuery, err)
	}
	if err := s.db.WithContext(ctx).Model(menu).Association("Dishes").Delete(&dish); err != nil {
		return fmt.Errorf("%w: failed to detach dish: %v", ErrDatabaseQuery, err)
	}
	return nil
}

func (s *MenuService) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var menu models.Menu
	if err := s.db.WithContext(ctx).Preload("Dishes").First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch menu: %v", ErrDatabaseQuery, err)
	}
	return &menu, nil
}

func (s *MenuService) GetMenusByCreator(ctx context.Context, creatorID uint) ([]models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var menus []models.Menu
	if err := s.db.WithContext(ctx).
		Preload("Dishes").
		Where("creator_id = ?", creatorID).
		Order("created_at ASC").
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch menus: %v", ErrDatabaseQuery, err)
	}
	return menus, nil
}

// GetStructureMenus lists a structure's active menus for its public page.
func (s *MenuService) GetStructureMenus(ctx context.Context, structureID uint) ([]models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var menus []models.Menu
	if err := s.db.WithContext(ctx).
		Preload("Dishes").
		Where("structure_id = ? AND status = ?", structureID, models.MenuStatusActive).
		Order("created_at ASC").
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch menus: %v", ErrDatabaseQuery, err)
	}
	return menus, nil
}

func (s *MenuService) ownedMenu(ctx context.Context, menuID, userID uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.WithContext(ctx).First(&menu, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch menu: %v", ErrDatabaseQuery, err)
	}
	if menu.CreatorID != userID {
		return nil, ErrNotMenuOwner
	}
	return &menu, nil
}
