package handlers

import (
	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService *services.MenuService
}

func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) GetMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}

	menu, err := h.menuService.GetMenu(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "Failed to fetch menu", err)
		return
	}

	utils.SendSuccess(c, "Menu retrieved successfully", menu)
}

func (h *MenuHandler) GetMyMenus(c *gin.Context) {
	userID := c.GetUint("user_id")

	menus, err := h.menuService.GetMenusByCreator(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch menus", err)
		return
	}

	utils.SendSuccess(c, "Menus retrieved successfully", menus)
}

func (h *MenuHandler) CreateMenu(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	menu, err := h.menuService.CreateMenu(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, "Failed to create menu", err)
		return
	}

	utils.SendCreated(c, "Menu created successfully", menu)
}

func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}

	var req services.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	menu, err := h.menuService.UpdateMenu(c.Request.Context(), id, userID, req)
	if err != nil {
		respondServiceError(c, "Failed to update menu", err)
		return
	}

	utils.SendSuccess(c, "Menu updated successfully", menu)
}

func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenu(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, "Failed to delete menu", err)
		return
	}

	utils.SendSuccess(c, "Menu deleted successfully", nil)
}

func (h *MenuHandler) AttachDish(c *gin.Context) {
	userID := c.GetUint("user_id")
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	dishID, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	if err := h.menuService.AttachDish(c.Request.Context(), menuID, dishID, userID); err != nil {
		respondServiceError(c, "Failed to attach dish", err)
		return
	}

	utils.SendSuccess(c, "Dish attached successfully", nil)
}

func (h *MenuHandler) DetachDish(c *gin.Context) {
	userID := c.GetUint("user_id")
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	dishID, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	if err := h.menuService.DetachDish(c.Request.Context(), menuID, dishID, userID); err != nil {
		respondServiceError(c, "Failed to detach dish", err)
		return
	}

	utils.SendSuccess(c, "Dish detached successfully", nil)
}
