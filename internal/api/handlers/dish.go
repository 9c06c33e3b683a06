package handlers

import (
	"strconv"

	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type DishHandler struct {
	dishService    *services.DishService
	storageService *services.StorageService
}

func NewDishHandler(dishService *services.DishService, storageService *services.StorageService) *DishHandler {
	return &DishHandler{dishService: dishService, storageService: storageService}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		utils.SendValidationError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (h *DishHandler) GetDishes(c *gin.Context) {
	var filter services.DishFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid filter parameters")
		return
	}

	resp, err := h.dishService.GetDishes(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "Failed to fetch dishes", err)
		return
	}

	utils.SendSuccess(c, "Dishes retrieved successfully", resp)
}

func (h *DishHandler) GetDish(c *gin.Context) {
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	dish, err := h.dishService.GetDish(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "Failed to fetch dish", err)
		return
	}

	utils.SendSuccess(c, "Dish retrieved successfully", dish)
}

// GetDishQuote returns the dish's current pricing: whether the promotion
// applies right now, the effective price and the savings.
func (h *DishHandler) GetDishQuote(c *gin.Context) {
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	quote, err := h.dishService.QuoteDish(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "Failed to fetch dish pricing", err)
		return
	}

	utils.SendSuccess(c, "Dish pricing retrieved successfully", quote)
}

func (h *DishHandler) GetCategories(c *gin.Context) {
	categories, err := h.dishService.GetCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to fetch categories", err)
		return
	}

	utils.SendSuccess(c, "Categories retrieved successfully", categories)
}

func (h *DishHandler) GetMyDishes(c *gin.Context) {
	userID := c.GetUint("user_id")

	dishes, err := h.dishService.GetDishesByCreator(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch dishes", err)
		return
	}

	utils.SendSuccess(c, "Dishes retrieved successfully", dishes)
}

func (h *DishHandler) CreateDish(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	dish, err := h.dishService.CreateDish(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, "Failed to create dish", err)
		return
	}

	utils.SendCreated(c, "Dish created successfully", dish)
}

func (h *DishHandler) UpdateDish(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	var req services.DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	dish, err := h.dishService.UpdateDish(c.Request.Context(), id, userID, req)
	if err != nil {
		respondServiceError(c, "Failed to update dish", err)
		return
	}

	utils.SendSuccess(c, "Dish updated successfully", dish)
}

func (h *DishHandler) DeleteDish(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	if err := h.dishService.DeleteDish(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, "Failed to delete dish", err)
		return
	}

	utils.SendSuccess(c, "Dish deleted successfully", nil)
}

func (h *DishHandler) UploadPhoto(c *gin.Context) {
	if h.storageService == nil {
		utils.SendError(c, 503, "Photo uploads are not configured", nil)
		return
	}

	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.SendValidationError(c, "A photo file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.SendInternalError(c, "Failed to read photo", err)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadPhoto("plats", file, fileHeader)
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	oldKey, err := h.dishService.SetPhoto(c.Request.Context(), id, userID, result.URL, result.Key)
	if err != nil {
		respondServiceError(c, "Failed to store photo reference", err)
		return
	}
	if oldKey != "" {
		_ = h.storageService.DeletePhoto(oldKey)
	}

	utils.SendSuccess(c, "Photo uploaded successfully", gin.H{"url": result.URL})
}
