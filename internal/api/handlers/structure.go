package handlers

import (
	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type StructureHandler struct {
	structureService *services.StructureService
	menuService      *services.MenuService
	storageService   *services.StorageService
}

func NewStructureHandler(structureService *services.StructureService, menuService *services.MenuService, storageService *services.StorageService) *StructureHandler {
	return &StructureHandler{
		structureService: structureService,
		menuService:      menuService,
		storageService:   storageService,
	}
}

func (h *StructureHandler) GetStructures(c *gin.Context) {
	var filter services.StructureFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid filter parameters")
		return
	}

	resp, err := h.structureService.GetStructures(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "Failed to fetch structures", err)
		return
	}

	utils.SendSuccess(c, "Structures retrieved successfully", resp)
}

func (h *StructureHandler) GetStructure(c *gin.Context) {
	id, ok := parseIDParam(c, "structure_id")
	if !ok {
		return
	}

	structure, err := h.structureService.GetStructure(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "Failed to fetch structure", err)
		return
	}

	utils.SendSuccess(c, "Structure retrieved successfully", structure)
}

// GetStructureMenus lists the structure's active menus for its public page.
func (h *StructureHandler) GetStructureMenus(c *gin.Context) {
	id, ok := parseIDParam(c, "structure_id")
	if !ok {
		return
	}

	menus, err := h.menuService.GetStructureMenus(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "Failed to fetch menus", err)
		return
	}

	utils.SendSuccess(c, "Menus retrieved successfully", menus)
}

func (h *StructureHandler) GetCities(c *gin.Context) {
	cities, err := h.structureService.GetCities(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to fetch cities", err)
		return
	}

	utils.SendSuccess(c, "Cities retrieved successfully", cities)
}

func (h *StructureHandler) GetMyStructure(c *gin.Context) {
	userID := c.GetUint("user_id")

	structure, err := h.structureService.GetUserStructure(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch structure", err)
		return
	}

	utils.SendSuccess(c, "Structure retrieved successfully", structure)
}

func (h *StructureHandler) RegisterStructure(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.StructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	structure, err := h.structureService.RegisterStructure(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, "Failed to register structure", err)
		return
	}

	utils.SendCreated(c, "Structure registered successfully", structure)
}

func (h *StructureHandler) UpdateStructure(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "structure_id")
	if !ok {
		return
	}

	var req services.StructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	structure, err := h.structureService.UpdateStructure(c.Request.Context(), id, userID, req)
	if err != nil {
		respondServiceError(c, "Failed to update structure", err)
		return
	}

	utils.SendSuccess(c, "Structure updated successfully", structure)
}

func (h *StructureHandler) DeleteStructure(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "structure_id")
	if !ok {
		return
	}

	if err := h.structureService.DeleteStructure(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, "Failed to delete structure", err)
		return
	}

	utils.SendSuccess(c, "Structure deleted successfully", nil)
}

func (h *StructureHandler) UploadPhoto(c *gin.Context) {
	if h.storageService == nil {
		utils.SendError(c, 503, "Photo uploads are not configured", nil)
		return
	}

	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "structure_id")
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

	result, err := h.storageService.UploadPhoto("structures", file, fileHeader)
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	oldKey, err := h.structureService.SetPhoto(c.Request.Context(), id, userID, result.URL, result.Key)
	if err != nil {
		respondServiceError(c, "Failed to store photo reference", err)
		return
	}
	if oldKey != "" {
		_ = h.storageService.DeletePhoto(oldKey)
	}

	utils.SendSuccess(c, "Photo uploaded successfully", gin.H{"url": result.URL})
}
