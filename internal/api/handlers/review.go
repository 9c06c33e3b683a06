package handlers

import (
	"strconv"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateStructureReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "structure_id")
	if !ok {
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, models.StructureTarget(id), req)
	if err != nil {
		respondServiceError(c, "Failed to create review", err)
		return
	}

	utils.SendCreated(c, "Review published successfully", review)
}

func (h *ReviewHandler) CreateDishReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, models.DishTarget(id), req)
	if err != nil {
		respondServiceError(c, "Failed to create review", err)
		return
	}

	utils.SendCreated(c, "Review published successfully", review)
}

// GetStructureReviews lists a structure's visible (non-flagged) reviews.
func (h *ReviewHandler) GetStructureReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "structure_id")
	if !ok {
		return
	}
	h.listTargetReviews(c, models.StructureTarget(id))
}

func (h *ReviewHandler) GetDishReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "dish_id")
	if !ok {
		return
	}
	h.listTargetReviews(c, models.DishTarget(id))
}

func (h *ReviewHandler) listTargetReviews(c *gin.Context, target models.ReviewTarget) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.reviewService.GetTargetReviews(c.Request.Context(), target, false, page, limit)
	if err != nil {
		respondServiceError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", resp)
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), id, userID, req)
	if err != nil {
		respondServiceError(c, "Failed to update review", err)
		return
	}

	utils.SendSuccess(c, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", nil)
}

func (h *ReviewHandler) FlagReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.FlagReview(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, "Failed to flag review", err)
		return
	}

	utils.SendSuccess(c, "Review flagged successfully", nil)
}

func (h *ReviewHandler) GetFlaggedReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetFlaggedReviews(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to fetch flagged reviews", err)
		return
	}

	utils.SendSuccess(c, "Flagged reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.reviewService.ModerateReview(c.Request.Context(), id, req.Action); err != nil {
		respondServiceError(c, "Failed to moderate review", err)
		return
	}

	utils.SendSuccess(c, "Review moderated successfully", nil)
}
