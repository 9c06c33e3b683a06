package handlers

import (
	"errors"
	"net/http"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto HTTP statuses: validation
// errors become 400s with the offending field, missing rows 404s,
// ownership failures 403s, everything else a 500.
func respondServiceError(c *gin.Context, message string, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		utils.SendFieldError(c, ve.Field, ve.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrDishNotFound),
		errors.Is(err, services.ErrStructureNotFound),
		errors.Is(err, services.ErrMenuNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrTargetNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, services.ErrNotDishOwner),
		errors.Is(err, services.ErrNotStructureOwner),
		errors.Is(err, services.ErrNotMenuOwner),
		errors.Is(err, services.ErrNotReviewAuthor),
		errors.Is(err, services.ErrOwnReviewFlag):
		utils.SendForbidden(c, err.Error())
	case errors.Is(err, services.ErrDuplicateReview),
		errors.Is(err, services.ErrStructureExists),
		errors.Is(err, services.ErrNoOwnStructure),
		errors.Is(err, services.ErrDishNotOwned),
		errors.Is(err, services.ErrInvalidFilter),
		errors.Is(err, models.ErrNoReviewTarget),
		errors.Is(err, models.ErrDualReviewTarget):
		utils.SendError(c, http.StatusBadRequest, message, err)
	default:
		utils.SendInternalError(c, message, err)
	}
}
