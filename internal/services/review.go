package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrTargetNotFound  = errors.New("review target not found")
	ErrDuplicateReview = errors.New("user already reviewed this target")
	ErrNotReviewAuthor = errors.New("review does not belong to this user")
	ErrOwnReviewFlag   = errors.New("cannot flag your own review")
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &ReviewService{db: db}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type ReviewListResponse struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// AverageRating computes the aggregate written back onto a review target:
// the mean rating rounded to two places and the count. An empty set yields
// 0.00 and 0, so a target whose last visible review disappears drops back
// to unrated instead of keeping a stale value.
func AverageRating(ratings []int) (decimal.Decimal, int) {
	if len(ratings) == 0 {
		return decimal.Zero.Round(2), 0
	}
	sum := int64(0)
	for _, r := range ratings {
		sum += int64(r)
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings)))).Round(2), len(ratings)
}

func (s *ReviewService) validateRequest(req *ReviewRequest) error {
	if !models.IsValidRating(req.Rating) {
		return fieldError("rating", "must be between 1 and 5")
	}
	if len(req.Comment) > maxCommentLength {
		return fieldError("comment", "maximum length is 1000 characters")
	}
	return nil
}

// targetExists loads nothing but confirms the target row is there before a
// review is accepted for it.
func (s *ReviewService) targetExists(tx *gorm.DB, target models.ReviewTarget) error {
	var count int64
	var err error
	switch target.Kind {
	case models.TargetStructure:
		err = tx.Model(&models.Structure{}).Where("id = ?", target.ID).Count(&count).Error
	case models.TargetDish:
		err = tx.Model(&models.Dish{}).Where("id = ?", target.ID).Count(&count).Error
	default:
		return models.ErrNoReviewTarget
	}
	if err != nil {
		return fmt.Errorf("%w: failed to check target: %v", ErrDatabaseQuery, err)
	}
	if count == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func targetScope(tx *gorm.DB, target models.ReviewTarget) *gorm.DB {
	q := tx.Model(&models.Review{})
	switch target.Kind {
	case models.TargetStructure:
		return q.Where("structure_id = ?", target.ID)
	case models.TargetDish:
		return q.Where("dish_id = ?", target.ID)
	}
	return q
}

// checkDuplicate enforces one review per (author, target). excludeID skips
// the review being edited.
func (s *ReviewService) checkDuplicate(tx *gorm.DB, userID uint, target models.ReviewTarget, excludeID uint) error {
	q := targetScope(tx, target).Where("user_id = ?", userID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("%w: failed to check existing reviews: %v", ErrDatabaseQuery, err)
	}
	if count > 0 {
		return ErrDuplicateReview
	}
	return nil
}

// recomputeTargetRating rewrites the target's cached aggregate from the
// full set of its non-flagged reviews. It must run inside the same
// transaction as the review write that triggered it.
func (s *ReviewService) recomputeTargetRating(tx *gorm.DB, target models.ReviewTarget) error {
	var ratings []int
	if err := targetScope(tx, target).
		Where("flagged = ?", false).
		Pluck("rating", &ratings).Error; err != nil {
		return fmt.Errorf("%w: failed to load ratings: %v", ErrDatabaseQuery, err)
	}

	average, count := AverageRating(ratings)
	values := map[string]interface{}{
		"average_rating": average,
		"review_count":   count,
	}

	var result *gorm.DB
	switch target.Kind {
	case models.TargetStructure:
		result = tx.Model(&models.Structure{}).Where("id = ?", target.ID).Updates(values)
	case models.TargetDish:
		result = tx.Model(&models.Dish{}).Where("id = ?", target.ID).Updates(values)
	default:
		return models.ErrNoReviewTarget
	}
	if result.Error != nil {
		return fmt.Errorf("%w: failed to store aggregate: %v", ErrDatabaseQuery, result.Error)
	}
	if result.RowsAffected == 0 {
		// Target vanished mid-transaction; roll the whole save back.
		return ErrTargetNotFound
	}
	return nil
}

func (s *ReviewService) CreateReview(ctx context.Context, userID uint, target models.ReviewTarget, req ReviewRequest) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	review := models.Review{
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
		UserID:  userID,
	}
	review.SetTarget(target)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.targetExists(tx, target); err != nil {
			return err
		}
		if err := s.checkDuplicate(tx, userID, target, 0); err != nil {
			return err
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("%w: failed to create review: %v", ErrDatabaseQuery, err)
		}
		return s.recomputeTargetRating(tx, target)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits the author's review in place. The target is immutable;
// only rating and comment change.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID uint, req ReviewRequest) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("%w: failed to fetch review: %v", ErrDatabaseQuery, err)
		}
		if review.UserID != userID {
			return ErrNotReviewAuthor
		}
		target, err := review.Target()
		if err != nil {
			return err
		}
		if err := s.checkDuplicate(tx, userID, target, review.ID); err != nil {
			return err
		}

		review.Rating = req.Rating
		review.Comment = strings.TrimSpace(req.Comment)
		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("%w: failed to update review: %v", ErrDatabaseQuery, err)
		}
		return s.recomputeTargetRating(tx, target)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("%w: failed to fetch review: %v", ErrDatabaseQuery, err)
		}
		if review.UserID != userID {
			return ErrNotReviewAuthor
		}
		target, err := review.Target()
		if err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("%w: failed to delete review: %v", ErrDatabaseQuery, err)
		}
		return s.recomputeTargetRating(tx, target)
	})
}

// FlagReview marks a review as reported. Any authenticated user except the
// author may flag. The target's aggregate is recomputed in the same
// transaction so a flagged review stops counting immediately.
func (s *ReviewService) FlagReview(ctx context.Context, reviewID, actorID uint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("%w: failed to fetch review: %v", ErrDatabaseQuery, err)
		}
		if review.UserID == actorID {
			return ErrOwnReviewFlag
		}
		target, err := review.Target()
		if err != nil {
			return err
		}
		if err := tx.Model(&review).Update("flagged", true).Error; err != nil {
			return fmt.Errorf("%w: failed to flag review: %v", ErrDatabaseQuery, err)
		}
		return s.recomputeTargetRating(tx, target)
	})
}

// ModerateReview resolves a flagged review: "approve" clears the flag,
// "remove" deletes the review. Both recompute the target's aggregate.
func (s *ReviewService) ModerateReview(ctx context.Context, reviewID uint, action string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if action != "approve" && action != "remove" {
		return fieldError("action", "use 'approve' or 'remove'")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("%w: failed to fetch review: %v", ErrDatabaseQuery, err)
		}
		target, err := review.Target()
		if err != nil {
			return err
		}

		switch action {
		case "approve":
			if err := tx.Model(&review).Update("flagged", false).Error; err != nil {
				return fmt.Errorf("%w: failed to approve review: %v", ErrDatabaseQuery, err)
			}
		case "remove":
			if err := tx.Delete(&review).Error; err != nil {
				return fmt.Errorf("%w: failed to remove review: %v", ErrDatabaseQuery, err)
			}
		}
		return s.recomputeTargetRating(tx, target)
	})
}

// GetTargetReviews lists a target's reviews, flagged ones excluded for the
// public view.
func (s *ReviewService) GetTargetReviews(ctx context.Context, target models.ReviewTarget, includeFlagged bool, page, limit int) (*ReviewListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	q := targetScope(s.db.WithContext(ctx), target)
	if !includeFlagged {
		q = q.Where("flagged = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count reviews: %v", ErrDatabaseQuery, err)
	}

	var reviews []models.Review
	if err := q.Preload("User").
		Order("published_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch reviews: %v", ErrDatabaseQuery, err)
	}

	return &ReviewListResponse{Reviews: reviews, Total: total, Page: page, Limit: limit}, nil
}

func (s *ReviewService) GetUserReviews(ctx context.Context, userID uint) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("published_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch reviews: %v", ErrDatabaseQuery, err)
	}
	return reviews, nil
}

func (s *ReviewService) GetFlaggedReviews(ctx context.Context) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("flagged = ?", true).
		Order("edited_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch flagged reviews: %v", ErrDatabaseQuery, err)
	}
	return reviews, nil
}
