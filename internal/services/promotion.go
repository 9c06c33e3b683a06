package services

import (
	"time"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/shopspring/decimal"
)

// MinPromotionWindow is the shortest allowed promotion when both boundaries
// are given.
const MinPromotionWindow = time.Hour

var oneHundred = decimal.NewFromInt(100)

// PromotionInput carries the promotion half of a dish submission. The
// caller supplies combined instants; they are stored split into date and
// HH:MM columns.
type PromotionInput struct {
	Enabled          bool             `json:"enabled"`
	PromotionalPrice *decimal.Decimal `json:"promotional_price,omitempty"`
	DiscountPercent  *decimal.Decimal `json:"discount_percent,omitempty"`
	StartAt          *time.Time       `json:"start_at,omitempty"`
	EndAt            *time.Time       `json:"end_at,omitempty"`
	Description      string           `json:"description,omitempty"`
}

// ApplyPromotion validates the promotion input against the dish's base
// price and writes the normalized fields onto the dish. Exactly one of
// price/percent may be supplied; when the percent is given the promotional
// price is derived from it, so a single source of truth survives. Disabling
// the promotion unconditionally clears every promotion field.
func ApplyPromotion(dish *models.Dish, in PromotionInput, now time.Time) error {
	if !in.Enabled {
		clearPromotion(dish)
		return nil
	}

	if in.PromotionalPrice != nil && in.DiscountPercent != nil {
		return formError("specify either a promotional price or a discount percent, not both")
	}
	if in.PromotionalPrice == nil && in.DiscountPercent == nil {
		return formError("specify either a promotional price or a discount percent")
	}

	promoPrice := in.PromotionalPrice
	if promoPrice != nil && !promoPrice.LessThan(dish.BasePrice) {
		return fieldError("promotional_price", "must be strictly below the base price")
	}
	if in.DiscountPercent != nil {
		pct := *in.DiscountPercent
		if !pct.IsPositive() || pct.GreaterThanOrEqual(oneHundred) {
			return fieldError("discount_percent", "must be between 0 and 100 exclusive")
		}
		derived := dish.BasePrice.Sub(dish.BasePrice.Mul(pct).Div(oneHundred)).Round(2)
		promoPrice = &derived
	}

	if (in.StartAt == nil) != (in.EndAt == nil) {
		return formError("a promotion window needs both a start and an end")
	}
	if in.StartAt != nil && in.EndAt != nil {
		if !in.EndAt.After(*in.StartAt) {
			return fieldError("end_at", "must be after the start")
		}
		if in.StartAt.Before(now) {
			return fieldError("start_at", "cannot be in the past")
		}
		if in.EndAt.Sub(*in.StartAt) < MinPromotionWindow {
			return formError("a promotion must last at least one hour")
		}
	}

	dish.PromotionEnabled = true
	dish.PromotionalPrice = promoPrice
	dish.DiscountPercent = in.DiscountPercent
	dish.PromotionDescription = in.Description
	dish.PromotionStartDate, dish.PromotionStartTime = splitBoundary(in.StartAt)
	dish.PromotionEndDate, dish.PromotionEndTime = splitBoundary(in.EndAt)
	return nil
}

func clearPromotion(dish *models.Dish) {
	dish.PromotionEnabled = false
	dish.PromotionalPrice = nil
	dish.DiscountPercent = nil
	dish.PromotionStartDate = nil
	dish.PromotionStartTime = ""
	dish.PromotionEndDate = nil
	dish.PromotionEndTime = ""
	dish.PromotionDescription = ""
}

func splitBoundary(at *time.Time) (*time.Time, string) {
	if at == nil {
		return nil, ""
	}
	date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	return &date, at.Format("15:04")
}

// PromotionQuote is the display view of a dish's promotion state at a given
// instant.
type PromotionQuote struct {
	Promoted       bool            `json:"promoted"`
	BasePrice      decimal.Decimal `json:"base_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	SavingsAmount  decimal.Decimal `json:"savings_amount"`
	SavingsPercent decimal.Decimal `json:"savings_percent"`
	DaysRemaining  int             `json:"days_remaining"`
}

func QuoteDish(dish *models.Dish, now time.Time) PromotionQuote {
	return PromotionQuote{
		Promoted:       dish.IsPromotedAt(now),
		BasePrice:      dish.BasePrice,
		EffectivePrice: dish.EffectivePriceAt(now),
		SavingsAmount:  dish.SavingsAmountAt(now),
		SavingsPercent: dish.SavingsPercentAt(now),
		DaysRemaining:  dish.DaysRemainingAt(now),
	}
}
