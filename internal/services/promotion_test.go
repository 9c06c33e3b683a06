package services

import (
	"testing"
	"time"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func baseDish() *models.Dish {
	return &models.Dish{
		Name:      "Tartare de boeuf",
		Category:  models.DishCategoryMain,
		BasePrice: decimal.RequireFromString("1000"),
	}
}

func TestApplyPromotionDisabledClearsEverything(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	dish := baseDish()
	dish.PromotionEnabled = true
	dish.PromotionalPrice = decPtr("800")
	dish.DiscountPercent = decPtr("20")
	dish.PromotionStartDate = timePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	dish.PromotionStartTime = "18:00"
	dish.PromotionEndDate = timePtr(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	dish.PromotionEndTime = "22:00"
	dish.PromotionDescription = "Offre du soir"

	err := ApplyPromotion(dish, PromotionInput{Enabled: false, PromotionalPrice: decPtr("100")}, now)
	require.NoError(t, err)

	assert.False(t, dish.PromotionEnabled)
	assert.Nil(t, dish.PromotionalPrice)
	assert.Nil(t, dish.DiscountPercent)
	assert.Nil(t, dish.PromotionStartDate)
	assert.Empty(t, dish.PromotionStartTime)
	assert.Nil(t, dish.PromotionEndDate)
	assert.Empty(t, dish.PromotionEndTime)
	assert.Empty(t, dish.PromotionDescription)
}

func TestApplyPromotionRejectsBothSources(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	err := ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		DiscountPercent:  decPtr("20"),
	}, now)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, ve.Field)
}

func TestApplyPromotionRejectsNoSource(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	err := ApplyPromotion(baseDish(), PromotionInput{Enabled: true}, now)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestApplyPromotionPriceMustBeBelowBase(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for _, price := range []string{"1000", "1200"} {
		err := ApplyPromotion(baseDish(), PromotionInput{
			Enabled:          true,
			PromotionalPrice: decPtr(price),
		}, now)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "promotional_price", ve.Field)
	}
}

func TestApplyPromotionPercentBounds(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for _, pct := range []string{"0", "-5", "100", "150"} {
		err := ApplyPromotion(baseDish(), PromotionInput{
			Enabled:         true,
			DiscountPercent: decPtr(pct),
		}, now)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "percent %s should be rejected", pct)
		assert.Equal(t, "discount_percent", ve.Field)
	}
}

func TestApplyPromotionDerivesPriceFromPercent(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	dish := baseDish()

	err := ApplyPromotion(dish, PromotionInput{
		Enabled:         true,
		DiscountPercent: decPtr("25"),
		StartAt:         timePtr(now),
		EndAt:           timePtr(now.Add(2 * time.Hour)),
	}, now)
	require.NoError(t, err)

	require.NotNil(t, dish.PromotionalPrice)
	assert.True(t, dish.PromotionalPrice.Equal(decimal.RequireFromString("750")))

	assert.True(t, dish.IsPromotedAt(now.Add(time.Hour)))
	assert.True(t, dish.EffectivePriceAt(now.Add(time.Hour)).Equal(decimal.RequireFromString("750")))
	assert.True(t, dish.SavingsAmountAt(now.Add(time.Hour)).Equal(decimal.RequireFromString("250")))
	assert.True(t, dish.SavingsPercentAt(now.Add(time.Hour)).Equal(decimal.RequireFromString("25")))
}

func TestApplyPromotionRejectsPartialWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	err := ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		StartAt:          timePtr(now.Add(time.Hour)),
	}, now)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	err = ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		EndAt:            timePtr(now.Add(time.Hour)),
	}, now)
	require.ErrorAs(t, err, &ve)
}

func TestApplyPromotionRejectsInvertedWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	err := ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		StartAt:          timePtr(now.Add(2 * time.Hour)),
		EndAt:            timePtr(now.Add(2 * time.Hour)),
	}, now)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "end_at", ve.Field)
}

func TestApplyPromotionRejectsPastStart(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	err := ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		StartAt:          timePtr(now.Add(-time.Minute)),
		EndAt:            timePtr(now.Add(2 * time.Hour)),
	}, now)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "start_at", ve.Field)
}

func TestApplyPromotionMinimumWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)

	err := ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		StartAt:          timePtr(start),
		EndAt:            timePtr(start.Add(59 * time.Minute)),
	}, now)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	err = ApplyPromotion(baseDish(), PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		StartAt:          timePtr(start),
		EndAt:            timePtr(start.Add(time.Hour)),
	}, now)
	assert.NoError(t, err, "exactly one hour is the shortest valid window")
}

func TestApplyPromotionSplitsBoundaries(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	end := time.Date(2026, 9, 2, 22, 0, 0, 0, time.UTC)
	dish := baseDish()

	err := ApplyPromotion(dish, PromotionInput{
		Enabled:          true,
		PromotionalPrice: decPtr("800"),
		StartAt:          &start,
		EndAt:            &end,
		Description:      "Happy hour",
	}, now)
	require.NoError(t, err)

	require.NotNil(t, dish.PromotionStartDate)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *dish.PromotionStartDate)
	assert.Equal(t, "18:30", dish.PromotionStartTime)
	require.NotNil(t, dish.PromotionEndDate)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), *dish.PromotionEndDate)
	assert.Equal(t, "22:00", dish.PromotionEndTime)
	assert.Equal(t, "Happy hour", dish.PromotionDescription)

	startAt, ok := dish.PromotionStartAt()
	require.True(t, ok)
	require.NotNil(t, startAt)
	assert.True(t, startAt.Equal(start), "recombined boundary must match the submitted instant")
	endAt, ok := dish.PromotionEndAt()
	require.True(t, ok)
	require.NotNil(t, endAt)
	assert.True(t, endAt.Equal(end))
}

func TestQuoteDish(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	dish := baseDish()
	dish.PromotionEnabled = true
	dish.PromotionalPrice = decPtr("600")

	quote := QuoteDish(dish, now)
	assert.True(t, quote.Promoted)
	assert.True(t, quote.BasePrice.Equal(decimal.RequireFromString("1000")))
	assert.True(t, quote.EffectivePrice.Equal(decimal.RequireFromString("600")))
	assert.True(t, quote.SavingsAmount.Equal(decimal.RequireFromString("400")))
	assert.True(t, quote.SavingsPercent.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, 0, quote.DaysRemaining)
}
