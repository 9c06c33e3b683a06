package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestEffectivePriceDisabledPromotion(t *testing.T) {
	dish := Dish{
		BasePrice:        decimal.RequireFromString("1000"),
		PromotionEnabled: false,
		DiscountPercent:  decPtr("20"),
	}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, dish.IsPromotedAt(now))
	assert.True(t, dish.EffectivePriceAt(now).Equal(dish.BasePrice))
	assert.True(t, dish.SavingsAmountAt(now).IsZero())
	assert.True(t, dish.SavingsPercentAt(now).IsZero())
	assert.Equal(t, 0, dish.DaysRemainingAt(now))
}

func TestEffectivePriceFromDiscountPercent(t *testing.T) {
	dish := Dish{
		BasePrice:        decimal.RequireFromString("1000"),
		PromotionEnabled: true,
		DiscountPercent:  decPtr("20"),
	}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, dish.IsPromotedAt(now))
	assert.True(t, dish.EffectivePriceAt(now).Equal(decimal.RequireFromString("800")))
	assert.True(t, dish.SavingsAmountAt(now).Equal(decimal.RequireFromString("200")))
	assert.True(t, dish.SavingsPercentAt(now).Equal(decimal.RequireFromString("20")))
}

func TestEffectivePriceFromPromotionalPrice(t *testing.T) {
	dish := Dish{
		BasePrice:        decimal.RequireFromString("1000"),
		PromotionEnabled: true,
		PromotionalPrice: decPtr("800"),
	}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, dish.EffectivePriceAt(now).Equal(decimal.RequireFromString("800")))
	assert.True(t, dish.SavingsPercentAt(now).Equal(decimal.RequireFromString("20")))
}

func TestPromotionWindowBounds(t *testing.T) {
	dish := Dish{
		BasePrice:          decimal.RequireFromString("500"),
		PromotionEnabled:   true,
		PromotionalPrice:   decPtr("400"),
		PromotionStartDate: datePtr(2026, 9, 1),
		PromotionStartTime: "18:00",
		PromotionEndDate:   datePtr(2026, 9, 1),
		PromotionEndTime:   "22:00",
	}

	before := time.Date(2026, 9, 1, 17, 59, 0, 0, time.UTC)
	atStart := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	inside := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	atEnd := time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC)
	after := time.Date(2026, 9, 1, 22, 1, 0, 0, time.UTC)

	assert.False(t, dish.IsPromotedAt(before))
	assert.True(t, dish.IsPromotedAt(atStart))
	assert.True(t, dish.IsPromotedAt(inside))
	assert.True(t, dish.IsPromotedAt(atEnd))
	assert.False(t, dish.IsPromotedAt(after))

	assert.True(t, dish.EffectivePriceAt(before).Equal(dish.BasePrice))
	assert.True(t, dish.EffectivePriceAt(inside).Equal(decimal.RequireFromString("400")))
}

func TestPromotionOpenEndedSides(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	startOnly := Dish{
		BasePrice:          decimal.RequireFromString("500"),
		PromotionEnabled:   true,
		PromotionalPrice:   decPtr("400"),
		PromotionStartDate: datePtr(2026, 9, 1),
	}
	assert.True(t, startOnly.IsPromotedAt(now))
	assert.Equal(t, 0, startOnly.DaysRemainingAt(now), "no end means no countdown")

	endOnly := Dish{
		BasePrice:        decimal.RequireFromString("500"),
		PromotionEnabled: true,
		PromotionalPrice: decPtr("400"),
		PromotionEndDate: datePtr(2026, 9, 30),
	}
	assert.True(t, endOnly.IsPromotedAt(now))

	noWindow := Dish{
		BasePrice:        decimal.RequireFromString("500"),
		PromotionEnabled: true,
		PromotionalPrice: decPtr("400"),
	}
	assert.True(t, noWindow.IsPromotedAt(now))
}

func TestPromotionEndDateWithoutTimeCoversWholeDay(t *testing.T) {
	dish := Dish{
		BasePrice:        decimal.RequireFromString("500"),
		PromotionEnabled: true,
		PromotionalPrice: decPtr("400"),
		PromotionEndDate: datePtr(2026, 9, 1),
	}

	lateEvening := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 9, 2, 0, 0, 1, 0, time.UTC)

	assert.True(t, dish.IsPromotedAt(lateEvening))
	assert.False(t, dish.IsPromotedAt(nextDay))
}

func TestPromotionMalformedTimeFailsClosed(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	badStart := Dish{
		BasePrice:          decimal.RequireFromString("500"),
		PromotionEnabled:   true,
		PromotionalPrice:   decPtr("400"),
		PromotionStartDate: datePtr(2026, 8, 1),
		PromotionStartTime: "25:99",
	}
	assert.False(t, badStart.IsPromotedAt(now))
	assert.True(t, badStart.EffectivePriceAt(now).Equal(badStart.BasePrice))

	badEnd := Dish{
		BasePrice:        decimal.RequireFromString("500"),
		PromotionEnabled: true,
		PromotionalPrice: decPtr("400"),
		PromotionEndDate: datePtr(2026, 10, 1),
		PromotionEndTime: "not-a-time",
	}
	assert.False(t, badEnd.IsPromotedAt(now))
}

func TestDaysRemaining(t *testing.T) {
	dish := Dish{
		BasePrice:        decimal.RequireFromString("500"),
		PromotionEnabled: true,
		PromotionalPrice: decPtr("400"),
		PromotionEndDate: datePtr(2026, 9, 10),
		PromotionEndTime: "12:00",
	}

	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, dish.DaysRemainingAt(now))

	sameDay := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, dish.DaysRemainingAt(sameDay))
}

func TestEffectivePriceFlooredAtZero(t *testing.T) {
	dish := Dish{
		BasePrice:        decimal.RequireFromString("0.01"),
		PromotionEnabled: true,
		DiscountPercent:  decPtr("99.99"),
	}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, dish.EffectivePriceAt(now).IsNegative())
}

func TestIsValidDishCategory(t *testing.T) {
	assert.True(t, IsValidDishCategory(DishCategoryStarter))
	assert.True(t, IsValidDishCategory(DishCategoryMain))
	assert.True(t, IsValidDishCategory(DishCategoryDessert))
	assert.True(t, IsValidDishCategory(DishCategoryDrink))
	assert.False(t, IsValidDishCategory("pizza"))
	assert.False(t, IsValidDishCategory(""))
}

func TestIsValidDishDifficulty(t *testing.T) {
	assert.True(t, IsValidDishDifficulty(DishDifficultyEasy))
	assert.True(t, IsValidDishDifficulty(DishDifficultyMedium))
	assert.True(t, IsValidDishDifficulty(DishDifficultyHard))
	assert.False(t, IsValidDishDifficulty("expert"))
}
