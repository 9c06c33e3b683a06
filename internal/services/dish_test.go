package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishFilterValidateAndNormalize(t *testing.T) {
	f := DishFilter{Search: "  tartare  ", Category: " plat "}
	require.NoError(t, f.ValidateAndNormalize())

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.Limit)
	assert.Equal(t, "tartare", f.Search)
	assert.Equal(t, "plat", f.Category)
}

func TestDishFilterClampsLimit(t *testing.T) {
	f := DishFilter{Limit: 5000, Page: 3}
	require.NoError(t, f.ValidateAndNormalize())

	assert.Equal(t, MaxPageSize, f.Limit)
	assert.Equal(t, 3, f.Page)
}

func TestDishFilterRejectsNegativePrices(t *testing.T) {
	f := DishFilter{MinPrice: -1}
	assert.ErrorIs(t, f.ValidateAndNormalize(), ErrInvalidFilter)

	f = DishFilter{MaxPrice: -10}
	assert.ErrorIs(t, f.ValidateAndNormalize(), ErrInvalidFilter)
}

func TestDishFilterRejectsInvertedPriceRange(t *testing.T) {
	f := DishFilter{MinPrice: 500, MaxPrice: 100}
	assert.ErrorIs(t, f.ValidateAndNormalize(), ErrInvalidFilter)
}

func TestDishFilterRejectsUnknownCategory(t *testing.T) {
	f := DishFilter{Category: "pizza"}
	assert.ErrorIs(t, f.ValidateAndNormalize(), ErrInvalidFilter)
}

func TestDishRequestValidation(t *testing.T) {
	svc := &DishService{}

	valid := DishRequest{
		Name:               "Tartare de boeuf",
		Description:        "Servi avec frites",
		Category:           "plat",
		BasePrice:          *decPtr("1500"),
		PreparationMinutes: 15,
		CookingMinutes:     0,
		Difficulty:         "moyen",
	}
	assert.NoError(t, svc.validateRequest(&valid))

	badCategory := valid
	badCategory.Category = "fusion"
	var ve *ValidationError
	require.ErrorAs(t, svc.validateRequest(&badCategory), &ve)
	assert.Equal(t, "category", ve.Field)

	badDifficulty := valid
	badDifficulty.Difficulty = "impossible"
	require.ErrorAs(t, svc.validateRequest(&badDifficulty), &ve)
	assert.Equal(t, "difficulty", ve.Field)

	tooCheap := valid
	tooCheap.BasePrice = *decPtr("99.99")
	require.ErrorAs(t, svc.validateRequest(&tooCheap), &ve)
	assert.Equal(t, "base_price", ve.Field)

	tooExpensive := valid
	tooExpensive.BasePrice = *decPtr("1000001")
	require.ErrorAs(t, svc.validateRequest(&tooExpensive), &ve)
	assert.Equal(t, "base_price", ve.Field)

	tooLong := valid
	tooLong.PreparationMinutes = 1000
	tooLong.CookingMinutes = 500
	require.ErrorAs(t, svc.validateRequest(&tooLong), &ve)
	assert.Empty(t, ve.Field)
}
