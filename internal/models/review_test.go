package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewTargetRoundTrip(t *testing.T) {
	var review Review

	review.SetTarget(StructureTarget(7))
	target, err := review.Target()
	require.NoError(t, err)
	assert.Equal(t, TargetStructure, target.Kind)
	assert.Equal(t, uint(7), target.ID)
	assert.Nil(t, review.DishID)

	review.SetTarget(DishTarget(42))
	target, err = review.Target()
	require.NoError(t, err)
	assert.Equal(t, TargetDish, target.Kind)
	assert.Equal(t, uint(42), target.ID)
	assert.Nil(t, review.StructureID, "retargeting must clear the other side")
}

func TestReviewTargetMissing(t *testing.T) {
	var review Review

	_, err := review.Target()
	assert.ErrorIs(t, err, ErrNoReviewTarget)
}

func TestReviewTargetDual(t *testing.T) {
	structureID := uint(1)
	dishID := uint(2)
	review := Review{StructureID: &structureID, DishID: &dishID}

	_, err := review.Target()
	assert.ErrorIs(t, err, ErrDualReviewTarget)
}

func TestIsValidRating(t *testing.T) {
	assert.False(t, IsValidRating(0))
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(3))
	assert.True(t, IsValidRating(5))
	assert.False(t, IsValidRating(6))
	assert.False(t, IsValidRating(-1))
}
