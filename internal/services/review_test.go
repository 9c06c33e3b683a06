package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    string
		count   int
	}{
		{"single review", []int{4}, "4", 1},
		{"exact mean", []int{5, 3}, "4", 2},
		{"half rounds to two places", []int{5, 4}, "4.5", 2},
		{"repeating decimal rounds", []int{3, 3, 4}, "3.33", 3},
		{"rounds up", []int{5, 5, 4, 4, 4, 3}, "4.17", 6},
		{"all fives", []int{5, 5, 5}, "5", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count := AverageRating(tt.ratings)
			assert.True(t, avg.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", avg, tt.want)
			assert.Equal(t, tt.count, count)
		})
	}
}

// A target whose last visible review is flagged or deleted must fall back to
// unrated, not keep the previous aggregate.
func TestAverageRatingEmptySetResets(t *testing.T) {
	avg, count := AverageRating(nil)
	assert.True(t, avg.IsZero())
	assert.Equal(t, 0, count)

	avg, count = AverageRating([]int{})
	assert.True(t, avg.IsZero())
	assert.Equal(t, 0, count)
}
