package review_models

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	for _, rating := range []int{0, -1, 6, 100} {
		_, err := CreateReview(context.Background(), nil, uuid.New(), uuid.New(), rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
}
