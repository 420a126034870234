package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMergeLines(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	merged := MergeLines([]ReservationLine{
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 2},
		{ProductID: a, Quantity: 3},
	})

	assert.Equal(t, []ReservationLine{
		{ProductID: a, Quantity: 4},
		{ProductID: b, Quantity: 2},
	}, merged)
}

func TestValidateLines(t *testing.T) {
	assert.EqualError(t, ValidateLines(nil), "Items array is required")
	assert.Error(t, ValidateLines([]ReservationLine{{ProductID: uuid.New(), Quantity: 0}}))
	assert.Error(t, ValidateLines([]ReservationLine{{Quantity: 1}}))
	assert.NoError(t, ValidateLines([]ReservationLine{{ProductID: uuid.New(), Quantity: 2}}))
}

func TestAvailabilityMessage(t *testing.T) {
	assert.Equal(t, "In stock", AvailabilityMessage(3, 3))
	assert.Equal(t, "In stock", AvailabilityMessage(3, 0))
	assert.Equal(t, "Only 3 items available", AvailabilityMessage(3, 5))
	assert.Equal(t, "Only 0 items available", AvailabilityMessage(0, 1))
}
