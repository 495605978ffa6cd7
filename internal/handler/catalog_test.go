package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/model"
)

func TestPublicWorkshopHidesSeatLedger(t *testing.T) {
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	w := model.Workshop{
		ID:         7,
		Name:       "Wheel Throwing Basics",
		Category:   model.CategoryPublic,
		StartsAt:   &starts,
		PriceCents: 4500,
		TotalSeats: 10,
		SeatsTaken: 4,
	}

	body, err := json.Marshal(publicWorkshop(w))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, float64(10), got["total_seats"])
	assert.Equal(t, float64(6), got["seats_free"])
	_, leaked := got["seats_taken"]
	assert.False(t, leaked, "raw seat counter must not reach the public catalog")
}

func TestPublicWorkshopSeatsFreeFloorsAtZero(t *testing.T) {
	w := model.Workshop{TotalSeats: 5, SeatsTaken: 5}
	assert.Equal(t, uint32(0), publicWorkshop(w).SeatsFree)
}
