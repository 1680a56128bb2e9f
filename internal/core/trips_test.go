package core

import (
	"testing"
	"time"

	"travel_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUpcomingTrips(t *testing.T) {
	ref := time.Date(2025, 6, 1, 15, 30, 0, 0, time.Local)
	sales := []models.Sale{
		{ID: "late", OutboundDate: strPtr("2025-06-07")},
		{ID: "today", OutboundDate: strPtr("2025-06-01")},
		{ID: "horizon-edge", OutboundDate: strPtr("2025-06-08")},
		{ID: "too-far", OutboundDate: strPtr("2025-06-09")},
		{ID: "past-returning", OutboundDate: strPtr("2025-05-20"), ReturnDate: strPtr("2025-06-03")},
		{ID: "past", OutboundDate: strPtr("2025-05-20"), ReturnDate: strPtr("2025-05-30")},
		{ID: "no-outbound", ReturnDate: strPtr("2025-06-02")},
		{ID: "tie", OutboundDate: strPtr("2025-06-07")},
		{ID: "malformed", OutboundDate: strPtr("junho")},
	}

	got := UpcomingTrips(sales, ref, 7)
	assert.Equal(t, []string{"past-returning", "today", "late", "tie", "horizon-edge"}, ids(got))
}

func TestUpcomingTripsDefaultHorizon(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	sales := []models.Sale{{ID: "a", OutboundDate: strPtr("2025-06-08")}, {ID: "b", OutboundDate: strPtr("2025-06-09")}}
	assert.Equal(t, []string{"a"}, ids(UpcomingTrips(sales, ref, 0)))
	assert.Empty(t, UpcomingTrips(nil, ref, 7))
}
