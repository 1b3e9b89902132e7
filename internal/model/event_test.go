package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeBalanceDue(t *testing.T) {
	assert.Equal(t, int64(40000), ComputeBalanceDue(50000, 10000))
	assert.Equal(t, int64(0), ComputeBalanceDue(0, 0))

	// Deposits above the total are allowed; the balance simply goes
	// negative (over-paid).
	assert.Equal(t, int64(-5000), ComputeBalanceDue(10000, 15000))
}

func TestAppendCancellationNoteEmpty(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	got := AppendCancellationNote("", "Client changed mind", at)
	assert.Equal(t, "[2026-03-14 09:26] CANCELLED: Client changed mind", got)
}

func TestAppendCancellationNotePreservesExisting(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	got := AppendCancellationNote("allergy list confirmed", "venue flooded", at)
	assert.Equal(t, "allergy list confirmed\n\n[2026-03-14 09:26] CANCELLED: venue flooded", got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/09/2026")
	assert.Error(t, err)
}

func TestSummarizeProjection(t *testing.T) {
	e := &Event{
		ID:            "e1",
		Title:         "Wedding Reception",
		Type:          EventTypeWedding,
		Status:        StatusQuoted,
		GuestCount:    150,
		TotalAmount:   50000,
		DepositAmount: 10000,
		BalanceDue:    40000,
		CustomerName:  "Ahmed Tazi",
		InternalNotes: "negotiate dessert budget",
	}
	s := e.Summarize()
	assert.Equal(t, "e1", s.ID)
	assert.Equal(t, int64(50000), s.TotalAmount)
	assert.Equal(t, StatusQuoted, s.Status)
}

func TestClientProjectionOmitsStaffOnlyFields(t *testing.T) {
	e := &Event{
		ID:            "e1",
		Status:        StatusConfirmed,
		TotalAmount:   80000,
		DepositAmount: 20000,
		BalanceDue:    60000,
		Notes:         "menu v2 shared with client",
		InternalNotes: "[2026-01-02 10:00] CANCELLED: test",
	}
	v := e.ClientProjection()
	assert.Equal(t, int64(60000), v.BalanceDue)
	assert.Equal(t, "menu v2 shared with client", v.Notes)
	assert.NotContains(t, []string{v.Notes, v.SpecialRequests}, e.InternalNotes)
}
