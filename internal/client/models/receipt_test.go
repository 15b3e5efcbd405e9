package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLineItem_LineTotal(t *testing.T) {
	computed := LineItem{Name: "milk", Quantity: 3, Price: 1.2}
	assert.InDelta(t, 3.6, computed.LineTotal(), 1e-9)

	precomputed := LineItem{Name: "cheese", Quantity: 0.460, Price: 12.0, Total: 5.52}
	assert.InDelta(t, 5.52, precomputed.LineTotal(), 1e-9)
}

func TestReceipt_TouchIsMonotonic(t *testing.T) {
	r := Receipt{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	r.Touch(now)
	assert.Equal(t, now, r.UpdatedAt)

	// Wall clock stepping backwards must not move UpdatedAt back.
	r.Touch(now.Add(-time.Hour))
	assert.True(t, r.UpdatedAt.After(now.Add(-time.Hour)))
	assert.False(t, r.UpdatedAt.Before(now))

	prev := r.UpdatedAt
	r.Touch(now.Add(time.Minute))
	assert.True(t, r.UpdatedAt.After(prev))
}

func TestReceipt_NewerThanUsesMillisecondResolution(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	local := Receipt{UpdatedAt: base.Add(500 * time.Microsecond)}
	remote := Receipt{UpdatedAt: base}

	// Sub-millisecond difference is invisible to the comparison.
	assert.False(t, local.NewerThan(remote))
	assert.False(t, remote.NewerThan(local))

	local.UpdatedAt = base.Add(time.Millisecond)
	assert.True(t, local.NewerThan(remote))
}

func TestReceipt_NormalizedFillsOptionalFields(t *testing.T) {
	r := Receipt{Id: "r1", Store: "  SPAR  "}
	n := r.Normalized()

	assert.Equal(t, "SPAR", n.Store)
	assert.NotNil(t, n.Items)
	assert.NotNil(t, n.ExtraImages)
	assert.NotNil(t, n.Tags)
	assert.Empty(t, n.Items)

	// Source value is untouched.
	assert.Nil(t, r.Items)
}

func TestReceipt_NormalizedDedupesAndSortsTags(t *testing.T) {
	r := Receipt{Tags: []string{"food", " travel ", "food", "", "alcohol"}}
	assert.Equal(t, []string{"alcohol", "food", "travel"}, r.Normalized().Tags)
}

func TestReceipt_MinimalStripsHeavyFields(t *testing.T) {
	now := time.Now().UTC()
	r := Receipt{
		Id: "r1", Store: "SPAR", Date: "2025-03-01", Total: 12.5, Currency: "EUR",
		Items:       []LineItem{{Name: "milk", Quantity: 1, Price: 1.2}},
		Image:       "aGVhdnk=",
		ExtraImages: []string{"cGFnZTI="},
		Notes:       "team lunch",
		Tags:        []string{"work"},
		CreatedAt:   now, UpdatedAt: now,
	}

	m := r.Minimal()
	assert.Equal(t, r.Id, m.Id)
	assert.Equal(t, r.Store, m.Store)
	assert.Equal(t, r.Date, m.Date)
	assert.Equal(t, r.Total, m.Total)
	assert.Equal(t, r.UpdatedAt, m.UpdatedAt)
	assert.Empty(t, m.Image)
	assert.Empty(t, m.ExtraImages)
	assert.Empty(t, m.Items)
	assert.Empty(t, m.Notes)
	assert.Empty(t, m.Tags)
}
