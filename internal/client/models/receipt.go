// Package models defines client-side data models used by the Kvits CLI.
package models

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the storage/wire format for transaction dates. The date is
// business-meaningful (when the purchase happened), distinct from the
// bookkeeping timestamps.
const DateLayout = "2006-01-02"

// LineItem is a single purchased position on a receipt. It is owned by its
// parent Receipt and has no independent lifecycle.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	// Total is the pre-computed line total when the source (OCR or user)
	// provided one. Use LineTotal to read the effective value.
	Total float64 `json:"total"`
}

// LineTotal returns the stored total, or quantity × unit price when no
// pre-computed total is present.
func (li LineItem) LineTotal() float64 {
	if li.Total != 0 {
		return li.Total
	}
	return li.Quantity * li.Price
}

// Receipt is the central record representing one purchase transaction.
//
// Id is client-generated, immutable, and is the join key between the local
// and remote stores. UpdatedAt is the sole conflict-resolution signal and is
// compared at millisecond resolution; it never decreases over the record's
// lifetime.
type Receipt struct {
	Id       string     `json:"id"`
	Store    string     `json:"store"`
	Date     string     `json:"date"`
	Total    float64    `json:"total"`
	Currency string     `json:"currency"`
	Items    []LineItem `json:"items"`

	// Image holds the primary receipt photo, base64-encoded. ExtraImages
	// carries additional pages of a multi-page receipt.
	Image       string   `json:"image"`
	ExtraImages []string `json:"extraImages"`

	Notes string   `json:"notes"`
	Tags  []string `json:"tags"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Touch advances UpdatedAt to now, keeping it monotonically non-decreasing
// even when the wall clock steps backwards between writes.
func (r *Receipt) Touch(now time.Time) {
	now = now.UTC()
	if now.After(r.UpdatedAt) {
		r.UpdatedAt = now
		return
	}
	r.UpdatedAt = r.UpdatedAt.Add(time.Millisecond)
}

// UpdatedAtMilli returns the conflict-resolution timestamp truncated to
// millisecond resolution, the precision used when comparing local and remote
// copies.
func (r Receipt) UpdatedAtMilli() int64 {
	return r.UpdatedAt.UnixMilli()
}

// NewerThan reports whether r was modified strictly later than other, at
// millisecond resolution.
func (r Receipt) NewerThan(other Receipt) bool {
	return r.UpdatedAtMilli() > other.UpdatedAtMilli()
}

// Normalized returns a copy with every optional field set to an explicit
// empty value: nil slices become empty slices, tags are deduplicated and
// sorted, whitespace is trimmed from the store name. The remote store rejects
// whole documents containing literal missing values for declared optional
// fields, so every remote put goes through this first.
func (r Receipt) Normalized() Receipt {
	out := r
	out.Store = strings.TrimSpace(r.Store)
	if out.Items == nil {
		out.Items = []LineItem{}
	}
	if out.ExtraImages == nil {
		out.ExtraImages = []string{}
	}
	out.Tags = dedupeTags(r.Tags)
	return out
}

// Minimal returns the reduced copy used to retry a remote write after a
// validation rejection: identifier, store name, date, total and both
// timestamps survive; images, line items, notes and tags are stripped.
func (r Receipt) Minimal() Receipt {
	return Receipt{
		Id:          r.Id,
		Store:       r.Store,
		Date:        r.Date,
		Total:       r.Total,
		Currency:    r.Currency,
		Items:       []LineItem{},
		ExtraImages: []string{},
		Tags:        []string{},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// dedupeTags drops empty and duplicate tags and returns them sorted, so that
// two receipts with the same tag set compare equal regardless of input order.
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
