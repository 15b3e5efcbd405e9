package remote

import (
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
)

// document is the wire shape of a receipt in the cloud store. Every field is
// always present (no omitempty): the server distinguishes "explicitly empty"
// from "missing" and rejects documents with missing declared fields.
// Timestamps travel as unix milliseconds, the resolution used for conflict
// comparison.
type document struct {
	Id          string            `json:"id"`
	Store       string            `json:"store"`
	Date        string            `json:"date"`
	Total       float64           `json:"total"`
	Currency    string            `json:"currency"`
	Items       []models.LineItem `json:"items"`
	Image       string            `json:"image"`
	ExtraImages []string          `json:"extraImages"`
	Notes       string            `json:"notes"`
	Tags        []string          `json:"tags"`
	CreatedAt   int64             `json:"createdAt"`
	UpdatedAt   int64             `json:"updatedAt"`
}

func documentFromReceipt(r models.Receipt) document {
	return document{
		Id:          r.Id,
		Store:       r.Store,
		Date:        r.Date,
		Total:       r.Total,
		Currency:    r.Currency,
		Items:       r.Items,
		Image:       r.Image,
		ExtraImages: r.ExtraImages,
		Notes:       r.Notes,
		Tags:        r.Tags,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}
}

func (d document) toReceipt() models.Receipt {
	return models.Receipt{
		Id:          d.Id,
		Store:       d.Store,
		Date:        d.Date,
		Total:       d.Total,
		Currency:    d.Currency,
		Items:       d.Items,
		Image:       d.Image,
		ExtraImages: d.ExtraImages,
		Notes:       d.Notes,
		Tags:        d.Tags,
		CreatedAt:   time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(d.UpdatedAt).UTC(),
	}
}
