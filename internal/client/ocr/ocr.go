// Package ocr defines the receipt-extraction boundary. The extraction
// service is a black box: given a receipt photo it returns a best-effort
// structured receipt or an error. Callers own the fallback to manual entry.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
)

// Extractor turns a raw receipt image into a structured receipt. The result
// carries no identifier or bookkeeping timestamps; the caller assigns those.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*models.Receipt, error)
}

// HTTPExtractor posts images to an extraction endpoint.
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExtractor(baseURL string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExtractor{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Store    string            `json:"store"`
	Date     string            `json:"date"`
	Total    float64           `json:"total"`
	Currency string            `json:"currency"`
	Items    []models.LineItem `json:"items"`
}

// Extract sends the image (base64-encoded) and maps the response onto a
// receipt. Any transport or HTTP failure is returned as-is; the extraction
// boundary has no retry or taxonomy of its own.
func (e *HTTPExtractor) Extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	body, err := json.Marshal(extractRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("extraction failed: %s: %s", resp.Status, bytes.TrimSpace(b))
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	return &models.Receipt{
		Store:    parsed.Store,
		Date:     parsed.Date,
		Total:    parsed.Total,
		Currency: parsed.Currency,
		Items:    parsed.Items,
	}, nil
}
