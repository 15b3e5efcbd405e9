package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/common"
)

const receiptsPath = "/api/v1/receipts"

// HTTPStore talks to the cloud document API. The per-request timeout bounds
// every call so a single hung request cannot stall a whole reconciliation
// pass.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPStore returns a store rooted at baseURL. A zero timeout falls back
// to 15 seconds.
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SetToken installs the session token used to authenticate subsequent calls.
func (s *HTTPStore) SetToken(token string) {
	s.token = token
}

func (s *HTTPStore) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// do executes the request and maps the result onto the error taxonomy. A
// transport failure means the remote is unreachable; HTTP statuses map per
// classifyStatus. On success the body is decoded into out when out is
// non-nil.
func (s *HTTPStore) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s: %s", classifyStatus(resp.StatusCode), resp.Status, bytes.TrimSpace(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", common.ErrorUnknown, err)
		}
	}
	return nil
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return common.ErrorNotFound
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return common.ErrorValidation
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return common.ErrorUnauthorized
	default:
		return common.ErrorUnknown
	}
}

// GetAll fetches the caller's full remote record set.
func (s *HTTPStore) GetAll(ctx context.Context) ([]models.Receipt, error) {
	req, err := s.newRequest(ctx, http.MethodGet, receiptsPath, nil)
	if err != nil {
		return nil, err
	}
	var docs []document
	if err := s.do(req, &docs); err != nil {
		return nil, err
	}
	result := make([]models.Receipt, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toReceipt())
	}
	return result, nil
}

// Get fetches one receipt by identifier.
func (s *HTTPStore) Get(ctx context.Context, id string) (*models.Receipt, error) {
	req, err := s.newRequest(ctx, http.MethodGet, receiptsPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := s.do(req, &doc); err != nil {
		return nil, err
	}
	r := doc.toReceipt()
	return &r, nil
}

// Put creates or fully overwrites the document with the receipt's id.
func (s *HTTPStore) Put(ctx context.Context, r models.Receipt) error {
	req, err := s.newRequest(ctx, http.MethodPut, receiptsPath+"/"+r.Id, documentFromReceipt(r))
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

// Delete removes the document with the given identifier.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, receiptsPath+"/"+id, nil)
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

// Probe performs a minimal read against the health endpoint. Any error at
// all, transport or HTTP, reads as offline.
func (s *HTTPStore) Probe(ctx context.Context) bool {
	req, err := s.newRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return false
	}
	return s.do(req, nil) == nil
}
