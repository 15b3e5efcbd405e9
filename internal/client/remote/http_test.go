package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreForServer(t *testing.T, handler http.Handler) *HTTPStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := NewHTTPStore(srv.URL, 2*time.Second)
	s.SetToken("tok-123")
	return s
}

func TestGetAll_DecodesDocumentsAndSendsToken(t *testing.T) {
	var gotAuth string
	s := newStoreForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/receipts", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]document{{
			Id: "r1", Store: "SPAR", Date: "2025-03-01", Total: 9.99,
			Items: []models.LineItem{}, ExtraImages: []string{}, Tags: []string{},
			CreatedAt: 1000, UpdatedAt: 2000,
		}})
	}))

	recs, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "r1", recs[0].Id)
	assert.Equal(t, int64(2000), recs[0].UpdatedAtMilli())
}

func TestPut_SendsFullDocument(t *testing.T) {
	var got document
	s := newStoreForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/receipts/r1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	rec := models.Receipt{
		Id: "r1", Store: "SPAR", Date: "2025-03-01", Total: 9.99,
		UpdatedAt: time.UnixMilli(2000).UTC(),
	}
	require.NoError(t, s.Put(context.Background(), rec.Normalized()))

	assert.Equal(t, "r1", got.Id)
	assert.Equal(t, int64(2000), got.UpdatedAt)
	// Normalized receipts serialize optional fields as explicitly empty.
	assert.NotNil(t, got.Items)
	assert.NotNil(t, got.Tags)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, common.ErrorNotFound},
		{"bad request", http.StatusBadRequest, common.ErrorValidation},
		{"unprocessable", http.StatusUnprocessableEntity, common.ErrorValidation},
		{"unauthorized", http.StatusUnauthorized, common.ErrorUnauthorized},
		{"server error", http.StatusInternalServerError, common.ErrorUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStoreForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			err := s.Delete(context.Background(), "r1")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTransportFailure_IsConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse all connections

	s := NewHTTPStore(srv.URL, time.Second)
	_, err := s.GetAll(context.Background())
	assert.ErrorIs(t, err, common.ErrorConnectivity)
}

func TestProbe(t *testing.T) {
	healthy := newStoreForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	assert.True(t, healthy.Probe(context.Background()))

	down := newStoreForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	assert.False(t, down.Probe(context.Background()))

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	unreachable := NewHTTPStore(srv.URL, time.Second)
	assert.False(t, unreachable.Probe(context.Background()))
}
