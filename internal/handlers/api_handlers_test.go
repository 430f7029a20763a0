package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbridge/paybridge/internal/entities"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResult(flagged bool) *entities.TransformResult {
	return &entities.TransformResult{
		XML: `<?xml version="1.0" encoding="UTF-8"?>` + "\n<Document></Document>\n",
		Transaction: entities.NormalizedTransaction{
			TransactionID: "TRX123456",
			SourceFormat:  entities.FormatMT103,
			Amount:        decimal.NewFromInt(2500),
			Currency:      "USD",
		},
		Fraud: entities.FraudResult{
			Score:   80,
			Flagged: flagged,
			Signals: []string{},
		},
	}
}

type stubTransformService struct {
	result      *entities.TransformResult
	err         error
	lastFormat  entities.MessageFormat
	lastContent string
}

func (s *stubTransformService) Transform(_ context.Context, format entities.MessageFormat, content string) (*entities.TransformResult, error) {
	s.lastFormat = format
	s.lastContent = content
	return s.result, s.err
}

func (s *stubTransformService) TransformBatch(ctx context.Context, format entities.MessageFormat, contents []string) *entities.BatchResult {
	batch := &entities.BatchResult{}
	for i := range contents {
		result, err := s.Transform(ctx, format, contents[i])
		item := entities.BatchItemResult{Index: i}
		if err != nil {
			item.Error = err.Error()
			batch.Failed++
		} else {
			item.Result = result
			batch.Succeeded++
		}
		batch.Items = append(batch.Items, item)
	}
	return batch
}

func (s *stubTransformService) TransformEntries(_ context.Context, _ string) ([]*entities.TransformResult, []string, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return []*entities.TransformResult{s.result, s.result}, []string{"batch control credit total mismatch"}, nil
}

type stubRecordStore struct {
	saved   []*entities.TransformResult
	records []entities.TransformRecord
	err     error
}

func (s *stubRecordStore) SaveRecord(_ context.Context, result *entities.TransformResult) error {
	s.saved = append(s.saved, result)
	return s.err
}

func (s *stubRecordStore) RecentRecords(_ context.Context, _ int) ([]entities.TransformRecord, error) {
	return s.records, s.err
}

func (s *stubRecordStore) DeleteRecordsOlderThan(_ context.Context, _ int) (int64, error) {
	return 0, s.err
}

type stubAlertPublisher struct {
	published []*entities.TransformResult
}

func (s *stubAlertPublisher) PublishAlert(result *entities.TransformResult) {
	s.published = append(s.published, result)
}

func newTestRouter(h *HTTPHandler) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func TestTransformMT103Endpoint(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	store := &stubRecordStore{}
	h := NewHTTPHandler(testLogger(), service, store, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/mt103", strings.NewReader(":20:TRX123456"))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.FormatMT103, service.lastFormat)
	assert.Equal(t, ":20:TRX123456", service.lastContent)

	var result entities.TransformResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "TRX123456", result.Transaction.TransactionID)

	// The result was persisted.
	require.Len(t, store.saved, 1)
}

func TestTransformEndpointXMLResponse(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/mt103?response=xml", strings.NewReader(":20:REF"))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<Document>")
}

func TestTransformEndpointEmptyBody(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/nacha", strings.NewReader(""))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransformEndpointServiceError(t *testing.T) {
	service := &stubTransformService{err: errors.New("boom")}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/mt103", strings.NewReader(":20:REF"))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTransformFlaggedResultPublishesAlert(t *testing.T) {
	service := &stubTransformService{result: sampleResult(true)}
	alerts := &stubAlertPublisher{}
	h := NewHTTPHandler(testLogger(), service, nil, alerts)

	req := httptest.NewRequest(http.MethodPost, "/transform/mt103", strings.NewReader(":20:REF"))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, alerts.published, 1)
	assert.Equal(t, "TRX123456", alerts.published[0].Transaction.TransactionID)
}

func TestTransformBatchEndpoint(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	body, err := json.Marshal(batchRequest{
		Format:   "MT103",
		Messages: []string{":20:A", ":20:B"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/transform/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var batch entities.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 0, batch.Failed)
	assert.Len(t, batch.Items, 2)
}

func TestTransformBatchRejectsUnknownFormat(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/batch",
		strings.NewReader(`{"format":"EDIFACT","messages":["x"]}`))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransformBatchRejectsEmptyBatch(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/batch",
		strings.NewReader(`{"format":"MT103","messages":[]}`))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransformNACHAFileEndpoint(t *testing.T) {
	service := &stubTransformService{result: sampleResult(false)}
	h := NewHTTPHandler(testLogger(), service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/transform/nacha/file", strings.NewReader("5...\n6..."))
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp nachaFileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)
	assert.Len(t, resp.Warnings, 1)
}

func TestRecentRecordsEndpoint(t *testing.T) {
	store := &stubRecordStore{records: []entities.TransformRecord{
		{ID: 1, TransactionID: "TRX123456", SourceFormat: "MT103", FraudScore: 80},
	}}
	h := NewHTTPHandler(testLogger(), &stubTransformService{}, store, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/recent?limit=5", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var records []entities.TransformRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "TRX123456", records[0].TransactionID)
}

func TestRecentRecordsInvalidLimit(t *testing.T) {
	h := NewHTTPHandler(testLogger(), &stubTransformService{}, &stubRecordStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/recent?limit=abc", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentRecordsWithoutStore(t *testing.T) {
	h := NewHTTPHandler(testLogger(), &stubTransformService{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/recent", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHTTPHandler(testLogger(), &stubTransformService{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
