package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/finbridge/paybridge/internal/core/ports"
	"github.com/finbridge/paybridge/internal/entities"
)

const (
	maxMessageBytes      = 1 << 20 // 1 MiB per legacy message
	defaultRecentLimit   = 20
	maxRecentLimit       = 200
	contentTypeJSON      = "application/json"
	contentTypeXML       = "application/xml"
	responseFormatParam  = "response"
	responseFormatXML    = "xml"
	maxBatchMessageCount = 500
)

type HTTPHandler struct {
	logger    *slog.Logger
	transform ports.TransformService
	records   ports.RecordStore
	alerts    ports.AlertPublisher
}

// NewHTTPHandler wires the transformation API. records and alerts may be
// nil; the transform endpoints then run without persistence or alerting.
func NewHTTPHandler(logger *slog.Logger, transform ports.TransformService, records ports.RecordStore, alerts ports.AlertPublisher) *HTTPHandler {
	return &HTTPHandler{
		logger:    logger,
		transform: transform,
		records:   records,
		alerts:    alerts,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	// Transformations
	router.HandleFunc("/transform/mt103", h.TransformMT103).Methods("POST")
	router.HandleFunc("/transform/nacha", h.TransformNACHA).Methods("POST")
	router.HandleFunc("/transform/nacha/file", h.TransformNACHAFile).Methods("POST")
	router.HandleFunc("/transform/batch", h.TransformBatch).Methods("POST")

	// Records
	router.HandleFunc("/records/recent", h.RecentRecords).Methods("GET")

	// Health
	router.HandleFunc("/health", h.Health).Methods("GET")
}

// TransformMT103 converts one MT103 message posted as the raw body.
func (h *HTTPHandler) TransformMT103(w http.ResponseWriter, r *http.Request) {
	h.transformSingle(w, r, entities.FormatMT103)
}

// TransformNACHA converts the first entry of a NACHA file posted as the
// raw body. Whole-file conversion lives at /transform/nacha/file.
func (h *HTTPHandler) TransformNACHA(w http.ResponseWriter, r *http.Request) {
	h.transformSingle(w, r, entities.FormatNACHA)
}

func (h *HTTPHandler) transformSingle(w http.ResponseWriter, r *http.Request, format entities.MessageFormat) {
	content, ok := h.readBody(w, r)
	if !ok {
		return
	}

	result, err := h.transform.Transform(r.Context(), format, content)
	if err != nil {
		if errors.Is(err, entities.ErrUnsupportedFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Transformation failed", "error", err, "format", format)
		http.Error(w, "Transformation failed", http.StatusInternalServerError)
		return
	}

	h.afterTransform(r, result)

	if r.URL.Query().Get(responseFormatParam) == responseFormatXML {
		w.Header().Set("Content-Type", contentTypeXML)
		io.WriteString(w, result.XML)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Format   string   `json:"format"`
	Messages []string `json:"messages"`
}

// TransformBatch converts many messages of one format in a single call.
func (h *HTTPHandler) TransformBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes*8)).Decode(&req); err != nil {
		http.Error(w, "Invalid batch request body", http.StatusBadRequest)
		return
	}

	format, err := entities.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Messages) == 0 {
		http.Error(w, "Batch contains no messages", http.StatusBadRequest)
		return
	}
	if len(req.Messages) > maxBatchMessageCount {
		http.Error(w, "Batch exceeds the message limit", http.StatusRequestEntityTooLarge)
		return
	}

	batch := h.transform.TransformBatch(r.Context(), format, req.Messages)

	for _, item := range batch.Items {
		if item.Result != nil {
			h.afterTransform(r, item.Result)
		}
	}

	h.writeJSON(w, http.StatusOK, batch)
}

type nachaFileResponse struct {
	Results  []*entities.TransformResult `json:"results"`
	Warnings []string                    `json:"warnings,omitempty"`
}

// TransformNACHAFile converts every entry detail record of the posted
// NACHA file and reports file-level warnings.
func (h *HTTPHandler) TransformNACHAFile(w http.ResponseWriter, r *http.Request) {
	content, ok := h.readBody(w, r)
	if !ok {
		return
	}

	results, warnings, err := h.transform.TransformEntries(r.Context(), content)
	if err != nil {
		h.logger.Error("NACHA file transformation failed", "error", err)
		http.Error(w, "Transformation failed", http.StatusInternalServerError)
		return
	}

	for _, result := range results {
		h.afterTransform(r, result)
	}

	h.writeJSON(w, http.StatusOK, nachaFileResponse{Results: results, Warnings: warnings})
}

// RecentRecords returns the newest persisted transformations.
func (h *HTTPHandler) RecentRecords(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		http.Error(w, "Record store is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := defaultRecentLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	records, err := h.records.RecentRecords(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load recent records", "error", err)
		http.Error(w, "Failed to retrieve records", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []entities.TransformRecord{}
	}

	h.writeJSON(w, http.StatusOK, records)
}

func (h *HTTPHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// afterTransform persists the result and publishes it to the alert feed.
// Neither failure reaches the client; the transformation already
// succeeded and its result is the response.
func (h *HTTPHandler) afterTransform(r *http.Request, result *entities.TransformResult) {
	if h.records != nil {
		if err := h.records.SaveRecord(r.Context(), result); err != nil {
			h.logger.Error("Failed to persist transform record",
				"error", err,
				"transaction_id", result.Transaction.TransactionID)
		}
	}

	if h.alerts != nil && result.Fraud.Flagged {
		h.alerts.PublishAlert(result)
	}
}

func (h *HTTPHandler) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return "", false
	}
	if len(body) == 0 {
		http.Error(w, "Request body is empty", http.StatusBadRequest)
		return "", false
	}
	return string(body), true
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
