// Package clients holds the external collaborators of the fraud engine:
// the remote score advisor and the customer directory used for age lookups.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/finbridge/paybridge/internal/entities"
)

// ScoreAdvisorClient calls a remote fraud advisory API for a score
// adjustment on top of the rule-based baseline. The client is disabled
// when credentials are missing, and callers must treat every failure as
// "no adjustment".
type ScoreAdvisorClient struct {
	logger    *slog.Logger
	apiKey    string
	apiURL    string
	client    *http.Client
	isEnabled bool
}

// NewScoreAdvisorClient builds the client. Empty apiKey or apiURL leaves
// it disabled, which is the normal state in local and test environments.
func NewScoreAdvisorClient(logger *slog.Logger, apiKey, apiURL string) *ScoreAdvisorClient {
	isEnabled := apiKey != "" && apiURL != ""

	if !isEnabled {
		logger.Warn("Score advisor is disabled due to missing credentials")
	} else {
		logger.Info("Score advisor initialized", "api_url", apiURL)
	}

	return &ScoreAdvisorClient{
		logger:    logger,
		apiKey:    apiKey,
		apiURL:    apiURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		isEnabled: isEnabled,
	}
}

// IsEnabled reports whether the client has credentials to call the API.
func (s *ScoreAdvisorClient) IsEnabled() bool {
	return s.isEnabled
}

type advisorRequest struct {
	TransactionID  string `json:"transaction_id"`
	SourceFormat   string `json:"source_format"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	SenderName     string `json:"sender_name"`
	RecipientName  string `json:"recipient_name"`
	RemittanceInfo string `json:"remittance_info"`
	CustomerAge    *int   `json:"customer_age,omitempty"`
}

type advisorResponse struct {
	ScoreDelta int      `json:"score_delta"`
	Signals    []string `json:"signals"`
}

// AdjustScore asks the advisory API for a delta and extra signals for one
// transaction. Errors are returned as-is; the caller keeps the baseline.
func (s *ScoreAdvisorClient) AdjustScore(ctx context.Context, tx entities.NormalizedTransaction, age *int) (*entities.ScoreAdjustment, error) {
	if !s.isEnabled {
		return &entities.ScoreAdjustment{}, nil
	}

	payload, err := json.Marshal(advisorRequest{
		TransactionID:  tx.TransactionID,
		SourceFormat:   string(tx.SourceFormat),
		Amount:         tx.Amount.StringFixed(2),
		Currency:       tx.Currency,
		SenderName:     tx.Sender.Name,
		RecipientName:  tx.Recipient.Name,
		RemittanceInfo: tx.RemittanceInfo,
		CustomerAge:    age,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal advisor request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/score/adjust", s.apiURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call score advisor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("score advisor returned status %d: %s", resp.StatusCode, string(body))
	}

	var result advisorResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode advisor response: %w", err)
	}

	s.logger.InfoContext(ctx, "Score advisor responded",
		"transaction_id", tx.TransactionID,
		"score_delta", result.ScoreDelta,
		"signals", len(result.Signals))

	return &entities.ScoreAdjustment{
		ScoreDelta:        result.ScoreDelta,
		AdditionalSignals: result.Signals,
	}, nil
}
