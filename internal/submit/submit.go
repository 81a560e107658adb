// Package submit posts enriched transactions to the fraud-scoring service.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/Veraticus/spicewatch/internal/model"
)

// SuccessMessage is the outcome message for an accepted submission.
const SuccessMessage = "Notification transaction processed successfully"

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodyLen  = 512
	maxResponseBytes = 1 << 20
)

// Config holds the scoring endpoint settings.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// HTTPSubmitter submits transactions with a single POST per call.
type HTTPSubmitter struct {
	httpClient *http.Client
	logger     *slog.Logger
	url        string
	token      string
}

// New creates an HTTPSubmitter posting to <endpoint>/transactions.
func New(cfg Config, logger *slog.Logger) (*HTTPSubmitter, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: submit endpoint", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPSubmitter{
		url:        endpoint + "/transactions",
		token:      cfg.Token,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// URL returns the full submission URL.
func (s *HTTPSubmitter) URL() string {
	return s.url
}

// Submit posts txn once and reports the outcome. It never returns an error;
// transport failures are folded into a failed outcome.
func (s *HTTPSubmitter) Submit(ctx context.Context, txn model.EnrichedTransaction) model.SubmissionOutcome {
	body, err := json.Marshal(newRequest(txn))
	if err != nil {
		return transportFailure(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return transportFailure(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("submission transport failure",
			"transaction_id", txn.TransactionID,
			"error", err)
		return transportFailure(fmt.Errorf("%w: %v", common.ErrTransport, err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := readBody(resp.Body)
	if err != nil {
		return transportFailure(fmt.Errorf("%w: failed to read response: %v", common.ErrTransport, err))
	}

	s.logger.Debug("submission completed",
		"transaction_id", txn.TransactionID,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.SubmissionOutcome{
			Succeeded:  false,
			StatusCode: resp.StatusCode,
			Message:    "Error: " + errorDetail(resp, respBody),
		}
	}

	outcome := model.SubmissionOutcome{
		Succeeded:  true,
		StatusCode: resp.StatusCode,
		Message:    SuccessMessage,
	}

	var score model.Score
	if len(bytes.TrimSpace(respBody)) > 0 && json.Unmarshal(respBody, &score) == nil {
		if score.FraudScore != nil || score.FraudThreshold != nil || score.Prediction != nil {
			outcome.Score = &score
		}
	}
	return outcome
}

// readBody reads at most maxResponseBytes of a scoring response.
func readBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxResponseBytes))
}

func transportFailure(err error) model.SubmissionOutcome {
	return model.SubmissionOutcome{
		Succeeded: false,
		Message:   "Exception: " + err.Error(),
	}
}

func errorDetail(resp *http.Response, body []byte) string {
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return resp.Status
	}
	if len(detail) > maxErrorBodyLen {
		detail = detail[:maxErrorBodyLen] + "..."
	}
	return detail
}
