package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/Veraticus/spicewatch/internal/pipeline"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// Processor is the part of the pipeline the API drives.
type Processor interface {
	Dispatch(ctx context.Context, n model.Notification) error
	Trigger(ctx context.Context, text string) model.State
}

// EventLog returns recently emitted status events.
type EventLog interface {
	Recent(n int) []model.StatusEvent
}

// History returns journaled submissions.
type History interface {
	RecentSubmissions(ctx context.Context, limit int) ([]model.SubmissionRecord, error)
}

// Handler handles HTTP requests for the notification API.
type Handler struct {
	processor Processor
	events    EventLog
	history   History
	metrics   http.Handler
	logger    *slog.Logger
	started   time.Time
}

// NewHandler creates a new API handler. events, history and metrics may be nil.
func NewHandler(processor Processor, events EventLog, history History, metrics http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		processor: processor,
		events:    events,
		history:   history,
		metrics:   metrics,
		logger:    logger,
		started:   time.Now(),
	}
}

type triggerRequest struct {
	Text string `json:"text"`
}

type submissionResponse struct {
	SubmittedAt   time.Time `json:"submittedAt"`
	FraudScore    *float64  `json:"fraudScore,omitempty"`
	TransactionID string    `json:"transactionId"`
	AccountID     string    `json:"accountId"`
	Merchant      string    `json:"merchant"`
	Message       string    `json:"message"`
	Amount        float64   `json:"amount"`
	StatusCode    int       `json:"statusCode"`
	Succeeded     bool      `json:"succeeded"`
}

// PostNotification queues a raw notification for processing.
func (h *Handler) PostNotification(c *gin.Context) {
	var n model.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification: " + err.Error()})
		return
	}
	if strings.TrimSpace(n.SourceID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceId is required"})
		return
	}
	if n.ArrivalTime.IsZero() {
		n.ArrivalTime = time.Now()
	}

	if err := h.processor.Dispatch(c.Request.Context(), n); err != nil {
		if errors.Is(err, pipeline.ErrPipelineClosed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pipeline is shutting down"})
			return
		}
		h.logger.Error("dispatch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dispatch failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// PostTrigger runs a manual trigger and reports the terminal state. An empty
// body uses the sample transaction.
func (h *Handler) PostTrigger(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trigger request: " + err.Error()})
			return
		}
	}

	state := h.processor.Trigger(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// ListEvents returns recent status events, oldest first.
func (h *Handler) ListEvents(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusOK, gin.H{"events": []model.StatusEvent{}})
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	events := h.events.Recent(limit)
	if events == nil {
		events = []model.StatusEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ListSubmissions returns journaled submissions, newest first.
func (h *Handler) ListSubmissions(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission journal is not configured"})
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	records, err := h.history.RecentSubmissions(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load submissions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load submissions"})
		return
	}

	out := make([]submissionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, submissionResponse{
			SubmittedAt:   r.SubmittedAt,
			FraudScore:    r.FraudScore,
			TransactionID: r.TransactionID,
			AccountID:     r.AccountID,
			Merchant:      r.Merchant,
			Message:       r.Message,
			Amount:        r.Amount,
			StatusCode:    r.StatusCode,
			Succeeded:     r.Succeeded,
		})
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}

// HealthCheck handles the health check endpoint.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}

// Metrics serves the Prometheus exposition.
func (h *Handler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}
