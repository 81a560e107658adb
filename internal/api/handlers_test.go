package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/Veraticus/spicewatch/internal/pipeline"
	"github.com/Veraticus/spicewatch/internal/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	dispatchErr error
	dispatched  []model.Notification
	triggered   []string
	state       model.State
	mu          sync.Mutex
}

func (f *fakeProcessor) Dispatch(_ context.Context, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dispatchErr != nil {
		return f.dispatchErr
	}
	f.dispatched = append(f.dispatched, n)
	return nil
}

func (f *fakeProcessor) Trigger(_ context.Context, text string) model.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered = append(f.triggered, text)
	return f.state
}

type fakeHistory struct {
	err       error
	records   []model.SubmissionRecord
	lastLimit int
}

func (f *fakeHistory) RecentSubmissions(_ context.Context, limit int) ([]model.SubmissionRecord, error) {
	f.lastLimit = limit
	return f.records, f.err
}

func newTestServer(processor Processor, events EventLog, history History) http.Handler {
	reg := prometheus.NewRegistry()
	pipeline.NewMetrics(reg)
	handler := NewHandler(processor, events, history, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), common.DiscardLogger())
	return NewServer(handler)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostNotification(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantQueued bool
	}{
		{
			name:       "accepted",
			body:       `{"sourceId":"com.google.android.gm","text":"{\"merchant\":\"Cafe\",\"amt\":4.5}"}`,
			wantStatus: http.StatusAccepted,
			wantQueued: true,
		},
		{
			name:       "malformed json",
			body:       `{"sourceId":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing source",
			body:       `{"text":"hello"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &fakeProcessor{}
			rec := do(t, newTestServer(processor, nil, nil), http.MethodPost, "/api/v1/notifications", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantQueued {
				require.Len(t, processor.dispatched, 1)
				assert.Equal(t, "com.google.android.gm", processor.dispatched[0].SourceID)
				assert.False(t, processor.dispatched[0].ArrivalTime.IsZero())
			} else {
				assert.Empty(t, processor.dispatched)
			}
		})
	}
}

func TestPostNotification_PipelineClosed(t *testing.T) {
	processor := &fakeProcessor{dispatchErr: pipeline.ErrPipelineClosed}
	rec := do(t, newTestServer(processor, nil, nil), http.MethodPost, "/api/v1/notifications", `{"sourceId":"x","text":"y"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	processor.dispatchErr = errors.New("boom")
	rec = do(t, newTestServer(processor, nil, nil), http.MethodPost, "/api/v1/notifications", `{"sourceId":"x","text":"y"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPostTrigger(t *testing.T) {
	processor := &fakeProcessor{state: model.StateSucceeded}
	server := newTestServer(processor, nil, nil)

	rec := do(t, server, http.MethodPost, "/api/v1/trigger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"succeeded"}`, rec.Body.String())

	rec = do(t, server, http.MethodPost, "/api/v1/trigger", `{"text":"merchant=Cafe, amount=3"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, server, http.MethodPost, "/api/v1/trigger", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{"", "merchant=Cafe, amount=3"}, processor.triggered)
}

func TestListEvents(t *testing.T) {
	events := sink.NewMemorySink(10)
	for _, text := range []string{"one", "two", "three"} {
		events.Emit(context.Background(), model.StatusEvent{Title: model.TitleProcessed, Text: text})
	}
	server := newTestServer(&fakeProcessor{}, events, nil)

	rec := do(t, server, http.MethodGet, "/api/v1/events?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []model.StatusEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, "two", body.Events[0].Text)
	assert.Equal(t, "three", body.Events[1].Text)

	rec = do(t, server, http.MethodGet, "/api/v1/events?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestServer(&fakeProcessor{}, nil, nil), http.MethodGet, "/api/v1/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[]}`, rec.Body.String())
}

func TestListSubmissions(t *testing.T) {
	score := 0.4
	history := &fakeHistory{records: []model.SubmissionRecord{{
		ID:            1,
		TransactionID: "txn-1",
		AccountID:     "acct",
		Merchant:      "Cafe",
		Amount:        4.5,
		Succeeded:     true,
		StatusCode:    200,
		FraudScore:    &score,
		SubmittedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}}
	server := newTestServer(&fakeProcessor{}, nil, history)

	rec := do(t, server, http.MethodGet, "/api/v1/submissions?limit=1000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxListLimit, history.lastLimit)

	var body struct {
		Submissions []submissionResponse `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Submissions, 1)
	assert.Equal(t, "txn-1", body.Submissions[0].TransactionID)
	require.NotNil(t, body.Submissions[0].FraudScore)
	assert.InDelta(t, 0.4, *body.Submissions[0].FraudScore, 0.0001)

	history.err = errors.New("db locked")
	rec = do(t, server, http.MethodGet, "/api/v1/submissions", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, defaultListLimit, history.lastLimit)

	rec = do(t, newTestServer(&fakeProcessor{}, nil, nil), http.MethodGet, "/api/v1/submissions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	server := newTestServer(&fakeProcessor{}, nil, nil)

	rec := do(t, server, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = do(t, server, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spicewatch_notifications_total")
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, DefaultServerConfig("127.0.0.1:0"), http.NotFoundHandler(), common.DiscardLogger())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
