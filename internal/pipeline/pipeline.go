// Package pipeline runs notifications through filter, extraction, dedupe,
// enrichment and submission, reporting each outcome to an event sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/spicewatch/internal/dedupe"
	"github.com/Veraticus/spicewatch/internal/extract"
	"github.com/Veraticus/spicewatch/internal/filter"
	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/Veraticus/spicewatch/internal/sink"
	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 8

// ErrPipelineClosed is returned by Dispatch after Wait has been called.
var ErrPipelineClosed = errors.New("pipeline closed")

// Enricher attaches account and location data to a candidate.
type Enricher interface {
	Enrich(ctx context.Context, candidate model.Candidate) (model.EnrichedTransaction, error)
}

// Submitter sends an enriched transaction to the scoring service once.
type Submitter interface {
	Submit(ctx context.Context, txn model.EnrichedTransaction) model.SubmissionOutcome
}

// Journal records submission outcomes.
type Journal interface {
	RecordSubmission(ctx context.Context, record *model.SubmissionRecord) error
}

// Deps are the stages a Pipeline wires together. Journal and Metrics are optional.
type Deps struct {
	Filter    *filter.Filter
	Extractor extract.Extractor
	Dedupe    *dedupe.Deduplicator
	Enricher  Enricher
	Submitter Submitter
	Sink      sink.EventSink
	Journal   Journal
	Metrics   *Metrics
	Logger    *slog.Logger
}

// Options tune a Pipeline.
type Options struct {
	Workers     int
	DebugEvents bool
}

// Pipeline processes notifications. Handle runs one inline; Dispatch queues
// one onto the worker pool.
type Pipeline struct {
	filter      *filter.Filter
	extractor   extract.Extractor
	dedupe      *dedupe.Deduplicator
	enricher    Enricher
	submitter   Submitter
	sink        sink.EventSink
	journal     Journal
	metrics     *Metrics
	logger      *slog.Logger
	workers     *pool.Pool
	now         func() time.Time
	drained     chan struct{}
	closeOnce   sync.Once
	mu          sync.Mutex
	closed      bool
	debugEvents bool
}

// New validates deps and builds a Pipeline.
func New(deps Deps, opts Options) (*Pipeline, error) {
	switch {
	case deps.Filter == nil:
		return nil, fmt.Errorf("pipeline: filter is required")
	case deps.Extractor == nil:
		return nil, fmt.Errorf("pipeline: extractor is required")
	case deps.Dedupe == nil:
		return nil, fmt.Errorf("pipeline: deduplicator is required")
	case deps.Enricher == nil:
		return nil, fmt.Errorf("pipeline: enricher is required")
	case deps.Submitter == nil:
		return nil, fmt.Errorf("pipeline: submitter is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	eventSink := deps.Sink
	if eventSink == nil {
		eventSink = sink.Discard{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Pipeline{
		filter:      deps.Filter,
		extractor:   deps.Extractor,
		dedupe:      deps.Dedupe,
		enricher:    deps.Enricher,
		submitter:   deps.Submitter,
		sink:        eventSink,
		journal:     deps.Journal,
		metrics:     deps.Metrics,
		logger:      logger,
		workers:     pool.New().WithMaxGoroutines(workers),
		now:         time.Now,
		drained:     make(chan struct{}),
		debugEvents: opts.DebugEvents,
	}, nil
}

// Handle processes one notification to a terminal state. Cancelling ctx
// does not interrupt an instance that has started.
func (p *Pipeline) Handle(ctx context.Context, n model.Notification) (state model.State) {
	defer p.recoverInstance(&state)
	ctx = context.WithoutCancel(ctx)

	decision := p.filter.Evaluate(n)
	if !decision.Accepted {
		p.logger.Debug("notification filtered out",
			"source", n.SourceID,
			"reason", decision.Reason)
		if p.debugEvents && decision.Reason == filter.ReasonUnmatchedSource {
			p.emit(ctx, model.TitleDebug, "Received notification from: "+n.SourceID)
		}
		return p.finish(model.StateFilteredOut)
	}

	return p.process(ctx, decision.Text)
}

// Dispatch queues n for processing and returns without waiting for it. The
// call blocks only while every worker is busy. Cancelling ctx after Dispatch
// does not cancel the queued work.
func (p *Pipeline) Dispatch(ctx context.Context, n model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPipelineClosed
	}

	detached := context.WithoutCancel(ctx)
	p.workers.Go(func() {
		p.Handle(detached, n)
	})
	return nil
}

// Wait stops accepting work and blocks until every dispatched notification
// has finished. Concurrent and repeated calls all block until the drain
// completes. A Pipeline cannot be reused afterwards.
func (p *Pipeline) Wait() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		go func() {
			p.workers.Wait()
			close(p.drained)
		}()
	})
	<-p.drained
}

// process runs the stages after filtering.
func (p *Pipeline) process(ctx context.Context, text string) model.State {
	result := p.extractor.Extract(ctx, text)
	if !result.Found {
		p.logger.Debug("no transaction candidate",
			"extractor", p.extractor.Name(),
			"reason", result.Reason)
		return p.finish(model.StateNoCandidate)
	}
	candidate := result.Candidate

	if !p.dedupe.CheckCandidate(candidate) {
		p.logger.Debug("duplicate candidate suppressed", "merchant", candidate.Merchant)
		return p.finish(model.StateDedupedOut)
	}

	txn, err := p.enricher.Enrich(ctx, candidate)
	if err != nil {
		p.logger.Warn("cannot enrich candidate", "error", err)
		return p.finish(model.StateMissingAccount)
	}

	start := p.now()
	outcome := p.submitter.Submit(ctx, txn)
	if p.metrics != nil {
		p.metrics.observeSubmission(p.now().Sub(start))
	}

	p.record(ctx, txn, outcome)

	if outcome.Succeeded {
		p.logger.Info("transaction submitted",
			"transaction_id", txn.TransactionID,
			"merchant", candidate.Merchant,
			"amount", candidate.Amount)
		p.emit(ctx, model.TitleProcessed, outcome.Message)
		return p.finish(model.StateSucceeded)
	}

	message := outcome.Message
	if message == "" {
		message = "Error: submission failed"
	}
	p.logger.Warn("transaction submission failed",
		"transaction_id", txn.TransactionID,
		"status", outcome.StatusCode,
		"message", message)
	p.emit(ctx, model.TitleFailed, message)
	return p.finish(model.StateFailed)
}

func (p *Pipeline) record(ctx context.Context, txn model.EnrichedTransaction, outcome model.SubmissionOutcome) {
	if p.journal == nil {
		return
	}

	record := &model.SubmissionRecord{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Merchant:      txn.Candidate.Merchant,
		Amount:        txn.Candidate.Amount,
		Succeeded:     outcome.Succeeded,
		StatusCode:    outcome.StatusCode,
		Message:       outcome.Message,
		SubmittedAt:   p.now(),
	}
	if outcome.Score != nil {
		record.FraudScore = outcome.Score.FraudScore
	}

	if err := p.journal.RecordSubmission(ctx, record); err != nil {
		p.logger.Warn("failed to journal submission",
			"transaction_id", txn.TransactionID,
			"error", err)
	}
}

func (p *Pipeline) emit(ctx context.Context, title, text string) {
	p.sink.Emit(ctx, model.StatusEvent{
		At:    p.now(),
		Title: title,
		Text:  text,
	})
}

func (p *Pipeline) finish(state model.State) model.State {
	if p.metrics != nil {
		p.metrics.observeState(state)
	}
	return state
}

// recoverInstance turns a panic in one instance into a failed state.
func (p *Pipeline) recoverInstance(state *model.State) {
	if r := recover(); r != nil {
		p.logger.Error("pipeline instance panicked", "panic", r)
		*state = p.finish(model.StateFailed)
	}
}
