// Package enrich attaches account identity, identifiers and location to candidates.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/google/uuid"
)

// SessionStore exposes the signed-in account. Implementations return
// common.ErrNoSession or an empty id when nobody is signed in.
type SessionStore interface {
	AccountID(ctx context.Context) (string, error)
}

// Location is a latitude/longitude pair.
type Location struct {
	Latitude  float64
	Longitude float64
}

// LocationProvider resolves the last known device location.
type LocationProvider interface {
	LastKnown(ctx context.Context) (Location, error)
}

// ErrLocationUnavailable is returned by providers that cannot resolve a location.
var ErrLocationUnavailable = errors.New("location unavailable")

// Enricher turns candidates into submittable transactions.
type Enricher struct {
	sessions  SessionStore
	locations LocationProvider
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLocation enables location lookups through provider.
func WithLocation(provider LocationProvider) Option {
	return func(e *Enricher) {
		e.locations = provider
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		e.now = now
	}
}

// WithIDGenerator replaces the transaction id generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Enricher) {
		e.newID = newID
	}
}

// New creates an Enricher. Without WithLocation no location is attached.
func New(sessions SessionStore, logger *slog.Logger, opts ...Option) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Enricher{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich reads the current account and builds an EnrichedTransaction. A missing
// account returns common.ErrMissingAccount; location problems never fail.
func (e *Enricher) Enrich(ctx context.Context, candidate model.Candidate) (model.EnrichedTransaction, error) {
	accountID, err := e.sessions.AccountID(ctx)
	if err != nil && !errors.Is(err, common.ErrNoSession) {
		return model.EnrichedTransaction{}, fmt.Errorf("%w: %v", common.ErrMissingAccount, err)
	}
	if accountID == "" {
		return model.EnrichedTransaction{}, common.ErrMissingAccount
	}

	transactionID := candidate.TransactionID
	if transactionID == "" {
		transactionID = e.newID()
	}

	timestamp := e.now()
	if candidate.Timestamp > 0 {
		timestamp = time.UnixMilli(candidate.Timestamp)
	}

	txn, err := model.NewEnrichedTransaction(accountID, transactionID, timestamp, candidate)
	if err != nil {
		return model.EnrichedTransaction{}, fmt.Errorf("%w: %v", common.ErrMissingAccount, err)
	}

	if e.locations == nil {
		return txn, nil
	}

	location, err := e.locations.LastKnown(ctx)
	if err != nil {
		e.logger.Debug("location unavailable, using zero coordinates", "error", err)
		return txn.WithLocation(0, 0), nil
	}
	return txn.WithLocation(location.Latitude, location.Longitude), nil
}
