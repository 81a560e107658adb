package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Boundary pulls a JSON object out of text by taking everything between the
// first '{' and the last '}'. Mail clients escape quotes as &quot; in previews,
// so those are restored before parsing.
type Boundary struct {
	logger *slog.Logger
}

// NewBoundary creates a boundary extractor.
func NewBoundary(logger *slog.Logger) *Boundary {
	if logger == nil {
		logger = slog.Default()
	}
	return &Boundary{logger: logger}
}

// Name identifies the strategy.
func (b *Boundary) Name() string {
	return "boundary"
}

// Extract parses the embedded record. A record wrapped as
// {"accountId": ..., "transaction": {...}} is unwrapped to its transaction.
func (b *Boundary) Extract(_ context.Context, text string) Result {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		b.logger.Warn("no JSON found in notification")
		return NoCandidate("no JSON boundaries")
	}

	raw := strings.ReplaceAll(text[start:end+1], "&quot;", `"`)

	record, err := decodeObject(raw)
	if err != nil {
		b.logger.Warn("failed to parse notification JSON", "error", err)
		return NoCandidate("malformed JSON")
	}

	if nested, ok := record["transaction"].(map[string]any); ok {
		record = nested
	}

	candidate := candidateFromRecord(record)
	if candidate.Merchant == "" && candidate.Amount == 0 {
		b.logger.Warn("notification JSON has no transaction fields")
		return NoCandidate("no transaction fields")
	}

	b.logger.Debug("extracted candidate", "merchant", candidate.Merchant, "amount", candidate.Amount)
	return Found(candidate)
}

var errTrailingData = errors.New("unexpected data after JSON object")

// decodeObject strictly decodes a single JSON object, keeping numbers exact.
func decodeObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("JSON is not an object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return record, nil
}
