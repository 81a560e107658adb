// Package extract turns notification text into transaction candidates.
//
// Every strategy reports "nothing here" the same way: a Result whose Found is
// false. Downstream stages never learn which strategy ran.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spicewatch/internal/config"
	"github.com/Veraticus/spicewatch/internal/llm"
	"github.com/Veraticus/spicewatch/internal/model"
)

// Result is either a candidate or no candidate, with the reason for the latter.
type Result struct {
	Reason    string
	Candidate model.Candidate
	Found     bool
}

// Found wraps a candidate.
func Found(c model.Candidate) Result {
	return Result{Candidate: c, Found: true}
}

// NoCandidate reports that the text holds no transaction.
func NoCandidate(reason string) Result {
	return Result{Reason: reason}
}

// Extractor produces a candidate from consolidated notification text.
// Implementations never return an error for unusable text; they return NoCandidate.
type Extractor interface {
	Extract(ctx context.Context, text string) Result
	Name() string
}

// New builds the extractor for the configured strategy. completer is only
// required by the language-model strategy.
func New(strategy string, completer llm.Completer, logger *slog.Logger) (Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strategy {
	case config.StrategyBoundary:
		return NewBoundary(logger), nil
	case config.StrategyKeyValue:
		return NewKeyValue(), nil
	case config.StrategyLanguageModel:
		if completer == nil {
			return nil, fmt.Errorf("%s strategy needs a completion client", strategy)
		}
		return NewLanguageModel(completer, logger), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy: %s", strategy)
	}
}
