// Package filter decides which notifications are worth extracting from.
package filter

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spicewatch/internal/config"
	"github.com/Veraticus/spicewatch/internal/model"
)

// Rejection reasons.
const (
	ReasonUnmatchedSource = "unmatched source"
	ReasonNoText          = "no text"
)

// Decision is the filter's verdict on one notification.
type Decision struct {
	Text     string // Consolidated text, set even when rejected
	Reason   string // Why the notification was rejected
	Accepted bool
}

// Filter is a single, explicit acceptance policy.
type Filter struct {
	sources map[string]struct{}
	policy  string
}

// New builds a filter for the named policy. Sources are only consulted by the
// allow-list policy.
func New(policy string, sources []string) (*Filter, error) {
	f := &Filter{
		policy:  policy,
		sources: make(map[string]struct{}, len(sources)),
	}

	switch policy {
	case config.PolicyAllowList:
		if len(sources) == 0 {
			return nil, fmt.Errorf("allow-list policy needs at least one source")
		}
		for _, source := range sources {
			f.sources[strings.TrimSpace(source)] = struct{}{}
		}
	case config.PolicyAcceptAllWithText:
	default:
		return nil, fmt.Errorf("unknown filter policy: %s", policy)
	}

	return f, nil
}

// AllowList builds an allow-list filter for the given sources.
func AllowList(sources ...string) (*Filter, error) {
	return New(config.PolicyAllowList, sources)
}

// AcceptAllWithText builds a filter that accepts any notification carrying text.
func AcceptAllWithText() *Filter {
	return &Filter{policy: config.PolicyAcceptAllWithText}
}

// Policy returns the configured policy name.
func (f *Filter) Policy() string {
	return f.policy
}

// Evaluate decides whether n is eligible for extraction.
func (f *Filter) Evaluate(n model.Notification) Decision {
	text := n.ConsolidatedText()

	if f.policy == config.PolicyAllowList {
		if _, ok := f.sources[n.SourceID]; !ok {
			return Decision{Text: text, Reason: ReasonUnmatchedSource}
		}
	}

	if strings.TrimSpace(text) == "" {
		return Decision{Text: text, Reason: ReasonNoText}
	}

	return Decision{Text: text, Accepted: true}
}
