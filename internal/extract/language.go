package extract

import (
	"context"
	"log/slog"

	"github.com/Veraticus/spicewatch/internal/llm"
)

// SystemInstruction is sent with every language-model extraction request.
const SystemInstruction = `You extract card transactions from phone notification text.
Respond with ONLY a JSON object. No prose, no markdown. The object has exactly these fields:
{"merchant": string, "amount": number, "merchantLat": number, "merchantLong": number}
Use 0 for coordinates you cannot determine.
If the notification does not describe a purchase or payment, respond with {}.
Always respond with {} for notifications from messaging apps, social networks, calendars,
system or app updates, marketing and promotional senders, one-time passcodes, and
shipping or delivery updates.`

// LanguageModel asks a text-completion service to extract the transaction.
type LanguageModel struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewLanguageModel creates a language-model extractor.
func NewLanguageModel(completer llm.Completer, logger *slog.Logger) *LanguageModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LanguageModel{
		completer: completer,
		logger:    logger,
	}
}

// Name identifies the strategy.
func (l *LanguageModel) Name() string {
	return "language-model"
}

// Extract sends text to the model. Service failures, empty objects and
// unparseable answers all mean no candidate.
func (l *LanguageModel) Extract(ctx context.Context, text string) Result {
	response, err := l.completer.Complete(ctx, SystemInstruction, text)
	if err != nil {
		l.logger.Warn("completion request failed", "error", err)
		return NoCandidate("completion failed")
	}

	content := llm.CleanResponse(response)
	if len(content) <= 2 {
		l.logger.Debug("model found no transaction")
		return NoCandidate("empty completion")
	}

	record, err := decodeObject(content)
	if err != nil {
		l.logger.Warn("failed to parse completion", "error", err, "content", content)
		return NoCandidate("malformed completion")
	}
	if len(record) == 0 {
		return NoCandidate("empty completion")
	}

	candidate := candidateFromRecord(record)
	l.logger.Debug("extracted candidate", "merchant", candidate.Merchant, "amount", candidate.Amount)
	return Found(candidate)
}
