package pipeline

import (
	"context"
	"strings"

	"github.com/Veraticus/spicewatch/internal/model"
)

// DefaultSampleText is the transaction used by a manual trigger without text.
const DefaultSampleText = `{"accountId":"test-id","transaction":{"amt":10.0,"category":"shopping","merchant":"Test Merchant"}}`

// Trigger runs text through the pipeline without filtering. Blank text uses
// DefaultSampleText. Like Handle, it runs to a terminal state even if ctx ends.
func (p *Pipeline) Trigger(ctx context.Context, text string) (state model.State) {
	defer p.recoverInstance(&state)
	ctx = context.WithoutCancel(ctx)

	if strings.TrimSpace(text) == "" {
		text = DefaultSampleText
	}
	p.logger.Debug("manual trigger", "length", len(text))
	return p.process(ctx, text)
}
