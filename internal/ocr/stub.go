// internal/ocr/stub.go
package ocr

import (
	"context"
)

// StubProvider returns a fixed text without any network call. Used in tests
// and for local development without API keys.
type StubProvider struct {
	Text string
	Err  error
}

func NewStubProvider(text string) *StubProvider {
	return &StubProvider{Text: text}
}

func (p *StubProvider) Name() string { return "stub" }

func (p *StubProvider) IsAvailable() bool { return true }

func (p *StubProvider) Process(_ context.Context, _ []byte, _ Options) (*Result, error) {
	if p.Err != nil {
		return nil, Classify(p.Name(), p.Err)
	}
	return &Result{
		RawText:          p.Text,
		Provider:         p.Name(),
		ProcessingTimeMs: 1,
		Confidence:       0.99,
	}, nil
}

var _ Provider = (*StubProvider)(nil)
var _ Provider = (*OpenAIProvider)(nil)
var _ Provider = (*OCRSpaceProvider)(nil)
