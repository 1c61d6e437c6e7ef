// internal/ocr/openai.go
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
	defaultVisionModel = "gpt-4o-mini"
	defaultTimeout     = 30 * time.Second
)

const receiptPrompt = "Extract every purchased product line from this receipt. " +
	"Return one product name per line, without prices, quantities, totals or store details."

// OpenAIProvider reads receipts through the chat-completions vision API.
type OpenAIProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultVisionModel
	}
	return &OpenAIProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) IsAvailable() bool { return p.apiKey != "" }

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string          `json:"role"`
	Content []openAIContent `json:"content"`
}

type openAIContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *OpenAIProvider) Process(ctx context.Context, image []byte, opts Options) (*Result, error) {
	apiKey := p.apiKey
	if opts.APIKey != "" {
		apiKey = opts.APIKey
	}
	if apiKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassAuth, Message: "api key not configured"}
	}
	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := openAIRequest{
		Model:     model,
		MaxTokens: 1024,
		Messages: []openAIMessage{{
			Role: "user",
			Content: []openAIContent{
				{Type: "text", Text: receiptPrompt},
				{Type: "image_url", ImageURL: &openAIImageURL{
					URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, Classify(p.Name(), fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, Classify(p.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, Classify(p.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(p.Name(), fmt.Errorf("failed to read response: %w", err))
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassAuth, Message: string(respBody)}
	case http.StatusTooManyRequests:
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassQuota, Message: "QUOTA_EXCEEDED: " + string(respBody)}
	default:
		if resp.StatusCode >= 500 {
			return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassTransient, Message: fmt.Sprintf("server error %d", resp.StatusCode)}
		}
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassUnknown, Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, respBody)}
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, Classify(p.Name(), fmt.Errorf("failed to decode response: %w", err))
	}
	if parsed.Error != nil {
		return nil, Classify(p.Name(), fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassUnknown, Message: "empty completion"}
	}

	return &Result{
		RawText:          parsed.Choices[0].Message.Content,
		Provider:         p.Name(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
