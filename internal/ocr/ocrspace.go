// internal/ocr/ocrspace.go
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const ocrSpaceEndpoint = "https://api.ocr.space/parse/image"

// OCRSpaceProvider uses the OCR.space REST engine. No vision model involved;
// plain text extraction only.
type OCRSpaceProvider struct {
	apiKey     string
	httpClient *http.Client
}

func NewOCRSpaceProvider(apiKey string) *OCRSpaceProvider {
	return &OCRSpaceProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

func (p *OCRSpaceProvider) Name() string { return "ocrspace" }

func (p *OCRSpaceProvider) IsAvailable() bool { return p.apiKey != "" }

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	OCRExitCode           int             `json:"OCRExitCode"`
}

func (p *OCRSpaceProvider) Process(ctx context.Context, image []byte, opts Options) (*Result, error) {
	apiKey := p.apiKey
	if opts.APIKey != "" {
		apiKey = opts.APIKey
	}
	if apiKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassAuth, Message: "api key not configured"}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	language := opts.Language
	if language == "" {
		language = "eng"
	}

	form := url.Values{}
	form.Set("apikey", apiKey)
	form.Set("language", language)
	form.Set("isTable", "true")
	form.Set("base64Image", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(image))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ocrSpaceEndpoint,
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, Classify(p.Name(), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassAuth, Message: string(respBody)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassQuota, Message: "QUOTA_EXCEEDED: " + string(respBody)}
	case resp.StatusCode >= 500:
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassTransient, Message: fmt.Sprintf("server error %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &ProviderError{Provider: p.Name(), Class: ErrorClassUnknown, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, Classify(p.Name(), fmt.Errorf("failed to decode response: %w", err))
	}
	if parsed.IsErroredOnProcessing {
		return nil, Classify(p.Name(), fmt.Errorf("processing failed: %s", string(parsed.ErrorMessage)))
	}

	var texts []string
	for _, r := range parsed.ParsedResults {
		texts = append(texts, r.ParsedText)
	}

	return &Result{
		RawText:          strings.Join(texts, "\n"),
		Provider:         p.Name(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
