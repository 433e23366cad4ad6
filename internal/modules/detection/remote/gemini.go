package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
)

// GeminiTransport speaks the generateContent wire format:
// POST {endpoint}?key={apiKey} with {"contents":[{"parts":[{"text":...}]}]}.
type GeminiTransport struct {
	client *http.Client
}

func NewGeminiTransport(client *http.Client) *GeminiTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GeminiTransport{client: client}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (t *GeminiTransport) Generate(ctx context.Context, creds Credentials, prompt string) (*Completion, error) {
	endpoint, err := geminiURL(creds.Endpoint, creds.APIKey)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var payload geminiResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := &Completion{Candidates: len(payload.Candidates)}
	if out.Candidates == 0 {
		return out, nil
	}
	first := payload.Candidates[0]
	if first.Content != nil && len(first.Content.Parts) > 0 && first.Content.Parts[0].Text != nil {
		out.Text = *first.Content.Parts[0].Text
		out.HasText = true
	}
	return out, nil
}

// geminiURL appends the API key as the "key" query parameter.
func geminiURL(endpoint, apiKey string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	apiKey = strings.TrimSpace(apiKey)
	if endpoint == "" || apiKey == "" {
		return "", ErrMissingCredentials
	}
	parsed, err := neturl.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid endpoint %q: scheme and host are required", endpoint)
	}
	q := parsed.Query()
	q.Set("key", apiKey)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
