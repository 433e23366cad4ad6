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

const defaultChatModel = "gpt-4o-mini"

// ChatCompletionsTransport targets any server exposing an OpenAI-style
// /v1/chat/completions endpoint.
type ChatCompletionsTransport struct {
	client *http.Client
}

func NewChatCompletionsTransport(client *http.Client) *ChatCompletionsTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ChatCompletionsTransport{client: client}
}

func (t *ChatCompletionsTransport) Generate(ctx context.Context, creds Credentials, prompt string) (*Completion, error) {
	apiKey := strings.TrimSpace(creds.APIKey)
	if apiKey == "" {
		return nil, ErrMissingCredentials
	}

	model := strings.TrimSpace(creds.Model)
	if model == "" {
		model = defaultChatModel
	}

	body, err := json.Marshal(map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": maxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	endpoint := normalizeChatEndpoint(creds.Endpoint) + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
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

	var result struct {
		Choices []struct {
			Message *struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return nil, fmt.Errorf("openai-compatible error: %s", result.Error.Message)
	}

	out := &Completion{Candidates: len(result.Choices)}
	if out.Candidates > 0 && result.Choices[0].Message != nil && result.Choices[0].Message.Content != nil {
		out.Text = *result.Choices[0].Message.Content
		out.HasText = true
	}
	return out, nil
}

// normalizeChatEndpoint strips a trailing /v1 so the path can be appended.
func normalizeChatEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	parsed.Path = strings.TrimSuffix(path, "/v1")
	return strings.TrimRight(parsed.String(), "/")
}
