package remote

import (
	"context"
	"errors"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
)

// SDKTransport reaches OpenAI and Anthropic through their official clients,
// unified behind go.jetify.com/ai language models.
type SDKTransport struct{}

func NewSDKTransport() *SDKTransport { return &SDKTransport{} }

func (t *SDKTransport) Generate(ctx context.Context, creds Credentials, prompt string) (*Completion, error) {
	model, err := buildLanguageModel(creds)
	if err != nil {
		return nil, err
	}

	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxOutputTokens),
	)
	if err != nil {
		return nil, err
	}
	return completionFromResponse(resp), nil
}

func completionFromResponse(resp *jetapi.Response) *Completion {
	if resp == nil {
		return &Completion{}
	}
	var text strings.Builder
	hasText := false
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok {
			continue
		}
		hasText = true
		text.WriteString(textBlock.Text)
	}
	if !hasText {
		return &Completion{}
	}
	return &Completion{Candidates: 1, Text: text.String(), HasText: true}
}

func buildLanguageModel(creds Credentials) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(creds.APIKey)
	if apiKey == "" {
		return nil, ErrMissingCredentials
	}
	modelID := strings.TrimSpace(creds.Model)
	endpoint := strings.TrimSpace(creds.Endpoint)

	switch NormalizeProvider(creds.Provider) {
	case ProviderAnthropic:
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	case ProviderOpenAI:
		if modelID == "" {
			modelID = defaultOpenAIModel
		}
		opts := []openaioption.RequestOption{
			openaioption.WithAPIKey(apiKey),
			openaioption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, openaioption.WithBaseURL(normalizeChatEndpoint(endpoint)+"/v1"))
		}
		client := openaiclient.NewClient(opts...)
		return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
	}
	return nil, errors.New("sdk transport only serves openai and anthropic")
}
