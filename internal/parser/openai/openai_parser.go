package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"pie/internal/config"
	"pie/internal/domain"
	"pie/internal/parser"
	"pie/internal/port"
)

const defaultMaxTokens = 400

// Parser implements port.InvoiceInference using the OpenAI Chat Completions API.
type Parser struct {
	apiKey    string
	model     string
	maxTokens int64
	client    openai.Client
}

// NewParser creates an OpenAI-backed inference client from the inference config.
func NewParser(cfg *config.InferenceConfig) *Parser {
	return newParser(cfg, cfg.BaseURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API base URL (for testing).
func NewParserWithEndpoint(cfg *config.InferenceConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.InferenceConfig, endpoint string) *Parser {
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	if cfg.TimeoutSecs > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSecs)*time.Second))
	}

	return &Parser{
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		client:    openai.NewClient(opts...),
	}
}

// Complete submits the payload and returns the model's JSON object unmodified.
func (p *Parser) Complete(ctx context.Context, payload port.ExtractionRequestPayload) (json.RawMessage, error) {
	if p.apiKey == "" {
		return nil, domain.ErrCredentialNotFound
	}

	messages, err := buildMessages(payload)
	if err != nil {
		return nil, fmt.Errorf("building messages: %w", err)
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    messages,
		MaxTokens:   openai.Int(p.maxTokens),
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   parser.InvoiceSchemaName,
					Strict: openai.Bool(false),
					Schema: parser.InvoiceJSONSchema(),
				},
			},
		},
	})
	if err != nil {
		return nil, domain.NewUpstreamError(err)
	}

	return parseResponse(resp)
}

func buildMessages(payload port.ExtractionRequestPayload) ([]openai.ChatCompletionMessageParamUnion, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(payload.Parts))
	for _, part := range payload.Parts {
		switch part.Type {
		case domain.ContentPartText:
			parts = append(parts, openai.TextContentPart(part.Text))
		case domain.ContentPartImageURL:
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: part.ImageURL,
			}))
		default:
			return nil, fmt.Errorf("unsupported content part type: %s", part.Type)
		}
	}

	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(payload.System),
		openai.UserMessage(parts),
	}, nil
}

func parseResponse(resp *openai.ChatCompletion) (json.RawMessage, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, domain.ErrEmptyInference
	}

	text := resp.Choices[0].Message.Content
	if !json.Valid([]byte(text)) {
		return nil, domain.NewUpstreamError(fmt.Errorf("parsing LLM JSON output (raw: %s)", truncate(text, 500)))
	}
	return json.RawMessage(text), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
