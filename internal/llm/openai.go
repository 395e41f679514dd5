package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// AI71BaseURL is the OpenAI-compatible endpoint serving the Falcon models.
	AI71BaseURL = "https://api.ai71.ai/v1/"

	DefaultModel = openai.ChatModel("tiiuae/falcon-180B-chat")
)

// ErrMissingAPIKey is returned by Chat when the client was built without a key.
var ErrMissingAPIKey = errors.New("api key not configured")

// OpenAIClient calls an OpenAI-compatible Chat Completions API.
type OpenAIClient struct {
	model  openai.ChatModel
	client *openai.Client
	apiKey string
}

// NewOpenAIClient builds a client against baseURL (api.openai.com when empty).
// An empty apiKey is accepted; every Chat call then fails with ErrMissingAPIKey.
// The SDK's automatic retries are disabled so one Chat is one HTTP request.
func NewOpenAIClient(apiKey, baseURL string, model openai.ChatModel, opts ...option.RequestOption) (*OpenAIClient, error) {
	if model == "" {
		model = DefaultModel
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
		}
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		model:  model,
		client: &cli,
		apiKey: apiKey,
	}, nil
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if c == nil || c.client == nil {
		return ChatResponse{}, fmt.Errorf("nil openai client")
	}
	if c.apiKey == "" {
		return ChatResponse{}, ErrMissingAPIKey
	}
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(req.System, req.User),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ChatResponse{}, err
	}
	out := ChatResponse{Raw: resp.RawJSON()}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	return out, nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
