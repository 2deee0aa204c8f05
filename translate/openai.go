package translate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-3.5-turbo"

type openAI struct {
	client *openai.Client
}

func newOpenAI(credential string, opts Options) (Translator, error) {
	config := openai.DefaultConfig(credential)
	if base := opts.String("baseUrl", ""); base != "" {
		config.BaseURL = strings.TrimRight(base, "/")
	}
	config.HTTPClient = makeHTTPClient(opts.String("proxy", ""), opts.Duration("timeout", defaultTimeout))
	return &openAI{client: openai.NewClientWithConfig(config)}, nil
}

func (o *openAI) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: opts.String("openaiModel", defaultOpenAIModel),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are a helpful assistant that translates text from %s to %s.", from, to),
			},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   int(opts.Number("max_tokens", 1000)),
		Temperature: temperature(opts),
		TopP:        float32(opts.Number("top_p", 0)),
		N:           int(opts.Number("n", 0)),
	}
	if stop := opts.String("stop", ""); stop != "" {
		req.Stop = []string{stop}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &ProviderError{Provider: "OpenAI", Message: apiErr.Message, Code: apiCode(apiErr)}
		}
		return "", &ProviderError{Provider: "OpenAI", Message: "request failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "OpenAI", Message: "no choices in response"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// temperature reads the temperature option (default 0.3). The request
// omits a zero temperature, so temperature:0 is sent as the smallest
// positive float32 to keep sampling deterministic.
func temperature(opts Options) float32 {
	t := float32(opts.Number("temperature", 0.3))
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func apiCode(e *openai.APIError) string {
	if s, ok := e.Code.(string); ok && s != "" {
		return s
	}
	if e.HTTPStatusCode != 0 {
		return fmt.Sprint(e.HTTPStatusCode)
	}
	return ""
}
