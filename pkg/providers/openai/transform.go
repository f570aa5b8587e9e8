package openai

import (
	"fmt"

	"northstar-hq/relay/pkg/providers"
)

// OpenAI API request/response types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// buildRequest shapes the provider-agnostic prompt and options into the
// OpenAI payload. Unknown option keys are ignored.
func buildRequest(model, prompt string, opts providers.Options) *chatRequest {
	req := &chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	if system, ok := opts[providers.OptSystem].(string); ok && system != "" {
		req.Messages = append([]chatMessage{{Role: "system", Content: system}}, req.Messages...)
	}
	if v, ok := toInt(opts[providers.OptMaxTokens]); ok {
		req.MaxTokens = v
	}
	if v, ok := toFloat(opts[providers.OptTemperature]); ok {
		req.Temperature = v
	}
	if v, ok := toFloat(opts[providers.OptTopP]); ok {
		req.TopP = v
	}

	return req
}

// transformResponse converts the OpenAI response to the provider-agnostic
// shape. Latency is stamped by the caller.
func transformResponse(id providers.Identity, resp *chatResponse) (*providers.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("response contains no choices")
	}

	return &providers.Response{
		Provider: id,
		Model:    resp.Model,
		Content:  resp.Choices[0].Message.Content,
		Usage: map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
		Success: true,
	}, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
