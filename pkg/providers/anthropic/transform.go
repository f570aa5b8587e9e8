package anthropic

import (
	"fmt"
	"strings"

	"northstar-hq/relay/pkg/providers"
)

// Anthropic API request/response types

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// defaultMaxTokens applies when the caller supplies none; the Messages API
// requires the field.
const defaultMaxTokens = 1024

// buildRequest shapes the provider-agnostic prompt and options into the
// Anthropic payload. Unknown option keys are ignored.
func buildRequest(model, prompt string, opts providers.Options) *messagesRequest {
	req := &messagesRequest{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	if system, ok := opts[providers.OptSystem].(string); ok && system != "" {
		req.System = system
	}
	if v, ok := toInt(opts[providers.OptMaxTokens]); ok && v > 0 {
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

// transformResponse converts the Anthropic response to the provider-agnostic
// shape, concatenating text blocks. Latency is stamped by the caller.
func transformResponse(id providers.Identity, resp *messagesResponse) (*providers.Response, error) {
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("response contains no content blocks")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &providers.Response{
		Provider: id,
		Model:    resp.Model,
		Content:  sb.String(),
		Usage: map[string]int{
			"prompt_tokens":     resp.Usage.InputTokens,
			"completion_tokens": resp.Usage.OutputTokens,
			"total_tokens":      resp.Usage.InputTokens + resp.Usage.OutputTokens,
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
