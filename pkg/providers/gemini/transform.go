package gemini

import (
	"fmt"
	"strings"

	"northstar-hq/relay/pkg/providers"
)

// Gemini API request/response types

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// buildRequest shapes the provider-agnostic prompt and options into the
// Gemini payload. Unknown option keys are ignored.
func buildRequest(prompt string, opts providers.Options) *generateRequest {
	req := &generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}

	if system, ok := opts[providers.OptSystem].(string); ok && system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	gc := &generationConfig{}
	set := false
	if v, ok := toInt(opts[providers.OptMaxTokens]); ok {
		gc.MaxOutputTokens = v
		set = true
	}
	if v, ok := toFloat(opts[providers.OptTemperature]); ok {
		gc.Temperature = v
		set = true
	}
	if v, ok := toFloat(opts[providers.OptTopP]); ok {
		gc.TopP = v
		set = true
	}
	if set {
		req.GenerationConfig = gc
	}

	return req
}

// transformResponse converts the Gemini response to the provider-agnostic
// shape, concatenating candidate parts. Latency is stamped by the caller.
func transformResponse(id providers.Identity, model string, resp *generateResponse) (*providers.Response, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("response contains no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	return &providers.Response{
		Provider: id,
		Model:    model,
		Content:  sb.String(),
		Usage: map[string]int{
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":      resp.UsageMetadata.TotalTokenCount,
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
