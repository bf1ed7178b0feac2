package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"auto-api-agent/internal/logger"

	openai "github.com/sashabaranov/go-openai"
)

// Config represents the configuration for LLM integration
type Config struct {
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Hinter asks an LLM for realistic sample values. It implements the sample
// synthesizer's HintProvider capability and is consulted only for properties
// the schema does not pin down with an example or enum. Results are cached
// per endpoint and property so repeated synthesis stays cheap.
type Hinter struct {
	config Config
	logger *logger.Logger

	// callLLM is swappable for tests
	callLLM func(ctx context.Context, prompt string) (string, error)

	mu    sync.Mutex
	cache map[string]interface{}
}

// NewHinter creates a new OpenAI-backed hinter
func NewHinter(config Config, log *logger.Logger) *Hinter {
	client := openai.NewClient(config.APIKey)

	h := &Hinter{
		config: config,
		logger: log,
		cache:  make(map[string]interface{}),
	}
	h.callLLM = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model:       config.Model,
				Temperature: float32(config.Temperature),
				MaxTokens:   config.MaxTokens,
				Messages: []openai.ChatCompletionMessage{
					{
						Role:    openai.ChatMessageRoleSystem,
						Content: "You generate realistic sample values for API test payloads. Always respond with a single JSON value and nothing else.",
					},
					{
						Role:    openai.ChatMessageRoleUser,
						Content: prompt,
					},
				},
			},
		)
		if err != nil {
			return "", fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from OpenAI")
		}
		return resp.Choices[0].Message.Content, nil
	}
	return h
}

// SampleValue implements the HintProvider capability. uuid-formatted
// properties are left to the foreign-key detection path.
func (h *Hinter) SampleValue(property string, propertySchema map[string]interface{}, endpoint string) (interface{}, bool) {
	if format, _ := propertySchema["format"].(string); format == "uuid" {
		return nil, false
	}

	cacheKey := endpoint + "." + property
	h.mu.Lock()
	if value, ok := h.cache[cacheKey]; ok {
		h.mu.Unlock()
		return value, true
	}
	h.mu.Unlock()

	schemaJSON, _ := json.Marshal(propertySchema)
	prompt := fmt.Sprintf(`Generate one realistic sample value for the JSON property %q of the API resource %q.
Property schema: %s

Respond with a single JSON value only.`, property, endpoint, string(schemaJSON))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	response, err := h.callLLM(ctx, prompt)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("sample hint lookup failed", "property", property, "endpoint", endpoint, "error", err)
		}
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &value); err != nil {
		if h.logger != nil {
			h.logger.Warn("sample hint was not valid JSON", "property", property, "response", response)
		}
		return nil, false
	}

	h.mu.Lock()
	h.cache[cacheKey] = value
	h.mu.Unlock()
	return value, true
}
