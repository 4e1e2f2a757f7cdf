// Package ai provides text generation clients for the study assistant.
// This is part of the platform layer and contains no business logic.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyhub_backend/platform/ai/moonshot"
	"studyhub_backend/platform/config"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("ai: empty response")

// ErrNoJSONArray is returned when a response holds no JSON array.
var ErrNoJSONArray = errors.New("ai: no JSON array in response")

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message in a conversation.
type Turn struct {
	Role Role
	Text string
}

// Prompt is a single generation request.
type Prompt struct {
	System  string
	History []Turn
	Text    string
	// JSON asks the provider for a JSON-only answer where supported.
	JSON bool
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
	Provider() string
}

// New builds the generator selected by cfg.GetAIProvider.
func New(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch cfg.GetAIProvider() {
	case "moonshot":
		if cfg.GetMoonshotAPIKey() == "" {
			return nil, fmt.Errorf("MOONSHOT_API_KEY is required for the moonshot provider")
		}
		llm := moonshot.NewModel(moonshot.Config{
			APIKey: cfg.GetMoonshotAPIKey(),
			Model:  cfg.GetMoonshotModel(),
		})
		return NewLLMGenerator("moonshot", llm), nil
	default:
		if cfg.GetGeminiAPIKey() == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		gen, err := NewGemini(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}

// ExtractJSONArray returns the outermost [...] span in text, which tolerates
// providers that wrap JSON in prose or markdown fences.
func ExtractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", ErrNoJSONArray
	}
	return text[start : end+1], nil
}

func buildContents(prompt Prompt) []*genai.Content {
	contents := make([]*genai.Content, 0, len(prompt.History)+1)
	for _, turn := range prompt.History {
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return append(contents, genai.NewContentFromText(prompt.Text, genai.RoleUser))
}

func buildConfig(prompt Prompt) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}
