package ai

import (
	"context"
	"strings"

	"google.golang.org/adk/model"
)

// LLMGenerator drives any ADK model.LLM as a Generator.
type LLMGenerator struct {
	name string
	llm  model.LLM
}

// NewLLMGenerator wraps llm; name is reported by Provider.
func NewLLMGenerator(name string, llm model.LLM) *LLMGenerator {
	return &LLMGenerator{name: name, llm: llm}
}

// Provider names the backend for logs.
func (g *LLMGenerator) Provider() string { return g.name }

// Generate collects the text parts of every response the model yields.
func (g *LLMGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	req := &model.LLMRequest{
		Model:    g.llm.Name(),
		Contents: buildContents(prompt),
		Config:   buildConfig(prompt),
	}

	var b strings.Builder
	for resp, err := range g.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		for _, part := range resp.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
