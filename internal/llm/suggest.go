package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"startup_journey/internal/jsonrepair"
	"startup_journey/internal/models"
)

// ToolSuggestion is one tool the model proposes for a step.
type ToolSuggestion struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	PricingModel string `json:"pricing_model"`
	Reason       string `json:"reason"`
}

// Suggestions is the decoded answer plus how it had to be repaired.
type Suggestions struct {
	Tools    []ToolSuggestion    `json:"tools"`
	Strategy jsonrepair.Strategy `json:"repair_strategy"`
	Raw      string              `json:"raw,omitempty"`
}

const suggestPrompt = `<s>[INST] You advise early-stage startup founders on software tools.
The founder is working on this step of their journey:

Step: %s
Phase: %s
Domain: %s
Objective: %s

Recommend up to %d tools. Answer with a JSON array only, no prose. Each item
must have the keys "name", "category", "pricing_model" (free, freemium or
paid) and "reason". [/INST]`

// SuggestTools asks the model for tools that fit step and decodes the answer,
// repairing malformed JSON where it can.
func (c *Client) SuggestTools(ctx context.Context, step models.Step, limit int) (*Suggestions, error) {
	if limit <= 0 {
		limit = 5
	}
	objective := step.Objective
	if objective == "" {
		objective = step.Description
	}
	prompt := fmt.Sprintf(suggestPrompt, step.Name, step.PhaseName, step.DomainName, objective, limit)

	text, err := c.Generate(ctx, prompt, Parameters{MaxNewTokens: 512, Temperature: 0.3})
	if err != nil {
		return nil, err
	}

	tools, strategy, err := DecodeSuggestions(text)
	if err != nil {
		return &Suggestions{Raw: text}, err
	}
	if len(tools) > limit {
		tools = tools[:limit]
	}
	return &Suggestions{Tools: tools, Strategy: strategy}, nil
}

// DecodeSuggestions reads model output that is either an array of
// suggestions or an object holding one under "tools".
func DecodeSuggestions(text string) ([]ToolSuggestion, jsonrepair.Strategy, error) {
	data, strategy, err := jsonrepair.Repair([]byte(text))
	if err != nil {
		return nil, "", err
	}

	var tools []ToolSuggestion
	if err := json.Unmarshal(data, &tools); err != nil {
		var wrapped struct {
			Tools []ToolSuggestion `json:"tools"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, strategy, fmt.Errorf("decode suggestions: %w", err)
		}
		tools = wrapped.Tools
	}

	out := tools[:0]
	for _, t := range tools {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		if !models.ValidPricingModel(t.PricingModel) {
			t.PricingModel = ""
		}
		out = append(out, t)
	}
	return out, strategy, nil
}

// PingResult reports a minimal round trip to the model.
type PingResult struct {
	Model   string        `json:"model"`
	Latency time.Duration `json:"latency"`
	Reply   string        `json:"reply"`
}

func (c *Client) Ping(ctx context.Context) (*PingResult, error) {
	start := time.Now()
	reply, err := c.Generate(ctx, "<s>[INST] Reply with the single word OK. [/INST]", Parameters{MaxNewTokens: 5, Temperature: 0.1})
	if err != nil {
		return nil, err
	}
	return &PingResult{Model: c.model, Latency: time.Since(start), Reply: strings.TrimSpace(reply)}, nil
}
