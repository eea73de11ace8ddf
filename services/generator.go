package services

import (
	"context"
	"strings"

	"debatebot/llm"
	"debatebot/models"
)

// GenerationRequest carries everything one persuasive reply needs.
type GenerationRequest struct {
	Topic       string
	Position    string
	Language    string
	UserMessage string
	History     []models.Message // already trimmed to the history window
	Repair      string           // amendment for a regeneration attempt, empty otherwise
}

// Generator produces persuasive counter-arguments that hold the assigned
// position.
type Generator struct {
	provider    llm.Provider
	temperature float32
	maxWords    int
}

func NewGenerator(provider llm.Provider, temperature float32, maxWords int) *Generator {
	return &Generator{provider: provider, temperature: temperature, maxWords: maxWords}
}

func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	prompt := persuasivePrompt(
		req.Topic, req.Position, req.Language, req.UserMessage,
		req.History, userRepetitive(req.History, req.UserMessage),
		g.maxWords, req.Repair,
	)

	raw, err := g.provider.Generate(ctx, prompt, llm.Params{Temperature: g.temperature})
	if err != nil {
		return "", err
	}
	reply := cleanModelOutput(raw)
	if reply == "" {
		return "", llm.Transient("empty reply", nil)
	}
	return reply, nil
}

// userRepetitive reports whether the user's last three messages, including
// the incoming one, are identical after whitespace and case normalization.
// The prompt then tells the bot to call the repetition out.
func userRepetitive(history []models.Message, incoming string) bool {
	recent := []string{normalizeMessage(incoming)}
	for i := len(history) - 1; i >= 0 && len(recent) < 3; i-- {
		if history[i].Role == models.RoleUser {
			recent = append(recent, normalizeMessage(history[i].Content))
		}
	}
	if len(recent) < 3 {
		return false
	}
	return recent[0] == recent[1] && recent[1] == recent[2]
}

func normalizeMessage(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
