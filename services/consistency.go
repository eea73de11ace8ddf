package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"debatebot/llm"
)

// ConsistencyResult reports whether a candidate reply stays on the bot's
// assigned position.
type ConsistencyResult struct {
	Consistent bool
	Reason     string
}

// ConsistencyChecker verifies a candidate reply does not contradict the
// position the bot has argued so far. Implementations are swappable; the
// orchestrator only depends on this contract.
type ConsistencyChecker interface {
	Check(ctx context.Context, candidate, position string, priorBot []string) (ConsistencyResult, error)
}

// NewConsistencyChecker selects a backend by config mode.
func NewConsistencyChecker(mode string, provider llm.Provider) ConsistencyChecker {
	if strings.EqualFold(mode, "llm") {
		return &LLMChecker{provider: provider}
	}
	return &HeuristicChecker{}
}

// HeuristicChecker flags replies containing concession or stance-reversal
// phrases. Cheap, deterministic, and good enough to catch the failure mode
// that actually occurs: the model folding and agreeing with the user.
type HeuristicChecker struct{}

var contradictionPhrases = []string{
	"actually, you're right",
	"you're right",
	"you are right",
	"i agree with you",
	"i was wrong about",
	"let me reconsider",
	"that changes everything",
	"i change my mind",
	"fair enough, i concede",
	"tienes razón",
	"estoy de acuerdo contigo",
	"me equivoqué",
	"cambio de opinión",
}

func (h *HeuristicChecker) Check(ctx context.Context, candidate, position string, priorBot []string) (ConsistencyResult, error) {
	lowered := strings.ToLower(candidate)
	for _, phrase := range contradictionPhrases {
		if strings.Contains(lowered, phrase) {
			return ConsistencyResult{
				Consistent: false,
				Reason:     fmt.Sprintf("reply concedes the debate: %q", phrase),
			}, nil
		}
	}
	return ConsistencyResult{Consistent: true}, nil
}

// LLMChecker asks the model itself whether the reply holds the position.
// Any checker failure resolves to consistent so a flaky second call never
// blocks an otherwise good reply.
type LLMChecker struct {
	provider llm.Provider
}

func (l *LLMChecker) Check(ctx context.Context, candidate, position string, priorBot []string) (ConsistencyResult, error) {
	raw, err := l.provider.Generate(ctx, consistencyPrompt(candidate, position), llm.Params{Temperature: 0.2})
	if err != nil {
		return ConsistencyResult{Consistent: true}, nil
	}

	var parsed struct {
		Consistent bool   `json:"consistent"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleanModelOutput(raw)), &parsed); err != nil {
		return ConsistencyResult{Consistent: true}, nil
	}
	return ConsistencyResult{Consistent: parsed.Consistent, Reason: parsed.Reason}, nil
}
