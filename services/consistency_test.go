package services

import (
	"context"
	"testing"

	"debatebot/llm"
)

func TestHeuristicCheckerFlagsConcessions(t *testing.T) {
	checker := &HeuristicChecker{}
	cases := []struct {
		candidate string
		want      bool
	}{
		{"Pineapple ruins pizza and you know it.", true},
		{"You know what, you're right about pineapple.", false},
		{"Okay, I agree with you completely.", false},
		{"Bueno, tienes razón sobre la piña.", false},
		{"La piña arruina la pizza, punto.", true},
	}
	for _, tc := range cases {
		res, err := checker.Check(context.Background(), tc.candidate, "pineapple does not belong on pizza", nil)
		if err != nil {
			t.Fatalf("Check failed for %q: %v", tc.candidate, err)
		}
		if res.Consistent != tc.want {
			t.Errorf("Check(%q): expected consistent=%v, got %v (reason %q)", tc.candidate, tc.want, res.Consistent, res.Reason)
		}
	}
}

type scriptedProvider struct {
	reply string
	err   error
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	return s.reply, s.err
}

func TestLLMCheckerParsesVerdict(t *testing.T) {
	checker := &LLMChecker{provider: &scriptedProvider{reply: `{"consistent": false, "reason": "reply concedes"}`}}
	res, err := checker.Check(context.Background(), "whatever", "position", nil)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Consistent {
		t.Error("Expected an inconsistent verdict")
	}
	if res.Reason != "reply concedes" {
		t.Errorf("Unexpected reason: %q", res.Reason)
	}
}

func TestLLMCheckerFailsOpen(t *testing.T) {
	// Provider errors and junk output must never block a reply.
	for _, p := range []*scriptedProvider{
		{err: llm.Transient("timeout", nil)},
		{reply: "not json"},
	} {
		checker := &LLMChecker{provider: p}
		res, err := checker.Check(context.Background(), "whatever", "position", nil)
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		if !res.Consistent {
			t.Error("Expected the checker to fail open to consistent")
		}
	}
}

func TestNewConsistencyCheckerSelectsBackend(t *testing.T) {
	if _, ok := NewConsistencyChecker("llm", &scriptedProvider{}).(*LLMChecker); !ok {
		t.Error("Expected an LLMChecker for mode llm")
	}
	if _, ok := NewConsistencyChecker("heuristic", nil).(*HeuristicChecker); !ok {
		t.Error("Expected a HeuristicChecker for mode heuristic")
	}
}
