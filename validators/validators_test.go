package validators

import "testing"

func testConfig() Config {
	return Config{MinChars: 10, MaxChars: 3000, SimilarityThreshold: 0.9}
}

func TestAcceptableReplyPasses(t *testing.T) {
	set := NewSet(testConfig())
	out := set.Validate(Input{
		Candidate:   "Pineapple ruins the balance a good pizza depends on. The moisture alone makes the crust soggy.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
	})
	if !out.Passed {
		t.Errorf("Expected a clean pass, failed rules: %v", out.Failed)
	}
}

func TestLengthRule(t *testing.T) {
	set := NewSet(testConfig())

	out := set.Validate(Input{Candidate: "Pizza.", Topic: "pizza toppings", BotPosition: "pineapple does not belong on pizza"})
	if !out.Has(TooShort) {
		t.Errorf("Expected TooShort, got %v", out.Failed)
	}

	long := "pizza "
	for len(long) < 3100 {
		long += "pizza toppings matter a great deal "
	}
	out = set.Validate(Input{Candidate: long, Topic: "pizza toppings", BotPosition: "pineapple does not belong on pizza"})
	if !out.Has(TooLong) {
		t.Errorf("Expected TooLong, got %v", out.Failed)
	}
}

func TestRepetitionRule(t *testing.T) {
	set := NewSet(testConfig())
	prior := "Pineapple simply does not belong on pizza, and no argument changes that."

	out := set.Validate(Input{
		Candidate:   "Pineapple simply does not belong on pizza, and no argument changes that.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
		PriorBot:    []string{prior},
	})
	if !out.Has(Repetitive) {
		t.Errorf("Expected Repetitive for an identical reply, got %v", out.Failed)
	}

	out = set.Validate(Input{
		Candidate:   "The soggy crust problem alone disqualifies pineapple from any serious pizza.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
		PriorBot:    []string{prior},
	})
	if out.Has(Repetitive) {
		t.Error("Did not expect Repetitive for a distinct reply")
	}
}

func TestBannedContentRule(t *testing.T) {
	set := NewSet(testConfig())
	out := set.Validate(Input{
		Candidate:   "You're absolutely right about pizza, there is nothing more to add.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
	})
	if !out.Has(Disallowed) {
		t.Errorf("Expected Disallowed for a concession phrase, got %v", out.Failed)
	}

	custom := NewSet(Config{MinChars: 10, MaxChars: 3000, SimilarityThreshold: 0.9, BannedTerms: []string{"forbidden snack"}})
	out = custom.Validate(Input{
		Candidate:   "That forbidden snack has no business near a pizza.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
	})
	if !out.Has(Disallowed) {
		t.Errorf("Expected Disallowed for a configured term, got %v", out.Failed)
	}
}

func TestTopicRelevanceRule(t *testing.T) {
	set := NewSet(testConfig())
	out := set.Validate(Input{
		Candidate:   "The weather is lovely and I had a great walk this morning.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
	})
	if !out.Has(OffTopic) {
		t.Errorf("Expected OffTopic, got %v", out.Failed)
	}
}

func TestAllViolationsReported(t *testing.T) {
	set := NewSet(testConfig())
	out := set.Validate(Input{
		Candidate:   "Hi.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
	})
	if !out.Has(TooShort) || !out.Has(OffTopic) {
		t.Errorf("Expected both TooShort and OffTopic, got %v", out.Failed)
	}
}

func TestDisabledRulesAreSkipped(t *testing.T) {
	set := NewSet(Config{
		MinChars:            10,
		MaxChars:            3000,
		SimilarityThreshold: 0.9,
		DisabledRules:       []string{"topic", "length"},
	})
	out := set.Validate(Input{
		Candidate:   "Hi.",
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
	})
	if !out.Passed {
		t.Errorf("Expected a pass with topic and length disabled, got %v", out.Failed)
	}
}
