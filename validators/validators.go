// Package validators holds the pure, synchronous rules a candidate bot reply
// must pass before it is stored. Every failed rule is reported, not just the
// first, so the orchestrator can pick the most specific repair instruction.
package validators

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// RuleName identifies a rule violation.
type RuleName string

const (
	TooShort   RuleName = "TooShort"
	TooLong    RuleName = "TooLong"
	Repetitive RuleName = "Repetitive"
	Disallowed RuleName = "Disallowed"
	OffTopic   RuleName = "OffTopic"
)

// Input carries everything a rule may inspect. Rules have no other state
// and no side effects.
type Input struct {
	Candidate   string
	Topic       string
	BotPosition string
	PriorBot    []string // prior bot replies in the same conversation
}

// Outcome enumerates every rule the candidate failed.
type Outcome struct {
	Passed bool
	Failed []RuleName
}

// Has reports whether the outcome includes the given violation.
func (o Outcome) Has(name RuleName) bool {
	for _, f := range o.Failed {
		if f == name {
			return true
		}
	}
	return false
}

type rule func(Input) []RuleName

// Config selects and tunes the rule set.
type Config struct {
	MinChars            int
	MaxChars            int
	SimilarityThreshold float64
	BannedTerms         []string
	DisabledRules       []string // "length", "repetition", "banned", "topic"
}

// Set is an ordered collection of enabled rules.
type Set struct {
	rules []rule
}

// Default denylist, phrases that concede the debate or shut it down.
var defaultBannedTerms = []string{
	"you're absolutely right",
	"i agree completely",
	"i was wrong",
	"i change my mind",
	"end of discussion",
	"nothing more to say",
	"case closed",
	"end of story",
	"tienes toda la razón",
	"estoy completamente de acuerdo",
	"fin de la discusión",
}

// NewSet builds the rule set from config, skipping disabled rules.
func NewSet(cfg Config) *Set {
	disabled := make(map[string]bool, len(cfg.DisabledRules))
	for _, name := range cfg.DisabledRules {
		disabled[strings.ToLower(name)] = true
	}

	banned := cfg.BannedTerms
	if len(banned) == 0 {
		banned = defaultBannedTerms
	}

	s := &Set{}
	if !disabled["length"] {
		s.rules = append(s.rules, lengthRule(cfg.MinChars, cfg.MaxChars))
	}
	if !disabled["repetition"] {
		s.rules = append(s.rules, repetitionRule(cfg.SimilarityThreshold))
	}
	if !disabled["banned"] {
		s.rules = append(s.rules, bannedContentRule(banned))
	}
	if !disabled["topic"] {
		s.rules = append(s.rules, topicRelevanceRule())
	}
	return s
}

// Validate runs every enabled rule and collects all violations.
func (s *Set) Validate(in Input) Outcome {
	var failed []RuleName
	for _, r := range s.rules {
		failed = append(failed, r(in)...)
	}
	return Outcome{Passed: len(failed) == 0, Failed: failed}
}

func lengthRule(minChars, maxChars int) rule {
	return func(in Input) []RuleName {
		n := len(strings.TrimSpace(in.Candidate))
		var out []RuleName
		if n < minChars {
			out = append(out, TooShort)
		}
		if maxChars > 0 && n > maxChars {
			out = append(out, TooLong)
		}
		return out
	}
}

// repetitionRule flags candidates that are near-duplicates of any prior bot
// reply in the conversation. Similarity is Sorensen-Dice over the lowercased
// text; identical replies score 1.0.
func repetitionRule(threshold float64) rule {
	metric := metrics.NewSorensenDice()
	return func(in Input) []RuleName {
		candidate := normalizeText(in.Candidate)
		for _, prior := range in.PriorBot {
			if strutil.Similarity(candidate, normalizeText(prior), metric) >= threshold {
				return []RuleName{Repetitive}
			}
		}
		return nil
	}
}

func bannedContentRule(terms []string) rule {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	return func(in Input) []RuleName {
		candidate := strings.ToLower(in.Candidate)
		for _, term := range lowered {
			if term != "" && strings.Contains(candidate, term) {
				return []RuleName{Disallowed}
			}
		}
		return nil
	}
}

// topicRelevanceRule checks the candidate shares vocabulary with the
// conversation's topic or the bot's position. Deliberately lenient: only a
// reply sharing no content word at all is flagged.
func topicRelevanceRule() rule {
	return func(in Input) []RuleName {
		markers := contentWords(in.Topic + " " + in.BotPosition)
		if len(markers) == 0 {
			return nil
		}
		candidate := contentWords(in.Candidate)
		for w := range candidate {
			if markers[w] {
				return nil
			}
		}
		return []RuleName{OffTopic}
	}
}

// contentWords extracts lowercased words of 4+ letters; shorter words are
// mostly articles and pronouns in both supported languages.
func contentWords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len([]rune(w)) >= 4 {
			out[w] = true
		}
	}
	return out
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
