package utils

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguage is assumed when detection cannot decide.
const DefaultLanguage = "en"

var detector = lingua.NewLanguageDetectorBuilder().
	FromLanguages(lingua.English, lingua.Spanish).
	Build()

// DetectLanguage returns the ISO 639-1 code of text, defaulting to English
// when the text is empty or ambiguous.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultLanguage
	}
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return DefaultLanguage
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// ResolveLanguage picks the conversation language. An explicit hint wins;
// "auto" or empty falls through to the extractor's guess, then to detection
// on the user's message.
func ResolveLanguage(hint, extracted, text string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h != "" && h != "auto" {
		return h
	}
	e := strings.ToLower(strings.TrimSpace(extracted))
	if len(e) == 2 {
		return e
	}
	return DetectLanguage(text)
}
