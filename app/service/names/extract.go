// Package names extracts a user's name from a free-text chat message.
package names

import (
	"regexp"
	"strings"
	"unicode"
)

// Explicit introduction patterns, tried in order against the lower-cased
// message. Intent is already unambiguous here, so capitalization is not
// required for the captured word.
var introPatterns = []*regexp.Regexp{
	regexp.MustCompile(`my name is\s+(\w+)`),
	regexp.MustCompile(`i'm\s+(\w+)`),
	regexp.MustCompile(`i am\s+(\w+)`),
	regexp.MustCompile(`call me\s+(\w+)`),
	regexp.MustCompile(`it's\s+(\w+)`),
	regexp.MustCompile(`this is\s+(\w+)`),
	regexp.MustCompile(`name:\s*(\w+)`),
}

var bareWordPattern = regexp.MustCompile(`^(\w+)$`)

// DefaultStopWords are common words that must never be taken for a name:
// greetings, question words, domain terms and auxiliary verbs.
var DefaultStopWords = []string{
	"hi", "hello", "hey", "good", "morning", "afternoon", "evening",
	"yes", "no", "ok", "okay", "sure", "please", "help", "thanks", "thank",
	"what", "how", "when", "where", "why", "who", "which",
	"vreg", "registration", "vehicle", "portal", "login", "password",
	"payment", "certificate", "support", "problem", "issue", "error",
	"can", "will", "should", "could", "would", "need", "want", "like",
	"get", "have", "make", "take", "give", "find", "know", "think",
	"see", "look", "check", "try", "use", "work", "go", "come",
}

type Extractor struct {
	stopWords map[string]struct{}
}

// NewExtractor builds an extractor with the given stop-word list.
func NewExtractor(stopWords []string) *Extractor {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}

	return &Extractor{stopWords: set}
}

// Extract returns the title-cased name found in message, if any.
//
// The bare-word fallback is deliberately conservative: it requires the raw
// token to be capitalized so short replies like "ok" or a lowercase "femi"
// are never mistaken for a name. A real name typed in lowercase is rejected
// too; that precision/recall trade-off is intentional.
func (e *Extractor) Extract(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	lowered := strings.ToLower(trimmed)

	for _, pattern := range introPatterns {
		match := pattern.FindStringSubmatch(lowered)
		if match == nil {
			continue
		}

		candidate := strings.TrimSpace(match[1])
		if e.acceptable(candidate) {
			return capitalize(candidate), true
		}
	}

	if match := bareWordPattern.FindStringSubmatch(lowered); match != nil {
		candidate := strings.TrimSpace(match[1])
		if e.acceptable(candidate) && isCapitalizedWord(trimmed) {
			return capitalize(candidate), true
		}
	}

	return "", false
}

func (e *Extractor) acceptable(candidate string) bool {
	if len(candidate) < 2 {
		return false
	}

	_, stop := e.stopWords[candidate]
	return !stop
}

// isCapitalizedWord checks the original, non-lowercased token: it must be
// alphabetic and start with an upper-case letter.
func isCapitalizedWord(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}

	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	return true
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}

	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
