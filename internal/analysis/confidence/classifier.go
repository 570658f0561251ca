package confidence

import (
	"errors"
	"strings"

	"github.com/policypal/backend/internal/model/chat"
)

// ErrEmptyResponse is returned when the generator handed us nothing to grade.
var ErrEmptyResponse = errors.New("response text is empty")

// Trigger phrases, most severe bucket first. Matching is case-insensitive
// substring containment, not word-boundary, so punctuation adjacent to a
// phrase still counts.
var (
	uncertainPhrases = []string{
		"i'm not sure",
		"i cannot find",
		"contact hr",
	}
	lowPhrases = []string{
		"sorry",
		"issue",
	}
)

// Classify grades generated answer text into a confidence tier. The first
// bucket with a matching phrase wins; text matching nothing lands on medium.
// No rule currently yields high: that tier is reserved for turns the system
// authors itself, such as the seeded greeting.
func Classify(responseText string) (chat.Confidence, error) {
	if strings.TrimSpace(responseText) == "" {
		return "", ErrEmptyResponse
	}

	normalized := strings.ToLower(responseText)

	if containsAny(normalized, uncertainPhrases) {
		return chat.ConfidenceUncertain, nil
	}
	if containsAny(normalized, lowPhrases) {
		return chat.ConfidenceLow, nil
	}
	return chat.ConfidenceMedium, nil
}

func containsAny(normalized string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
