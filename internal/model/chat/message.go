package chat

import "time"

// Sender values for Message.Sender.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Confidence is the ordinal trust tier attached to assistant answers.
type Confidence string

const (
	ConfidenceHigh      Confidence = "high"
	ConfidenceMedium    Confidence = "medium"
	ConfidenceLow       Confidence = "low"
	ConfidenceUncertain Confidence = "uncertain"
)

// Rank orders tiers from most to least trustworthy: high > medium > low > uncertain.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	case ConfidenceUncertain:
		return 0
	}
	return -1
}

// Valid reports whether c is one of the four known tiers.
func (c Confidence) Valid() bool {
	return c.Rank() >= 0
}

// Message is one conversational turn. Assistant messages always carry a
// confidence tier; user messages never do.
type Message struct {
	ID         string     `json:"id,omitempty"`
	Sender     string     `json:"sender"`
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
