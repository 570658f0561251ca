package chat

import "time"

// Conversation is the ordered, append-only message history for one user
// within one application instance. The durable document holding it is always
// named "mainThread": exactly one conversation per (applicationId, userId).
type Conversation struct {
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Clone returns a copy whose message slice is independent of the receiver's.
func (c Conversation) Clone() Conversation {
	copied := make([]Message, len(c.Messages))
	copy(copied, c.Messages)
	return Conversation{Messages: copied, LastUpdated: c.LastUpdated}
}

// Append returns a new conversation with msg added at the end.
func (c Conversation) Append(msg Message) Conversation {
	out := c.Clone()
	out.Messages = append(out.Messages, msg)
	return out
}

// Len returns the number of messages.
func (c Conversation) Len() int {
	return len(c.Messages)
}
