// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

// Conversation is the ordered message list for one media type within a
// session. It is an explicit value owned by the caller's session rather
// than engine-internal state, so lifecycle (create, append, reset) is
// visible and rounds are deterministic under test.
//
// Invariant: when non-empty, the first message is the system prompt.
type Conversation struct {
	mediaType MediaType
	messages  []Message
}

// NewConversation creates an empty conversation scoped to a media type.
func NewConversation(mt MediaType) *Conversation {
	return &Conversation{mediaType: mt}
}

// MediaType returns the media type this conversation is scoped to.
func (c *Conversation) MediaType() MediaType {
	return c.mediaType
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the message list.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Seed resets the conversation to [system, user]. Used for the first
// round of a session or after a mode switch.
func (c *Conversation) Seed(system, user string) {
	c.messages = []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(role Role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Reset discards all messages. Called when the session switches content
// mode or starts over.
func (c *Conversation) Reset() {
	c.messages = nil
}

// EnforceBudget bounds conversational growth: once the message count
// exceeds max, the conversation collapses to exactly the system prompt
// plus the most recent user message. Assistant context is sacrificed to
// keep the request payload bounded across many rounds.
func (c *Conversation) EnforceBudget(max int) {
	if len(c.messages) <= max {
		return
	}

	var system, lastUser *Message
	if c.messages[0].Role == RoleSystem {
		system = &c.messages[0]
	}
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleUser {
			lastUser = &c.messages[i]
			break
		}
	}

	kept := make([]Message, 0, 2)
	if system != nil {
		kept = append(kept, *system)
	}
	if lastUser != nil {
		kept = append(kept, *lastUser)
	}
	c.messages = kept
}

// replaceTail swaps the entire message list. Used by the engine to
// record the expanded chunked delivery sequence in place of the single
// oversized user message.
func (c *Conversation) replaceTail(messages []Message) {
	c.messages = messages
}

// chunkString splits s into size-character chunks. The final chunk may
// be shorter; an empty string yields no chunks.
func chunkString(s string, size int) []string {
	if s == "" || size <= 0 {
		return nil
	}
	chunks := make([]string, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		end := start + size
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[start:end])
	}
	return chunks
}
