// Package chat implements the conversation session controller: an
// append-only transcript, input validation, credential acquisition, and a
// single in-flight question to the translation backend at a time.
package chat

// Sender identifies which side of the conversation produced a message.
type Sender string

// Transcript senders.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind annotates bot messages for differentiated rendering. User messages
// and the generic failure message carry KindNone.
type Kind string

// Bot message kinds.
const (
	KindNone    Kind = ""
	KindSQL     Kind = "sql"
	KindSummary Kind = "summary"
)

// Message is one unit of the transcript. Messages are never mutated or
// removed once appended; insertion order is display order.
type Message struct {
	Text   string
	Sender Sender
	Kind   Kind
}
