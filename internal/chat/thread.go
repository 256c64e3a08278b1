package chat

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// WelcomeText is the assistant's opening message, shown before the user has
// said anything.
const WelcomeText = "👋 Salut ! Je suis ton assistant entrepreneuriat africain ! 💼\n\nJe peux t'aider avec :\n• 💡 Démarrer ton activité\n• 💰 Gérer ton argent\n• 👥 Attirer des clients\n• 📈 Développer ton business\n\nPose-moi tes questions ! 🚀"

// Message is one entry in a conversation thread.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FromUser  bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// Thread is an ordered, append-only conversation log held in memory. It
// starts with the welcome message and is discarded with the conversation;
// nothing is persisted. Safe for concurrent use.
type Thread struct {
	mu       sync.Mutex
	messages []Message
	limit    int
}

// ThreadOption configures a [Thread].
type ThreadOption func(*Thread)

// WithHistoryLimit caps the number of retained messages. When the cap is
// exceeded the oldest messages after the welcome are dropped. Non-positive
// values mean unbounded.
func WithHistoryLimit(n int) ThreadOption {
	return func(t *Thread) { t.limit = n }
}

// NewThread creates a thread seeded with the welcome message.
func NewThread(opts ...ThreadOption) *Thread {
	t := &Thread{}
	for _, o := range opts {
		o(t)
	}
	t.append(WelcomeText, false)
	return t
}

// AddUser appends a user message and returns it.
func (t *Thread) AddUser(text string) Message {
	return t.append(text, true)
}

// AddAssistant appends an assistant reply and returns it.
func (t *Thread) AddAssistant(text string) Message {
	return t.append(text, false)
}

func (t *Thread) append(text string, fromUser bool) Message {
	msg := Message{
		ID:        messageID(),
		Text:      text,
		FromUser:  fromUser,
		Timestamp: time.Now().UTC(),
	}
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	if t.limit > 0 && len(t.messages) > t.limit {
		// Keep the welcome at index 0, drop the oldest after it.
		excess := len(t.messages) - t.limit
		t.messages = append(t.messages[:1], t.messages[1+excess:]...)
	}
	t.mu.Unlock()
	return msg
}

// Messages returns a copy of the thread in insertion order.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages, welcome included.
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func messageID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}
