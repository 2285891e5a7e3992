// Package chat holds the state of one open conversation: history,
// realtime arrivals filtered to the open peer, and optimistic sends that
// roll back when the backend rejects them.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodieshq/foodies-client/api"
	"github.com/foodieshq/foodies-client/realtime"
)

// Message is one conversation entry. ID is client-generated and only set
// on optimistic sends; history and realtime entries carry an empty ID.
type Message struct {
	ID        string
	Content   string
	Sender    string
	Receiver  string
	CreatedAt time.Time
	Pending   bool
}

// Client is the slice of the dispatcher a conversation needs.
type Client interface {
	SendMessage(ctx context.Context, req api.SendMessageRequest) api.Result
	ChatHistory(ctx context.Context, sender, receiver string) ([]api.ChatMessage, api.Result)
}

// Conversation is the chat state between self and one peer.
type Conversation struct {
	client Client
	self   string
	peer   string

	nowTime func() time.Time
	newID   func() string

	mu       sync.Mutex
	messages []Message
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) Option {
	return func(c *Conversation) { c.nowTime = now }
}

// WithIDFunc sets the pending-message id generator (primarily for testing).
func WithIDFunc(newID func() string) Option {
	return func(c *Conversation) { c.newID = newID }
}

func NewConversation(client Client, self, peer string, options ...Option) *Conversation {
	c := &Conversation{
		client:  client,
		self:    self,
		peer:    peer,
		nowTime: time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Load replaces the conversation with the backend's history.
func (c *Conversation) Load(ctx context.Context) api.Result {
	history, res := c.client.ChatHistory(ctx, c.self, c.peer)
	if !res.Success {
		return res
	}

	messages := make([]Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, Message{
			Content:   m.Content,
			Sender:    m.Sender,
			Receiver:  m.Receiver,
			CreatedAt: parseTime(m.CreatedAt),
		})
	}

	c.mu.Lock()
	c.messages = messages
	c.mu.Unlock()
	return res
}

// Receive appends a realtime arrival if it belongs to the open peer.
func (c *Conversation) Receive(ev realtime.ChatEvent) {
	if ev.Sender != c.peer && ev.Receiver != c.peer {
		return
	}
	c.mu.Lock()
	c.messages = append(c.messages, Message{
		Content:   ev.Content,
		Sender:    ev.Sender,
		Receiver:  ev.Receiver,
		CreatedAt: parseTime(ev.CreatedAt),
	})
	c.mu.Unlock()
}

// Send appends the message optimistically and posts it. On failure the
// entry with the pending id is removed; every other message is untouched.
func (c *Conversation) Send(ctx context.Context, content string) api.Result {
	now := c.nowTime()
	pending := Message{
		ID:        c.newID(),
		Content:   content,
		Sender:    c.self,
		Receiver:  c.peer,
		CreatedAt: now,
		Pending:   true,
	}

	c.mu.Lock()
	c.messages = append(c.messages, pending)
	c.mu.Unlock()

	res := c.client.SendMessage(ctx, api.SendMessageRequest{
		Content:   content,
		CreatedAt: now,
		Sender:    c.self,
		Receiver:  c.peer,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.messages {
		if c.messages[i].ID != pending.ID {
			continue
		}
		if res.Success {
			c.messages[i].Pending = false
		} else {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
		}
		break
	}
	return res
}

// Messages returns the conversation in order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
