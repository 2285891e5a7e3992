// Package realtime maintains the long-lived socket connection that
// delivers follow notifications and chat messages. One Channel is opened
// per mounted view and released deterministically with Close.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/session"
)

// Wire event names.
const (
	EventJoin                = "join"
	EventNotification        = "notification"
	EventMessageNotification = "messageNotification"
	EventMessage             = "message"
)

// Notification titles shown in the inbox.
const (
	TitleFollow  = "Follow"
	TitleMessage = "Message Notification"
)

// Envelope is the JSON frame exchanged over the socket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Notification is a follow or message alert pushed by the backend.
type Notification struct {
	Title   string
	Message string
}

// ChatEvent is a chat message pushed to the receiver in real time.
type ChatEvent struct {
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	CreatedAt string `json:"createdAt"`
}

// Channel is one socket connection. Handlers are registered before Dial;
// the read loop invokes them until the connection drops or Close is
// called. No reconnection policy beyond the dial itself.
type Channel struct {
	url   string
	store *session.Store

	onNotification func(Notification)
	onMessage      func(ChatEvent)

	mu        sync.Mutex
	conn      *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannel(socketURL string, store *session.Store) *Channel {
	return &Channel{
		url:   socketURL,
		store: store,
		done:  make(chan struct{}),
	}
}

// OnNotification registers the handler for follow and message alerts.
// Must be called before Dial.
func (c *Channel) OnNotification(fn func(Notification)) {
	c.onNotification = fn
}

// OnMessage registers the handler for realtime chat messages. Must be
// called before Dial.
func (c *Channel) OnMessage(fn func(ChatEvent)) {
	c.onMessage = fn
}

// Dial opens the connection, joins the user's room when a session exists,
// and starts the read loop.
func (c *Channel) Dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if sess, err := c.store.Current(); err == nil && sess.UserID != "" {
		if err := c.emit(EventJoin, sess.UserID); err != nil {
			_ = conn.Close()
			return err
		}
	}

	go c.readLoop(conn)
	return nil
}

// emit writes one event frame.
func (c *Channel) emit(event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return apperrors.ErrChannelClosed
	}
	return c.conn.WriteJSON(Envelope{Event: event, Data: raw})
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			select {
			case <-c.done:
			default:
				log.Err(err).Msg("Socket read failed")
			}
			return
		}
		c.dispatch(env)
	}
}

func (c *Channel) dispatch(env Envelope) {
	switch env.Event {
	case EventNotification:
		var data struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.Message == "" {
			return
		}
		if c.onNotification != nil {
			c.onNotification(Notification{Title: TitleFollow, Message: data.Message})
		}
	case EventMessageNotification:
		var data struct {
			Notification string `json:"notification"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.Notification == "" {
			return
		}
		if c.onNotification != nil {
			c.onNotification(Notification{Title: TitleMessage, Message: data.Notification})
		}
	case EventMessage:
		var msg ChatEvent
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return
		}
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

// Close stops the read loop and releases the connection. Safe to call
// more than once.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			err = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()
	})
	return err
}
