// Package wsclient is a request/response client for q processes serving
// JSON over websockets.
//
// A request is the JSON object {"id": "<uuid>", "query": "<q expression>"}.
// The server answers with the same id and either a "result" holding the
// JSON encoded value of the expression or an "error" holding the q error.
package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// State of a client, numbered like the connection states of the q drivers.
type State int

const (
	Disconnected State = iota
	Connected
	Connecting
	Disconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Connecting:
		return "connecting"
	case Disconnecting:
		return "disconnecting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNotConnected = errors.New("wsclient: not connected")
)

type (
	// Request is sent for every query.
	Request struct {
		ID    string `json:"id"`
		Query string `json:"query"`
	}

	// Response is the answer to the Request with the same ID.
	Response struct {
		ID     string          `json:"id"`
		Result json.RawMessage `json:"result,omitempty"`
		Error  string          `json:"error,omitempty"`
	}

	// RemoteError is an error signalled by the q process.
	RemoteError struct {
		Query   string
		Message string
	}

	// Client sends one query at a time over a websocket connection. It is
	// safe for concurrent use; concurrent queries are serialized.
	Client struct {
		mu    sync.Mutex
		conn  *websocket.Conn
		state State

		dialTimeout time.Duration
		newID       func() string
	}

	// Option configures Dial.
	Option func(*Client)
)

func (e *RemoteError) Error() string {
	return fmt.Sprintf("wsclient: query %q: '%s", e.Query, e.Message)
}

// WithDialTimeout bounds the websocket handshake, 0 means no bound other
// than the context.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.dialTimeout = d
	}
}

// WithIDGenerator replaces the uuid request ids.
func WithIDGenerator(f func() string) Option {
	return func(c *Client) {
		c.newID = f
	}
}

// Dial opens a websocket connection to url, for example
// "ws://127.0.0.1:5001/".
func Dial(ctx context.Context, url string, options ...Option) (*Client, error) {
	c := &Client{
		state: Connecting,
		newID: func() string { return uuid.New().String() },
	}
	for _, o := range options {
		o(c)
	}
	dialer := *websocket.DefaultDialer
	if c.dialTimeout > 0 {
		dialer.HandshakeTimeout = c.dialTimeout
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.state = Disconnected
		return nil, err
	}
	c.conn = conn
	c.state = Connected
	return c, nil
}

// State returns the connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Query sends q and waits for its response. Deadlines of ctx are applied to
// the write and the read; without a deadline Query waits until the response
// arrives. Responses with other ids are discarded.
func (c *Client) Query(ctx context.Context, q string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return nil, ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	req := Request{ID: c.newID(), Query: q}
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, c.fail(fmt.Errorf("wsclient: write: %w", err))
	}
	for {
		var resp Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				continue
			}
			return nil, c.fail(fmt.Errorf("wsclient: read: %w", err))
		}
		if resp.ID != req.ID {
			continue
		}
		if resp.Error != "" {
			return nil, &RemoteError{Query: q, Message: resp.Error}
		}
		if len(resp.Result) == 0 {
			return json.RawMessage("null"), nil
		}
		return resp.Result, nil
	}
}

// fail marks the client disconnected after a transport error, which leaves
// the stream in an unknown position.
func (c *Client) fail(err error) error {
	c.conn.Close()
	c.state = Disconnected
	return err
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return nil
	}
	c.state = Disconnecting
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := c.conn.Close()
	c.state = Disconnected
	return err
}
