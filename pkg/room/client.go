package room

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"jaffre-server/pkg/protocol"
)

// Conn is a connection that can receive events
type Conn interface {
	// ID is unique per connection. A human's player ID is the ID of the connection that seated them
	ID() string
	// Send queues the message and returns false if it could not be queued
	Send(msg *protocol.Message) bool
	// Close asks the transport to hang up
	Close(reason string)
}

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	id string

	// send is a channel for sending messages to the client
	send chan *protocol.Message

	// close receives the reason the server wants the connection closed
	close     chan string
	closeOnce sync.Once
}

var _ Conn = (*Client)(nil)

// NewClient returns a new client object
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:  conn,
		id:    uuid.NewString(),
		send:  make(chan *protocol.Message, 256),
		close: make(chan string, 1),
	}
}

// ID returns the connection ID
func (c *Client) ID() string {
	return c.id
}

// Send send a message to the web client
func (c *Client) Send(msg *protocol.Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close asks the write loop to close the connection. Only the first reason is kept
func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		c.close <- reason
	})
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan *protocol.Message {
	return c.send
}

// CloseChan returns the channel the close reason is delivered on
func (c *Client) CloseChan() <-chan string {
	return c.close
}

// String returns a traceable identifier for the connection
func (c *Client) String() string {
	if c.Conn == nil {
		return c.id
	}

	return fmt.Sprintf("%s:%s", c.id, c.Conn.RemoteAddr())
}
