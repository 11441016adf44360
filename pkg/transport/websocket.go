// ABOUTME: WebSocket transport wrapper
// ABOUTME: Thin message-oriented full-duplex stream over gorilla/websocket
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const handshakeTimeout = 5 * time.Second

// Conn is a message-oriented full-duplex stream carrying UTF-8 text (JSON)
// and opaque binary payloads. It has no knowledge of the Resonate protocol;
// callers own framing and routing.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
}

// Dial opens a WebSocket connection to url, bounded by the handshake
// timeout plus any deadline already present on ctx.
func Dial(ctx context.Context, url string) (*Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}

	return &Conn{ws: ws}, nil
}

// ReadMessage blocks for the next frame and reports whether it was binary.
func (c *Conn) ReadMessage() (binary bool, data []byte, err error) {
	msgType, data, err := c.ws.ReadMessage()
	if err != nil {
		return false, nil, err
	}
	return msgType == websocket.BinaryMessage, data, nil
}

// WriteJSON marshals v and sends it as a text frame.
func (c *Conn) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("transport: marshal: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("transport: write text: %w", err)
	}
	return nil
}

// WriteBinary sends data as a binary frame.
func (c *Conn) WriteBinary(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("transport: write binary: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
