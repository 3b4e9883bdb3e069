package wsserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/ports"
)

// clientMessage is an inbound JSON frame: an editor event, or one of the
// commands "load", "download" and "state".
type clientMessage struct {
	editor.Event
	Source string `json:"source,omitempty"`
}

type stateMessage struct {
	Type       string           `json:"type"`
	State      string           `json:"state"`
	Percent    float64          `json:"percent"`
	ScaleLabel string           `json:"scaleLabel"`
	Caption    string           `json:"caption,omitempty"`
	Dragging   bool             `json:"dragging"`
	Transform  transformMessage `json:"transform"`
	Image      sizeOf           `json:"image"`
	Exports    int              `json:"exports"`
}

type transformMessage struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

type sizeOf struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sizeMessage struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Caption string `json:"caption"`
}

type downloadMessage struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Caption string `json:"caption"`
	Data    string `json:"data"` // Data URL
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type clearedMessage struct {
	Type string `json:"type"`
}

type outbound struct {
	messageType int
	data        []byte
}

// client is the write side of one connection. Only writeLoop touches the
// connection for writing.
type client struct {
	conn   *websocket.Conn
	opts   Options
	logger ports.Logger
	out    chan outbound
	done   chan struct{}

	// Loop-owned.
	touch bool
}

func newClient(conn *websocket.Conn, opts Options, logger ports.Logger) *client {
	return &client{
		conn:   conn,
		opts:   opts,
		logger: logger,
		out:    make(chan outbound, 32),
		done:   make(chan struct{}),
	}
}

// writeLoop sends queued frames and keepalive pings until ctx is done,
// then closes the connection.
func (c *client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.conn.WriteMessage(msg.messageType, msg.data); err != nil {
				c.logger.Warn("WebSocket write error: %s", err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.opts.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				c.logger.Warn("WebSocket ping error: %s", err)
				return
			}
		}
	}
}

func (c *client) send(messageType int, data []byte) {
	select {
	case c.out <- outbound{messageType: messageType, data: data}:
	case <-c.done:
	}
}

// sendExport forwards an export; nil means the image was discarded.
func (c *client) sendExport(data []byte) {
	if data == nil {
		c.sendJSON(clearedMessage{Type: "cleared"})
		return
	}
	c.send(websocket.BinaryMessage, data)
}

func (c *client) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to encode message: %s", err)
		return
	}
	c.send(websocket.TextMessage, data)
}

func (c *client) sendError(err error) {
	c.sendJSON(errorMessage{Type: "error", Message: err.Error()})
}

// sendState runs on the loop.
func (c *client) sendState(session *editor.Session) {
	t := session.Transform()
	size := session.ImageSize()
	msg := stateMessage{
		Type:       "state",
		State:      session.State().String(),
		Percent:    session.Percent(),
		ScaleLabel: session.ScaleLabel(),
		Dragging:   session.Dragging(),
		Transform:  transformMessage{Scale: t.Scale, OffsetX: t.Offset.X, OffsetY: t.Offset.Y},
		Image:      sizeOf{Width: size.Width, Height: size.Height},
		Exports:    session.Exports(),
	}
	if session.State() == editor.StateReady {
		msg.Caption = session.Caption(c.touch)
	}
	c.sendJSON(msg)
}
