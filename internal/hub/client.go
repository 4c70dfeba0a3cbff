package hub

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dealflow.app/hub/common/logger"
)

const writeTimeout = 10 * time.Second

// wsConn adapts a gorilla connection to the Conn interface. Gorilla permits
// one concurrent writer, so data writes are serialized here; control frames
// (pings) use WriteControl, which gorilla allows concurrently.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}

// Client owns one WebSocket session: the inbound read loop, idle-timeout
// enforcement, and the ping keepalive.
type Client struct {
	ws          *websocket.Conn
	conn        *wsConn
	hub         *Hub
	userID      int64
	workspaceID int64

	idleTimeout  time.Duration
	pingInterval time.Duration
}

func NewClient(h *Hub, ws *websocket.Conn, userID, workspaceID int64, idleTimeout, pingInterval time.Duration) *Client {
	return &Client{
		ws:           ws,
		conn:         &wsConn{ws: ws},
		hub:          h,
		userID:       userID,
		workspaceID:  workspaceID,
		idleTimeout:  idleTimeout,
		pingInterval: pingInterval,
	}
}

// Run registers the client and processes inbound messages until the
// connection drops or goes idle. Messages from this connection are handled
// in arrival order; no ordering holds across connections.
func (c *Client) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: logger.Ptr(c.workspaceID),
		UserID:      logger.Ptr(c.userID),
		Component:   "hub.client",
	})

	if err := c.hub.Connect(ctx, c.conn, c.userID, c.workspaceID); err != nil {
		slog.ErrorContext(ctx, "connect failed", "error", err)
		_ = c.conn.Close()
		return
	}
	defer c.hub.Disconnect(ctx, c.conn, c.userID, c.workspaceID)
	defer func() { _ = c.conn.Close() }()

	_ = c.ws.SetReadDeadline(time.Now().Add(c.idleTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.idleTimeout))
	})

	stop := make(chan struct{})
	defer close(stop)
	go c.pingLoop(ctx, stop)

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, net.ErrClosed) {
				slog.DebugContext(ctx, "read loop ended", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.idleTimeout))
		c.hub.HandleMessage(ctx, c.conn, c.userID, c.workspaceID, raw)
	}
}

// pingLoop keeps idle-but-healthy connections alive. A peer that stops
// answering pings misses its read deadline and is reaped by the read loop.
func (c *Client) pingLoop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
