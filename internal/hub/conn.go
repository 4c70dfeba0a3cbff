// Package hub is the live half of the collaboration layer: it tracks
// connections per workspace, fans messages out, dispatches the inbound
// protocol, and delivers notifications. All durable state goes through the
// store package; everything here is process-local and lost on restart.
package hub

// Conn is one live client connection. The concrete type wraps a WebSocket;
// tests substitute fakes. WriteJSON must be safe for concurrent use.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}
