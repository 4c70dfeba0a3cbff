package hub

import "sync"

type sessionKey struct {
	userID      int64
	workspaceID int64
}

type subscriber struct {
	conn   Conn
	userID int64
}

// Registry tracks live connections per workspace and per user. It holds no
// durable state and performs no I/O; all methods are cheap map mutations
// behind one mutex.
type Registry struct {
	mu         sync.RWMutex
	workspaces map[int64]map[Conn]int64 // workspace -> conn -> user
	sessions   map[sessionKey]Conn
	users      map[int64]Conn // most recent connection per user, for notifications
}

func NewRegistry() *Registry {
	return &Registry{
		workspaces: make(map[int64]map[Conn]int64),
		sessions:   make(map[sessionKey]Conn),
		users:      make(map[int64]Conn),
	}
}

// Register adds the connection. At most one connection per (user, workspace)
// is kept: a duplicate connect evicts the previous one, which is returned so
// the caller can close it.
func (r *Registry) Register(conn Conn, userID, workspaceID int64) (evicted Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{userID: userID, workspaceID: workspaceID}
	if prev, ok := r.sessions[key]; ok && prev != conn {
		evicted = prev
		delete(r.workspaces[workspaceID], prev)
	}

	if r.workspaces[workspaceID] == nil {
		r.workspaces[workspaceID] = make(map[Conn]int64)
	}
	r.workspaces[workspaceID][conn] = userID
	r.sessions[key] = conn
	r.users[userID] = conn

	return evicted
}

// Unregister removes the connection. Entries that already point at a newer
// connection for the same user are left alone. The return reports whether a
// live session for the (user, workspace) pair remains afterwards, which is
// the case when this connection was evicted by a reconnect.
func (r *Registry) Unregister(conn Conn, userID, workspaceID int64) (remaining bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conns, ok := r.workspaces[workspaceID]; ok {
		if conns[conn] == userID {
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(r.workspaces, workspaceID)
		}
	}

	key := sessionKey{userID: userID, workspaceID: workspaceID}
	if r.sessions[key] == conn {
		delete(r.sessions, key)
	}
	if r.users[userID] == conn {
		delete(r.users, userID)
	}

	_, remaining = r.sessions[key]
	return remaining
}

// Drop removes a dead connection wherever it appears. Used when a write
// fails mid-broadcast.
func (r *Registry) Drop(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for workspaceID, conns := range r.workspaces {
		if _, ok := conns[conn]; ok {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(r.workspaces, workspaceID)
			}
		}
	}
	for key, c := range r.sessions {
		if c == conn {
			delete(r.sessions, key)
		}
	}
	for userID, c := range r.users {
		if c == conn {
			delete(r.users, userID)
		}
	}
}

// Subscribers returns a snapshot of the workspace's connections. Broadcast
// iterates the snapshot so a registration racing the fan-out is simply not
// included.
func (r *Registry) Subscribers(workspaceID int64) []subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.workspaces[workspaceID]
	subs := make([]subscriber, 0, len(conns))
	for conn, userID := range conns {
		subs = append(subs, subscriber{conn: conn, userID: userID})
	}
	return subs
}

// UserConn returns the user's most recent live connection, if any.
func (r *Registry) UserConn(userID int64) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.users[userID]
	return conn, ok
}

// Online reports the number of live connections in a workspace.
func (r *Registry) Online(workspaceID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces[workspaceID])
}
