package presence

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/relay/internal/domain"
	"github.com/nfrund/relay/internal/metrics"
)

// Identity binds a connection to the username it joined with.
type Identity struct {
	ConnID   string
	Username string
	Conn     domain.Connection
	JoinedAt time.Time

	seq uint64
}

// Registry is the set of joined connections, keyed by connection ID with a
// secondary index by username. Both maps are only touched under mu, so a
// username can never be held by two connections at once.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]Identity
	byName map[string]string // username -> connID
	seq    uint64
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]Identity),
		byName: make(map[string]string),
		logger: slog.Default().With("component", "presence"),
	}
}

// Register inserts an identity for conn if the connection has not joined yet
// and no other connection holds username. The comparison is exact.
func (r *Registry) Register(conn domain.Connection, username string) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if _, ok := r.byConn[connID]; ok {
		return Identity{}, fmt.Errorf("register %q on %s: %w", username, connID, domain.ErrAlreadyJoined)
	}
	if _, taken := r.byName[username]; taken {
		return Identity{}, fmt.Errorf("register %q on %s: %w", username, connID, domain.ErrDuplicateUsername)
	}

	r.seq++
	id := Identity{
		ConnID:   connID,
		Username: username,
		Conn:     conn,
		JoinedAt: time.Now().UTC(),
		seq:      r.seq,
	}
	r.byConn[connID] = id
	r.byName[username] = connID
	metrics.ActiveUsers.Set(float64(len(r.byConn)))

	r.logger.Debug("identity registered", "connID", connID, "username", username)
	return id, nil
}

// Unregister removes the identity for connID. It reports whether an entry
// existed; calling it for an unknown connection is a no-op.
func (r *Registry) Unregister(connID string) (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byConn[connID]
	if !ok {
		return Identity{}, false
	}
	delete(r.byConn, connID)
	if owner, exists := r.byName[id.Username]; exists && owner == connID {
		delete(r.byName, id.Username)
	}
	metrics.ActiveUsers.Set(float64(len(r.byConn)))

	r.logger.Debug("identity unregistered", "connID", connID, "username", id.Username)
	return id, true
}

// Find returns the identity registered for connID.
func (r *Registry) Find(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byConn[connID]
	return id, ok
}

// FindByUsername returns the identity holding username.
func (r *Registry) FindByUsername(username string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byName[username]
	if !ok {
		return Identity{}, false
	}
	id, ok := r.byConn[connID]
	return id, ok
}

// Snapshot returns a point-in-time copy of every identity in join order.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	ids := make([]Identity, 0, len(r.byConn))
	for _, id := range r.byConn {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	return newSnapshot(ids)
}

// Len returns the number of joined connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
