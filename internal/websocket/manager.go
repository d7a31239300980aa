package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/nfrund/relay/internal/metrics"
)

// ClientManager tracks open connections, joined or not.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[string]*Conn
}

// NewClientManager creates a new ClientManager.
func NewClientManager() *ClientManager {
	return &ClientManager{clients: make(map[string]*Conn)}
}

// Add registers a new client.
func (m *ClientManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID()] = c
	metrics.OpenConnections.Set(float64(len(m.clients)))
}

// Remove forgets a client once its pumps have exited.
func (m *ClientManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return
	}
	delete(m.clients, id)
	metrics.OpenConnections.Set(float64(len(m.clients)))
}

func (m *ClientManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// CloseAll asks every open connection to close with reason.
func (m *ClientManager) CloseAll(reason string) {
	m.mu.RLock()
	all := make([]*Conn, 0, len(m.clients))
	for _, c := range m.clients {
		all = append(all, c)
	}
	m.mu.RUnlock()

	for _, c := range all {
		_ = c.Close(reason)
	}
}

// WaitEmpty blocks until no connections remain or ctx is done.
func (m *ClientManager) WaitEmpty(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for m.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
