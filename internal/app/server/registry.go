package server

import (
	"sync"

	"github.com/gambit-gg/gambit/pkg/logging"
	"go.uber.org/zap"
)

// Registry maps a user id to its single live connection. One binding per
// user: binding again displaces and forcibly closes the previous handle,
// so a stale tab cannot inject moves into a game the user has since
// reconnected to elsewhere.
type Registry struct {
	mu       sync.Mutex
	bindings map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]*Client),
	}
}

// Bind installs the client as the sole connection for its user. A prior
// binding is closed fire-and-forget before being overwritten.
func (r *Registry) Bind(client *Client) {
	userId := client.identity.UserId

	r.mu.Lock()
	prev := r.bindings[userId]
	r.bindings[userId] = client
	r.mu.Unlock()

	if prev != nil && prev != client {
		logging.Info("displacing previous connection", zap.String("user_id", userId))
		go prev.forceClose("connected elsewhere")
	}
}

// UnbindIf removes the binding only if it still points at the given
// client, and reports whether it did. A handle displaced by Bind returns
// false here, which keeps its dying read loop from tearing down state
// owned by the replacement connection.
func (r *Registry) UnbindIf(client *Client) bool {
	userId := client.identity.UserId

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bindings[userId] != client {
		return false
	}
	delete(r.bindings, userId)
	return true
}

// Lookup returns the live connection for a user, if any.
func (r *Registry) Lookup(userId string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.bindings[userId]
	return client, ok
}
