package capture

import "sync"

// Registry holds client instances keyed by project token. It replaces
// the process-wide singleton pattern: the application's composition root
// owns the registry and hands it to the parts of the app that share
// instances.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register adds a client under its project token, replacing any
// previous entry for that token.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Token()] = c
}

// Get returns the client for a token and whether it exists.
func (r *Registry) Get(token string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[token]
	return c, ok
}

// Deregister removes the client for a token without closing it.
func (r *Registry) Deregister(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, token)
}

// Tokens returns the registered project tokens.
// The order is not guaranteed.
func (r *Registry) Tokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tokens := make([]string, 0, len(r.clients))
	for token := range r.clients {
		tokens = append(tokens, token)
	}
	return tokens
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes every registered client and empties the registry.
// The first error is returned; closing continues regardless.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for token, c := range r.clients {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.clients, token)
	}
	return first
}
