package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAliasExists  = errors.New("connection alias already registered")
	ErrUnknownAlias = errors.New("unknown connection alias")
)

// Registry holds named connections. It is owned by the application composer
// and handed to whatever needs a connection, never reached through a global.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
	order []string
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

func (r *Registry) Register(conn *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn.Alias()]; ok {
		return fmt.Errorf("%w: %q", ErrAliasExists, conn.Alias())
	}
	r.conns[conn.Alias()] = conn
	r.order = append(r.order, conn.Alias())
	return nil
}

func (r *Registry) Get(alias string) (*Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return conn, nil
}

// Default returns the connection registered under DefaultAlias, or nil.
func (r *Registry) Default() *Connection {
	conn, _ := r.Get(DefaultAlias)
	return conn
}

// All returns connections in registration order.
func (r *Registry) All() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Connection, 0, len(r.order))
	for _, alias := range r.order {
		out = append(out, r.conns[alias])
	}
	return out
}

func (r *Registry) DisconnectAll(ctx context.Context) error {
	var errs []error
	for _, conn := range r.All() {
		if err := conn.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("alias %q: %w", conn.Alias(), err))
		}
	}
	return errors.Join(errs...)
}
