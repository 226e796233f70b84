package cheetah

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gopsql/cheetah/wsclient"
	"github.com/gopsql/logger"
)

// Registry holds the models compiled against one connection. It replaces a
// process wide model map: create one at startup and Close it on shutdown.
// Calls through a Registry are serialized, so at most one request is in
// flight on its connection.
type Registry struct {
	mu         sync.Mutex
	connection Connection
	logger     logger.Logger
	models     map[string]*Model
}

// New creates a Registry for a connection. A logger.Logger option is passed
// to every compiled model.
func New(conn Connection, options ...interface{}) *Registry {
	r := &Registry{
		connection: conn,
		models:     map[string]*Model{},
	}
	for _, option := range options {
		if l, ok := option.(logger.Logger); ok {
			r.logger = l
		}
	}
	return r
}

// Connect dials the websocket endpoint of the configuration and returns a
// Registry over a QConnection.
func Connect(ctx context.Context, cfg *Config, options ...interface{}) (*Registry, error) {
	if cfg.Debug {
		options = append(options, logger.StandardLogger)
	}
	client, err := wsclient.Dial(ctx, cfg.URL(), wsclient.WithDialTimeout(cfg.DialTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL(), err)
	}
	return New(NewQConnection(client, options...), options...), nil
}

// Connection of the Registry.
func (r *Registry) Connection() Connection {
	return r.connection
}

// Model compiles the schema for name and registers the Model, replacing
// the model previously registered with the same name.
func (r *Registry) Model(ctx context.Context, name string, schema *Schema) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var options []interface{}
	if r.logger != nil {
		options = append(options, r.logger)
	}
	m, err := Compile(ctx, name, schema, r.connection, options...)
	if err != nil {
		return nil, err
	}
	r.models[name] = m
	return m, nil
}

// Create appends rows to the table of a registered model, see Model.Create.
func (r *Registry) Create(ctx context.Context, name string, rows interface{}) ([]EncodedRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("model '%s' is not registered", name)
	}
	return m.Create(ctx, rows)
}

// Lookup returns the registered model.
func (r *Registry) Lookup(name string) (*Model, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[name]
	return m, ok
}

// Models returns the sorted names of the registered models.
func (r *Registry) Models() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close forgets all models and closes the connection if it can be closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = map[string]*Model{}
	if r.connection == nil {
		return nil
	}
	return closeConnection(r.connection)
}
