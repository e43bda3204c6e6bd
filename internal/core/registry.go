package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/agentry-dev/agentry/internal/domain"
)

// Factory constructs an agent of one type. The returned agent is not yet
// initialized; the registry owns the construct-then-Init protocol.
type Factory func(name string, config map[string]any) Agent

// Registry maps type tags to agent factories and owns agent construction.
// It is an explicit object rather than package-global state so tests and
// composition roots can hold isolated registries.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	log       *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		log:       slog.Default().With("component", "registry"),
	}
}

// Register makes a factory available under typeTag. Registering the same
// tag again replaces the prior factory; callers avoid collisions by
// convention.
func (r *Registry) Register(typeTag string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeTag] = factory
	r.log.Info("agent type registered", "type", typeTag)
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Create constructs and initializes an agent of the given type. Either a
// fully initialized agent is returned, or an error and no agent: an Init
// failure aborts the whole construction.
func (r *Registry) Create(ctx context.Context, typeTag, name string, config map[string]any) (Agent, error) {
	r.mu.RLock()
	factory, ok := r.factories[typeTag]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("create agent %q: %q: %w", name, typeTag, domain.ErrUnknownAgentType)
	}

	a := factory(name, config)
	if err := a.Init(ctx); err != nil {
		return nil, fmt.Errorf("create agent %q: %w", name, err)
	}

	r.log.Info("agent created", "name", name, "type", typeTag)
	return a, nil
}

// CreateSpecialized builds an agent via Create, then applies field overrides.
// Only fields the concrete agent declares overridable are applied; unknown
// fields are skipped silently. Agents that do not implement Overridable
// accept no overrides.
func (r *Registry) CreateSpecialized(ctx context.Context, typeTag, name string, config, overrides map[string]any) (Agent, error) {
	a, err := r.Create(ctx, typeTag, name, config)
	if err != nil {
		return nil, err
	}

	o, ok := a.(Overridable)
	if !ok {
		return a, nil
	}

	applied := 0
	for field, value := range overrides {
		if o.ApplyOverride(field, value) {
			applied++
		}
	}
	r.log.Info("specialized agent created", "name", name, "type", typeTag, "overrides", applied)
	return a, nil
}
