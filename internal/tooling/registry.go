package tooling

import (
	"fmt"

	"bullhorn/internal/domain"
)

// Registry holds tool descriptors in registration order. The order is part of
// the advertised contract: Definitions and Names must return the same sequence
// on every call for the life of the process. The registry is written once at
// startup and read-only afterwards, so no locking is needed.
type Registry struct {
	defs  []domain.ToolDefinition
	index map[string]int
}

// NewRegistry returns an empty, ready-to-use registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a descriptor. Returns an error for an empty name or a
// duplicate name.
func (r *Registry) Register(def domain.ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.index[def.Name]; exists {
		return fmt.Errorf("tool %q is already registered", def.Name)
	}
	r.index[def.Name] = len(r.defs)
	r.defs = append(r.defs, def)
	return nil
}

// Get returns the descriptor with the given name.
func (r *Registry) Get(name string) (domain.ToolDefinition, bool) {
	i, ok := r.index[name]
	if !ok {
		return domain.ToolDefinition{}, false
	}
	return r.defs[i], true
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Name
	}
	return out
}

// Definitions returns all descriptors in registration order, suitable for
// verbatim export to the calling host.
func (r *Registry) Definitions() []domain.ToolDefinition {
	out := make([]domain.ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}
