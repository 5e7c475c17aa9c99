package macro

import "sort"

// Registry maps macro names to handler instances.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for the given macro name.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// Lookup returns the handler registered for name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered macro names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDefaultRegistry creates a Registry pre-populated with the built-in
// include macro.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(IncludeMacro, &IncludeHandler{})
	return r
}
