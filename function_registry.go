package lineage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// FunctionRegistry stores lineage functions keyed by name. Registered
// functions are exposed to the condition engines as callables whose results
// keep their provenance.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under its name, guarding against duplicates.
func (r *FunctionRegistry) Register(fn Function) error {
	if fn == nil {
		return fmt.Errorf("lineage: function is nil")
	}
	name := strings.TrimSpace(fn.Name())
	if name == "" {
		return fmt.Errorf("lineage: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("lineage: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.functions[strings.ToLower(name)]
	return fn, ok
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call lifts args to values and computes the function registered for name,
// returning the resulting value with its provenance intact.
func (r *FunctionRegistry) Call(name string, args ...any) (Value, error) {
	if r == nil {
		return nil, fmt.Errorf("lineage: function registry is nil")
	}
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("lineage: function %q not registered", name)
	}
	values := make([]Value, len(args))
	for i, arg := range args {
		values[i] = Lift(arg)
	}
	return fn.Compute(values)
}

// CallConcrete is Call with the provenance wrapper stripped, for injection
// into expression engine environments.
func (r *FunctionRegistry) CallConcrete(name string, args ...any) (any, error) {
	value, err := r.Call(name, args...)
	if err != nil {
		return nil, err
	}
	return value.Concrete(), nil
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry configures evaluation to use registry.
func WithFunctionRegistry(registry *FunctionRegistry) EvalOption {
	return func(cfg *evalConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithFunction registers fn for the evaluation run.
func WithFunction(fn Function) EvalOption {
	return func(cfg *evalConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(fn)
	}
}
