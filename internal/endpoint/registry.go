// Package endpoint maps symbolic endpoint keys to the HTTP method and
// URL path template of the corresponding backend operation.
package endpoint

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fieldops/franchise-client/internal/runtimex"
)

var (
	// ErrUnknownEndpoint indicates that a key is not registered.
	ErrUnknownEndpoint = errors.New("endpoint: unknown endpoint key")

	// ErrDuplicateEndpoint indicates that a key is already registered.
	ErrDuplicateEndpoint = errors.New("endpoint: duplicate endpoint key")

	// ErrUnsupportedMethod indicates a method other than GET, POST, PUT, DELETE.
	ErrUnsupportedMethod = errors.New("endpoint: unsupported method")

	// ErrInvalidDescriptor indicates an empty key or a nil template.
	ErrInvalidDescriptor = errors.New("endpoint: invalid descriptor")
)

// Descriptor describes how to call one logical API operation.
type Descriptor struct {
	// Method is the HTTP method.
	Method Method

	// Template produces the URL path.
	Template Template
}

// Path returns the URL path for the given optional path parameter.
func (d Descriptor) Path(param string) string {
	return d.Template.build(param)
}

// Registry maps endpoint keys to descriptors. Descriptors cannot be
// replaced or removed once registered.
//
// The zero value is ready to use. Methods are safe for concurrent use.
type Registry struct {
	entries map[string]Descriptor
	mu      sync.RWMutex
}

// NewRegistry creates an empty [*Registry].
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds key to the registry. The method name is case-insensitive.
func (r *Registry) Register(key, method string, template Template) error {
	if key == "" || template == nil {
		return fmt.Errorf("%w: key=%q", ErrInvalidDescriptor, key)
	}
	if fx, ok := template.(ParamPath); ok && fx == nil {
		return fmt.Errorf("%w: key=%q", ErrInvalidDescriptor, key)
	}
	m, err := ParseMethod(method)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()
	r.mu.Lock()
	if _, found := r.entries[key]; found {
		return fmt.Errorf("%w: %s", ErrDuplicateEndpoint, key)
	}
	if r.entries == nil {
		r.entries = make(map[string]Descriptor)
	}
	r.entries[key] = Descriptor{Method: m, Template: template}
	return nil
}

// MustRegister is like Register but panics on failure. Use it when
// building static catalogs.
func (r *Registry) MustRegister(key, method string, template Template) {
	runtimex.PanicOnError(r.Register(key, method, template), "endpoint.MustRegister failed")
}

// Resolve returns the descriptor registered under key. The error
// wraps [ErrUnknownEndpoint] when the key is not registered.
func (r *Registry) Resolve(key string) (Descriptor, error) {
	defer r.mu.RUnlock()
	r.mu.RLock()
	desc, found := r.entries[key]
	if !found {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, key)
	}
	return desc, nil
}

// Keys returns the registered keys in lexical order.
func (r *Registry) Keys() []string {
	defer r.mu.RUnlock()
	r.mu.RLock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
