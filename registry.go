package hablare

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

// Registry holds provider descriptors and their runtime enablement
// state, and produces provider instances on demand. Construct one per
// process and pass it where needed; there is no package-level instance.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]provider.Descriptor
	enabled     map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]provider.Descriptor),
		enabled:     make(map[string]bool),
	}
}

// Register inserts a descriptor under its (lowercased) id. With replace
// false an already-registered id is left untouched.
func (r *Registry) Register(desc provider.Descriptor, replace bool) {
	id := strings.ToLower(desc.ID)
	desc.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.descriptors[id]; ok && !replace {
		return
	}
	r.descriptors[id] = desc
	r.enabled[id] = desc.DefaultEnabled || desc.AlwaysEnabled
}

// SetEnabled toggles a provider. Always-enabled providers silently
// ignore false.
func (r *Registry) SetEnabled(id string, enabled bool) {
	id = strings.ToLower(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	desc, ok := r.descriptors[id]
	if !ok {
		return
	}
	if desc.AlwaysEnabled && !enabled {
		return
	}
	r.enabled[id] = enabled
}

func (r *Registry) Enabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[strings.ToLower(id)]
}

func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[strings.ToLower(id)]
	return ok
}

// IDs returns the registered provider ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}

// Provider instantiates the provider registered under id without any
// enablement or configuration check. Nil for unknown ids.
func (r *Registry) Provider(id string) provider.VoiceProvider {
	r.mu.RLock()
	desc, ok := r.descriptors[strings.ToLower(id)]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return desc.New()
}

// ConfiguredProvider resolves id to a usable provider instance. It
// fails with ErrNotRegistered, ErrDisabled or ErrNotConfigured; the
// caller can rely on errors.Is to tell them apart.
func (r *Registry) ConfiguredProvider(id string) (provider.VoiceProvider, error) {
	id = strings.ToLower(id)

	r.mu.RLock()
	desc, ok := r.descriptors[id]
	enabled := r.enabled[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%q: %w", id, speech.ErrNotRegistered)
	}
	if !enabled {
		return nil, fmt.Errorf("%q: %w", id, speech.ErrDisabled)
	}
	p := desc.New()
	if !p.Configured() {
		return nil, fmt.Errorf("%q: %w", id, speech.ErrNotConfigured)
	}
	return p, nil
}

// InstantiateAll returns one instance per registered descriptor,
// regardless of enablement or configuration state.
func (r *Registry) InstantiateAll() []provider.VoiceProvider {
	r.mu.RLock()
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	factories := make([]provider.Factory, 0, len(ids))
	for _, id := range ids {
		factories = append(factories, r.descriptors[id].New)
	}
	r.mu.RUnlock()

	// Factories run outside the lock; they may do keychain or network
	// configuration probes.
	list := make([]provider.VoiceProvider, 0, len(factories))
	for _, f := range factories {
		list = append(list, f())
	}
	return list
}
