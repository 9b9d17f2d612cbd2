package identity

import "errors"

var (
	ErrEmptyName = errors.New("identity: empty participant name")
	ErrUnknown   = errors.New("identity: unknown participant")
	ErrDuplicate = errors.New("identity: participant already registered")
)

// Registry maps participant names to their identities.
// It is populated once at startup and read-only afterwards, so concurrent
// lookups need no locking.
type Registry struct {
	byName map[string]*Identity
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Identity{}}
}

// Add registers an identity under its name.
func (r *Registry) Add(id *Identity) error {
	if id == nil || id.Name == "" {
		return ErrEmptyName
	}
	if _, ok := r.byName[id.Name]; ok {
		return ErrDuplicate
	}
	r.byName[id.Name] = id
	return nil
}

// Get returns the identity registered under name.
func (r *Registry) Get(name string) (*Identity, error) {
	id, ok := r.byName[name]
	if !ok {
		return nil, ErrUnknown
	}
	return id, nil
}

// Names returns the registered participant names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
