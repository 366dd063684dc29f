package actors

import (
	"fmt"
	"strings"

	"github.com/fleetledger/fleetledger/internal/model"
)

// Registry resolves raw actor spellings to configured actors.
type Registry struct {
	defs   []model.ActorDef
	byID   map[model.Actor]model.ActorDef
	byName map[string]model.Actor
}

// NewRegistry builds a Registry. IDs, names and aliases are matched
// case-insensitively and must not collide across actors.
func NewRegistry(defs []model.ActorDef) (*Registry, error) {
	r := &Registry{
		defs:   defs,
		byID:   make(map[model.Actor]model.ActorDef, len(defs)),
		byName: make(map[string]model.Actor),
	}
	for _, d := range defs {
		if !d.ID.IsKnown() {
			return nil, fmt.Errorf("actor %q has an empty id", d.Name)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate actor id %q", d.ID)
		}
		r.byID[d.ID] = d

		spellings := append([]string{string(d.ID), d.Name}, d.Aliases...)
		for _, s := range spellings {
			key := foldName(s)
			if key == "" {
				continue
			}
			if owner, ok := r.byName[key]; ok && owner != d.ID {
				return nil, fmt.Errorf("name %q maps to both %q and %q", s, owner, d.ID)
			}
			r.byName[key] = d.ID
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(defs []model.ActorDef) *Registry {
	r, err := NewRegistry(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the configured actors in configuration order.
func (r *Registry) All() []model.ActorDef {
	return r.defs
}

// IDs returns the actor IDs in configuration order.
func (r *Registry) IDs() []model.Actor {
	ids := make([]model.Actor, len(r.defs))
	for i, d := range r.defs {
		ids[i] = d.ID
	}
	return ids
}

// Resolve maps a raw spelling to an actor. Blank or unmatched input returns
// model.Unattributed and false.
func (r *Registry) Resolve(raw string) (model.Actor, bool) {
	a, ok := r.byName[foldName(raw)]
	if !ok {
		return model.Unattributed, false
	}
	return a, true
}

// DisplayName returns the configured name for id, or the id itself.
func (r *Registry) DisplayName(id model.Actor) string {
	if d, ok := r.byID[id]; ok && d.Name != "" {
		return d.Name
	}
	if !id.IsKnown() {
		return "Unattributed"
	}
	return string(id)
}

// foldName lowercases and collapses internal whitespace.
func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
