package hformat

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FunctionDescriptor describes one pipeline function: its canonical name,
// accepted aliases, argument bounds and effect on the render state.
type FunctionDescriptor struct {
	Name    string
	Aliases []string
	MinArgs int
	// MaxArgs of -1 means unlimited.
	MaxArgs int
	Apply   func(st *renderState, args []string) error
}

func (d *FunctionDescriptor) checkArgs(args []string) error {
	if len(args) < d.MinArgs {
		return NewArgumentError(d.Name, args,
			"expects at least "+strconv.Itoa(d.MinArgs)+" args, got "+strconv.Itoa(len(args)))
	}
	if d.MaxArgs >= 0 && len(args) > d.MaxArgs {
		return NewArgumentError(d.Name, args,
			"takes at most "+strconv.Itoa(d.MaxArgs)+" args, got "+strconv.Itoa(len(args)))
	}
	return nil
}

// Registry maps every function name and alias, case-insensitively, to its
// descriptor. It is built once and never mutated afterwards, so lookups
// are safe from concurrent Format calls.
type Registry struct {
	byName map[string]*FunctionDescriptor
}

// Lookup resolves a name or alias. Matching is case-insensitive and
// exact: unknown names are a lookup failure, never fuzzy-matched.
func (r *Registry) Lookup(name string) (*FunctionDescriptor, bool) {
	desc, ok := r.byName[strings.ToLower(name)]
	return desc, ok
}

// Names returns all canonical function names, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, desc := range r.byName {
		if !seen[desc.Name] {
			seen[desc.Name] = true
			names = append(names, desc.Name)
		}
	}
	sort.Strings(names)
	return names
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// getRegistry returns the global function registry, building it on first
// use.
func getRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = buildRegistry(functionCatalog())
	})
	return globalRegistry
}

// GetRegistry exposes the immutable function registry, mainly for tooling
// that lists the available functions.
func GetRegistry() *Registry {
	return getRegistry()
}

func buildRegistry(catalog []*FunctionDescriptor) *Registry {
	r := &Registry{byName: make(map[string]*FunctionDescriptor)}
	for _, desc := range catalog {
		r.byName[strings.ToLower(desc.Name)] = desc
		for _, alias := range desc.Aliases {
			r.byName[strings.ToLower(alias)] = desc
		}
	}
	return r
}
