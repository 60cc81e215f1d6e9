package service

import (
	"errors"
	"fmt"
	"log"
)

// Binding pairs a service with its Init arguments
type Binding struct {
	Service Service
	Args    []any
}

// Group runs a set of services: Init all in dependency order, then Start all
// Stop halts the started services in reverse order
type Group struct {
	started []Service
}

// Start initializes and starts every bound service
// On failure the services already started are stopped again
func (g *Group) Start(bindings ...Binding) error {
	ordered, err := order(bindings)
	if err != nil {
		return err
	}

	for _, b := range ordered {
		if err := b.Service.Init(b.Args...); err != nil {
			return fmt.Errorf("init %s: %w", b.Service.Name(), err)
		}
	}
	for _, b := range ordered {
		if err := b.Service.Start(); err != nil {
			g.Stop()
			return fmt.Errorf("start %s: %w", b.Service.Name(), err)
		}
		g.started = append(g.started, b.Service)
		log.Printf("service: %s started", b.Service.Name())
	}
	return nil
}

// Stop halts started services, last first
func (g *Group) Stop() error {
	var errs []error
	for i := len(g.started) - 1; i >= 0; i-- {
		s := g.started[i]
		if err := s.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.Name(), err))
		}
	}
	g.started = nil
	return errors.Join(errs...)
}

// order sorts bindings so dependencies come first; input order breaks ties
func order(bindings []Binding) ([]Binding, error) {
	byName := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		name := b.Service.Name()
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate service %q", name)
		}
		byName[name] = b
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(bindings))
	out := make([]Binding, 0, len(bindings))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle at %q", name)
		}
		b, ok := byName[name]
		if !ok {
			return fmt.Errorf("missing dependency %q", name)
		}
		state[name] = visiting
		for _, dep := range b.Service.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		out = append(out, b)
		return nil
	}

	for _, b := range bindings {
		if err := visit(b.Service.Name()); err != nil {
			return nil, err
		}
	}
	return out, nil
}
