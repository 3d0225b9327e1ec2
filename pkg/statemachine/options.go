package statemachine

// Option configures a graph during construction.
type Option func(*Graph) error

// TransitionOption configures a single transition.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	guards []Guard
}

// WithTransition adds a single transition to the graph.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(g *Graph) error {
		cfg := &transitionConfig{}
		for _, opt := range opts {
			opt(cfg)
		}

		return g.add(from, to, event, cfg.guards)
	}
}

// WithGuard adds a single guard to a transition.
func WithGuard(guard Guard) TransitionOption {
	return func(cfg *transitionConfig) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}
