// Package extract contains the extraction strategies that turn a URL into a
// normalized content record. Strategies are a closed set dispatched by the
// orchestrator's ordering table; each fails by returning an error when it
// cannot produce usable content.
package extract

import (
	"context"
	"fmt"

	"linkdigest/internal/domain"
)

// Strategy names used by the ordering tables.
const (
	NameReadability = "readability"
	NameReader      = "reader"
	NameBasic       = "basic"
	NameSocial      = "social"
)

// Strategy captures a single extraction tier.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, url string) (domain.ExtractedContent, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[s.Name()] = s
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if s, ok := r.strategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("strategy %s is not registered", name)
}
