package adk

import (
	"context"
	"errors"
)

// LLMProvider is a text-completion backend. Complete returns the raw model
// text for a single prompt; callers go through Ask so that every failure mode
// collapses into an unavailable Outcome.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Prober is implemented by providers that can cheaply report reachability
type Prober interface {
	Available(ctx context.Context) bool
}

// ErrUnavailable marks any outcome where the provider gave no usable answer
var ErrUnavailable = errors.New("ai provider unavailable")

// Probe reports whether p looks usable. Providers without a probe are assumed
// reachable; a nil provider never is.
func Probe(ctx context.Context, p LLMProvider) bool {
	if p == nil {
		return false
	}
	if pr, ok := p.(Prober); ok {
		return pr.Available(ctx)
	}
	return true
}
