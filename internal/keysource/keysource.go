// Package keysource resolves API keys the way they should be stored:
// from the process environment, from .env files, or from a secret
// manager. Sources are consulted in order and the first hit wins; the
// value only ever lives in process memory.
package keysource

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNotFound reports that no source could resolve the key.
var ErrNotFound = errors.New("key not found")

// GCPProjectEnv names the variable that, when set, enables the Secret
// Manager source.
const GCPProjectEnv = "KEYWARD_GCP_PROJECT"

// Source resolves a named key to its secret value.
type Source interface {
	Name() string
	Lookup(ctx context.Context, key string) (string, error)
}

// Chain consults sources in order, skipping ones that don't have the key.
type Chain struct {
	sources []Source
}

// NewChain builds a chain from the given sources
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Sources returns the chain members in resolution order
func (c *Chain) Sources() []Source {
	return c.sources
}

// Lookup resolves key through the chain. It returns the value and the
// name of the source that had it. A source error other than ErrNotFound
// aborts the chain.
func (c *Chain) Lookup(ctx context.Context, key string) (string, string, error) {
	for _, source := range c.sources {
		value, err := source.Lookup(ctx, key)
		if err == nil {
			return value, source.Name(), nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return "", "", fmt.Errorf("source %s: %w", source.Name(), err)
	}
	return "", "", fmt.Errorf("%s: %w", key, ErrNotFound)
}

// Default builds the standard chain: process environment first, then
// .env files, then Secret Manager when KEYWARD_GCP_PROJECT is set. The
// returned closer releases the Secret Manager connection when one was
// opened.
func Default(ctx context.Context, extraEnvFiles ...string) (*Chain, func() error, error) {
	sources := []Source{
		EnvSource{},
		NewDotenvSource(extraEnvFiles...),
	}
	closer := func() error { return nil }

	if project := os.Getenv(GCPProjectEnv); project != "" {
		gcp, err := NewGCPSource(ctx, project)
		if err != nil {
			return nil, nil, fmt.Errorf("secret manager source: %w", err)
		}
		sources = append(sources, gcp)
		closer = gcp.Close
	}

	return NewChain(sources...), closer, nil
}
