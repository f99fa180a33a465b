package keysource

import (
	"context"
	"os"
)

// EnvSource reads keys from the process environment.
type EnvSource struct{}

func (EnvSource) Name() string {
	return "env"
}

func (EnvSource) Lookup(_ context.Context, key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}
