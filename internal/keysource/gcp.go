package keysource

import (
	"context"
	"fmt"
	"path"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/iterator"
)

// GCPSource reads keys from Google Secret Manager. The key name maps to
// a secret of the same name in the configured project, always at the
// latest version.
type GCPSource struct {
	project string
	client  *secretmanager.Client
}

// NewGCPSource opens a Secret Manager client using application default
// credentials.
func NewGCPSource(ctx context.Context, project string) (*GCPSource, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secretmanager client: %w", err)
	}
	return &GCPSource{project: project, client: client}, nil
}

func (s *GCPSource) Name() string {
	return "gcp"
}

func (s *GCPSource) Lookup(ctx context.Context, key string) (string, error) {
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.project, key)
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.Payload.Data), nil
}

// List returns the names of all secrets in the project.
func (s *GCPSource) List(ctx context.Context) ([]string, error) {
	it := s.client.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{
		Parent: fmt.Sprintf("projects/%s", s.project),
	})

	var names []string
	for {
		secret, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list secrets: %w", err)
		}
		names = append(names, path.Base(secret.Name))
	}
	return names, nil
}

func (s *GCPSource) Close() error {
	return s.client.Close()
}
