// Package secrets fetches runtime secrets, such as the token signing key,
// from Google Secret Manager.
package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// Source returns the latest value of a named secret.
type Source interface {
	Get(ctx context.Context, name string) (string, error)
}

type secretManagerSource struct {
	client    *secretmanager.Client
	projectID string
}

// SecretManager is a Source that can be closed.
type SecretManager interface {
	Source
	Close() error
}

// NewSecretManager connects to Secret Manager. endpoint is empty for Google's own.
func NewSecretManager(ctx context.Context, projectID, endpoint string) (SecretManager, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set")
	}

	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerSource{client: client, projectID: projectID}, nil
}

func (s *secretManagerSource) Get(ctx context.Context, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name),
	}
	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerSource) Close() error {
	return s.client.Close()
}

// Resolve returns the named secret, or fallback when name is empty.
// Surrounding whitespace is dropped and an empty secret is an error.
func Resolve(ctx context.Context, src Source, name, fallback string) (string, error) {
	if name == "" {
		return fallback, nil
	}
	value, err := src.Get(ctx, name)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("secret %s is empty", name)
	}
	return value, nil
}
