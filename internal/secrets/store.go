package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Store looks a secret up by name and returns its stored document
type Store interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// SecretsManagerAPI is the part of the Secrets Manager client used here
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Compile-time interface checks
var (
	_ Store             = (*SecretsManagerStore)(nil)
	_ SecretsManagerAPI = (*secretsmanager.Client)(nil)
)

// SecretsManagerStore reads secrets from AWS Secrets Manager
type SecretsManagerStore struct {
	client SecretsManagerAPI
}

// NewSecretsManagerStore creates a store over a Secrets Manager client
func NewSecretsManagerStore(client SecretsManagerAPI) *SecretsManagerStore {
	return &SecretsManagerStore{client: client}
}

// NewSecretsManagerStoreFromConfig creates a store from a loaded AWS config
func NewSecretsManagerStoreFromConfig(cfg aws.Config) *SecretsManagerStore {
	return NewSecretsManagerStore(secretsmanager.NewFromConfig(cfg))
}

// Lookup returns the SecretString of the named secret
func (s *SecretsManagerStore) Lookup(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("get secret value %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no SecretString", name)
	}
	return *out.SecretString, nil
}

// StaticStore serves secrets from memory, for local runs of the gateway
type StaticStore map[string]string

// Lookup returns the stored document for name
func (s StaticStore) Lookup(_ context.Context, name string) (string, error) {
	doc, ok := s[name]
	if !ok {
		return "", fmt.Errorf("secret %s not found", name)
	}
	return doc, nil
}
