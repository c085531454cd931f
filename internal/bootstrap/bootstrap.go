// Package bootstrap loads the configuration, logger and clients shared by the
// function entry points.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	"github.com/andretaki/amazon-ads-project2024/internal/auth"
	"github.com/andretaki/amazon-ads-project2024/internal/config"
	"github.com/andretaki/amazon-ads-project2024/internal/logging"
	"github.com/andretaki/amazon-ads-project2024/internal/report"
	"github.com/andretaki/amazon-ads-project2024/internal/secrets"
)

// Runtime is the loaded configuration and logger of one entry point
type Runtime struct {
	Config *config.Config
	Logger *logging.Logger
}

// Load reads and validates the configuration and creates the component logger
func Load(component string) (*Runtime, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(logging.GetLogLevel(cfg.Logging.Level), component)
	return &Runtime{Config: cfg, Logger: logger}, nil
}

// AWSConfig loads the default AWS credential chain for the configured region
func (r *Runtime) AWSConfig(ctx context.Context) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(r.Config.AWS.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// NewResolver creates the secret resolver backed by Secrets Manager
func (r *Runtime) NewResolver(ctx context.Context) (*secrets.Resolver, error) {
	awsCfg, err := r.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return secrets.NewResolver(secrets.NewSecretsManagerStoreFromConfig(awsCfg), r.Logger), nil
}

// NewExchanger creates the token exchanger for the configured auth host
func (r *Runtime) NewExchanger() (*auth.Exchanger, error) {
	client, err := amazon.NewClient(r.Config.HTTP)
	if err != nil {
		return nil, err
	}
	return auth.NewExchanger(auth.NewTokenClient(client, r.Config.Amazon.AuthBaseURL), r.Logger), nil
}

// NewRequester creates the report requester. A profile id is required.
func (r *Runtime) NewRequester() (*report.Requester, error) {
	if err := r.Config.ValidateReport(); err != nil {
		return nil, err
	}
	client, err := amazon.NewClient(r.Config.HTTP)
	if err != nil {
		return nil, err
	}
	return report.NewRequester(client, r.Config.Amazon, r.Config.Report, r.Logger), nil
}
