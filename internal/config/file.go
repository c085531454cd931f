package config

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/andretaki/amazon-ads-project2024/internal/errors"
)

// LoadFile loads configuration from the environment and overlays the YAML file
// at path. Keys absent from the file keep their environment value.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config YAML %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration, honouring PIPELINE_CONFIG when it is set
func LoadFromEnv() (*Config, error) {
	return LoadFile(os.Getenv("PIPELINE_CONFIG"))
}

// Validate checks the settings every function relies on. Report submission
// additionally needs a profile id; see ValidateReport.
func (c *Config) Validate() error {
	v := apperrors.NewValidator()
	v.RequiredField("aws.region", c.AWS.Region)
	v.ValidateURL("amazon.auth_base_url", c.Amazon.AuthBaseURL)
	v.ValidateURL("amazon.ads_base_url", c.Amazon.AdsBaseURL)
	v.ValidatePositiveInt("report.lookback_days", c.Report.LookbackDays)
	if c.HTTP.Timeout < 0 {
		v.AddError("http.timeout", "non_negative", "Timeout cannot be negative")
	}
	return toConfigError(v)
}

// ValidateReport checks the settings needed to submit report requests
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	v := apperrors.NewValidator()
	v.RequiredField("amazon.profile_id", c.Amazon.ProfileID)
	return toConfigError(v)
}

func toConfigError(v *apperrors.Validator) error {
	appErr := v.ToAppError()
	if appErr == nil {
		return nil
	}
	appErr.Code = apperrors.ErrConfigurationError
	appErr.Message = "Invalid configuration"
	appErr.Severity = apperrors.SeverityCritical
	appErr.HTTPStatus = http.StatusInternalServerError
	return appErr
}
