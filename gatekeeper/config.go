package gatekeeper

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/onehilltech/gatekeeper-go/internal/env"
)

// Config is the static configuration consumed by the client. The core
// has no opinion on how it is sourced; LoadConfig and ConfigFromEnv are
// conveniences for common deployments.
type Config struct {
	// BaseURI is the root of the Gatekeeper service, chosen explicitly by
	// the deployment environment.
	// Example: "https://gatekeeper.example.com"
	BaseURI string `yaml:"base_uri"`

	// ClientID identifies this application to the service.
	ClientID string `yaml:"client_id"`

	// ClientSecret authenticates the application.
	// Security: Never log or expose this value
	ClientSecret string `yaml:"client_secret"`
}

func (c Config) validate() error {
	if c.BaseURI == "" {
		return errors.New("gatekeeper: config requires a base uri")
	}
	if c.ClientID == "" {
		return errors.New("gatekeeper: config requires a client id")
	}
	if c.ClientSecret == "" {
		return errors.New("gatekeeper: config requires a client secret")
	}
	return nil
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("gatekeeper: read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("gatekeeper: parse config: %w", err)
	}
	return c, nil
}

// ConfigFromEnv builds a Config from the GATEKEEPER_BASE_URI,
// GATEKEEPER_CLIENT_ID and GATEKEEPER_CLIENT_SECRET variables.
func ConfigFromEnv() Config {
	return Config{
		BaseURI:      env.GetEnv("GATEKEEPER_BASE_URI", ""),
		ClientID:     env.GetEnv("GATEKEEPER_CLIENT_ID", ""),
		ClientSecret: env.GetEnv("GATEKEEPER_CLIENT_SECRET", ""),
	}
}
