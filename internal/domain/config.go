package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport    TransportConfig    `yaml:"transport"`
	Organization OrganizationConfig `yaml:"organization"`
	Auth         AuthConfig         `yaml:"auth"`
	Search       SearchConfig       `yaml:"search,omitempty"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// OrganizationConfig identifies the Azure DevOps organization the server
// talks to. SearchURL is optional; when empty, the code-search base URL is
// derived from the organization URL (dev.azure.com -> almsearch.dev.azure.com).
type OrganizationConfig struct {
	URL       string `yaml:"url"`
	SearchURL string `yaml:"search_url,omitempty"`
}

// AuthConfig defines how the server authenticates against Azure DevOps.
// The credential method is an explicit configuration value resolved once at
// startup; it is never read from the environment mid-request.
type AuthConfig struct {
	Type  string `yaml:"type"`            // "pat" or "bearer"
	PAT   string `yaml:"pat,omitempty"`   // personal access token (basic-encoded on the wire)
	Token string `yaml:"token,omitempty"` // bearer token
}

// SearchConfig holds code-search tuning knobs.
type SearchConfig struct {
	// MaxContentFetches bounds the number of in-flight file-content
	// fetches during search result enrichment. Zero means the default.
	MaxContentFetches int `yaml:"max_content_fetches,omitempty"`
}

// AuthType defines supported authentication methods.
type AuthType int

const (
	// PATAuth sends the personal access token basic-encoded with an empty username.
	PATAuth AuthType = iota
	// BearerAuth sends an OAuth bearer token.
	BearerAuth
)

// String returns the string representation of AuthType.
func (a AuthType) String() string {
	switch a {
	case PATAuth:
		return "pat"
	case BearerAuth:
		return "bearer"
	default:
		return "unknown"
	}
}

// ParseAuthType converts a string to AuthType.
func ParseAuthType(s string) AuthType {
	switch s {
	case "pat":
		return PATAuth
	case "bearer":
		return BearerAuth
	default:
		return PATAuth
	}
}

// LoadConfig reads and validates configuration from a YAML file.
// Returns an error if the file is missing, has invalid syntax, or fails validation.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	// Transport validation
	switch c.Transport.Type {
	case "stdio":
		// No additional settings required
	case "http":
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "transport.http.host is required for http transport")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, "transport.http.port must be between 1 and 65535")
		}
	case "":
		errors = append(errors, "transport.type is required (stdio or http)")
	default:
		errors = append(errors, fmt.Sprintf("transport.type must be 'stdio' or 'http', got '%s'", c.Transport.Type))
	}

	// Organization validation
	if c.Organization.URL == "" {
		errors = append(errors, "organization.url is required")
	} else if err := validateURL(c.Organization.URL); err != nil {
		errors = append(errors, fmt.Sprintf("organization.url is invalid: %v", err))
	}
	if c.Organization.SearchURL != "" {
		if err := validateURL(c.Organization.SearchURL); err != nil {
			errors = append(errors, fmt.Sprintf("organization.search_url is invalid: %v", err))
		}
	}

	// Auth validation
	switch c.Auth.Type {
	case "pat":
		if c.Auth.PAT == "" {
			errors = append(errors, "auth.pat is required when auth.type is 'pat'")
		}
	case "bearer":
		if c.Auth.Token == "" {
			errors = append(errors, "auth.token is required when auth.type is 'bearer'")
		}
	case "":
		errors = append(errors, "auth.type is required (pat or bearer)")
	default:
		errors = append(errors, fmt.Sprintf("auth.type must be 'pat' or 'bearer', got '%s'", c.Auth.Type))
	}

	// Search validation
	if c.Search.MaxContentFetches < 0 {
		errors = append(errors, "search.max_content_fetches must not be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// validateURL checks that a URL is absolute and uses http or https.
func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got '%s'", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is missing")
	}
	return nil
}
