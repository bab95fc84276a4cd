// Package config holds the mcp-forge configuration: identity of the test
// client, defaults for the server under test, extra response checks, and
// publish settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"mcp-forge/internal/jsonutil"
)

// Config holds the complete application configuration
type Config struct {
	// Application information
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// Conformance tester configuration
	Tester TesterConfig `yaml:"tester" json:"tester"`

	// Publish configuration
	Publish PublishConfig `yaml:"publish,omitempty" json:"publish,omitempty"`
}

// TesterConfig holds the configuration for a conformance test run
type TesterConfig struct {
	// Default command to start the server under test; overridable with
	// the --cmd flag.
	Command string `yaml:"command,omitempty" json:"command,omitempty"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Protocol identity sent in the initialize request
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`
	ClientName      string `yaml:"client_name" json:"client_name"`
	ClientVersion   string `yaml:"client_version" json:"client_version"`

	// How long to wait for the server to exit after a stop request
	StopTimeout time.Duration `yaml:"stop_timeout" json:"stop_timeout"`

	// Extra response checks run after the builtin probes
	Checks []Check `yaml:"checks,omitempty" json:"checks,omitempty"`
}

// Check defines an extra probe: one request whose decoded response is
// inspected with a JSONPath expression.
type Check struct {
	Name   string                 `yaml:"name,omitempty" json:"name,omitempty"`
	Method string                 `yaml:"method" json:"method"`
	Params map[string]interface{} `yaml:"params,omitempty" json:"params,omitempty"`

	// Path is a JSONPath expression evaluated against the full decoded
	// response, e.g. "$.result.tools".
	Path string `yaml:"path" json:"path"`

	// Expect, when set, is compared against the looked-up value. When
	// nil the check passes as soon as the path resolves.
	Expect interface{} `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// PublishConfig holds package publishing configuration
type PublishConfig struct {
	Repository string `yaml:"repository" json:"repository"`
	Python     string `yaml:"python,omitempty" json:"python,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Name:    "mcp-forge",
		Version: "0.2.0",
		Tester: TesterConfig{
			ProtocolVersion: "2024-11-05",
			ClientName:      "mcp-forge-tester",
			ClientVersion:   "0.2.0",
			StopTimeout:     5 * time.Second,
		},
		Publish: PublishConfig{
			Repository: "pypi",
			Python:     "python3",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse based on file extension
	config := DefaultConfig()
	ext := filepath.Ext(configPath)

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	// yaml.v2 decodes nested mappings with interface{} keys; check params
	// end up re-encoded as JSON request bodies, so normalize them here.
	for i := range config.Tester.Checks {
		if params := config.Tester.Checks[i].Params; params != nil {
			normalized, ok := jsonutil.NormalizeMaps(params).(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid params in check %d", i)
			}
			config.Tester.Checks[i].Params = normalized
		}
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, configPath string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	ext := filepath.Ext(configPath)
	var data []byte
	var err error

	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML config: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name is required")
	}

	if c.Version == "" {
		return fmt.Errorf("application version is required")
	}

	if c.Tester.ProtocolVersion == "" {
		return fmt.Errorf("tester protocol version is required")
	}

	if c.Tester.ClientName == "" {
		return fmt.Errorf("tester client name is required")
	}

	if c.Tester.StopTimeout <= 0 {
		c.Tester.StopTimeout = 5 * time.Second
	}

	for i, check := range c.Tester.Checks {
		if check.Method == "" {
			return fmt.Errorf("check %d: method is required", i)
		}
		if check.Path == "" {
			return fmt.Errorf("check %d: path is required", i)
		}
	}

	switch c.Publish.Repository {
	case "", "pypi", "testpypi":
	default:
		return fmt.Errorf("unsupported repository: %s", c.Publish.Repository)
	}

	return nil
}
