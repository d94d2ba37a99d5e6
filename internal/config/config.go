package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// SourcesConfig points at the tabular input files for the load stage.
type SourcesConfig struct {
	Places string `yaml:"places,omitempty"`
	People string `yaml:"people,omitempty"`
}

// ProjectConfig is the optional popstat.yaml project file. Flags and
// environment variables override everything in it.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Sources    SourcesConfig    `yaml:"sources"`
	Output     string           `yaml:"output"`
	// SkipMalformed selects the skip-with-warning policy for invalid
	// input rows instead of the default fail-fast.
	SkipMalformed bool   `yaml:"skip_malformed,omitempty"`
	Timeout       string `yaml:"timeout,omitempty"`
}

const ConfigFileName = "popstat.yaml"

// Load reads popstat.yaml from dir. Returns ErrConfigNotFound if the
// file does not exist.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
