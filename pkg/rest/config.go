package rest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"meridian-api/pkg/confkit"
)

// Environment variables consulted during config resolution.
const (
	envAPIKey      = "MERIDIAN_API_KEY"
	envBaseURL     = "MERIDIAN_BASE_URL"
	envS3AccessKey = "MERIDIAN_S3_ACCESS_KEY_ID"
	envS3SecretKey = "MERIDIAN_S3_SECRET_ACCESS_KEY"
	envConfigFile  = "MERIDIAN_CONFIG_FILE"
	envEnvironment = "MERIDIAN_ENV"
)

const (
	defaultEnvironment       = "default"
	defaultConfigFileName    = "meridian.yaml"
	userConfigFileName       = "config.yaml"
	defaultFlatFilesEndpoint = "https://files.meridian.io"
	defaultFlatFilesBucket   = "flatfiles"
)

// Config carries the resolved credentials and endpoints for one environment.
// Build it through ResolveConfig and pass it into NewClient; nothing deeper
// reads the environment.
type Config struct {
	APIKey            string `yaml:"api_key"`
	BaseURL           string `yaml:"base_url"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
	FlatFilesEndpoint string `yaml:"flatfiles_endpoint"`
	FlatFilesBucket   string `yaml:"flatfiles_bucket"`
}

// ResolveConfig builds the effective configuration. Explicit fields win, then
// MERIDIAN_* environment variables, then the selected config file section,
// then built-in defaults. The api key is the one field with no default;
// resolution fails without it.
func ResolveConfig(explicit *Config) (*Config, error) {
	confkit.LoadDotenvOnce()

	cfg := Config{}
	if explicit != nil {
		cfg = *explicit
	}

	cfg.merge(&Config{
		APIKey:            os.Getenv(envAPIKey),
		BaseURL:           os.Getenv(envBaseURL),
		S3AccessKeyID:     os.Getenv(envS3AccessKey),
		S3SecretAccessKey: os.Getenv(envS3SecretKey),
	})

	fileCfg, err := loadConfigFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		cfg.merge(fileCfg)
	}

	cfg.merge(&Config{
		BaseURL:           defaultBaseURL,
		FlatFilesEndpoint: defaultFlatFilesEndpoint,
		FlatFilesBucket:   defaultFlatFilesBucket,
	})

	if cfg.APIKey == "" {
		return nil, errors.New("meridian: api key is required: set MERIDIAN_API_KEY or configure api_key")
	}
	return &cfg, nil
}

// merge fills each blank field from other.
func (c *Config) merge(other *Config) {
	if c.APIKey == "" {
		c.APIKey = other.APIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = other.BaseURL
	}
	if c.S3AccessKeyID == "" {
		c.S3AccessKeyID = other.S3AccessKeyID
	}
	if c.S3SecretAccessKey == "" {
		c.S3SecretAccessKey = other.S3SecretAccessKey
	}
	if c.FlatFilesEndpoint == "" {
		c.FlatFilesEndpoint = other.FlatFilesEndpoint
	}
	if c.FlatFilesBucket == "" {
		c.FlatFilesBucket = other.FlatFilesBucket
	}
}

func (c *Config) expandEnv() {
	c.APIKey = strings.TrimSpace(os.ExpandEnv(c.APIKey))
	c.BaseURL = strings.TrimSpace(os.ExpandEnv(c.BaseURL))
	c.S3AccessKeyID = strings.TrimSpace(os.ExpandEnv(c.S3AccessKeyID))
	c.S3SecretAccessKey = strings.TrimSpace(os.ExpandEnv(c.S3SecretAccessKey))
	c.FlatFilesEndpoint = strings.TrimSpace(os.ExpandEnv(c.FlatFilesEndpoint))
	c.FlatFilesBucket = strings.TrimSpace(os.ExpandEnv(c.FlatFilesBucket))
}

// loadConfigFile reads the environment-keyed YAML config. The path comes from
// MERIDIAN_CONFIG_FILE, falling back to ./meridian.yaml and then
// ~/.meridian/config.yaml. No file anywhere is fine; a file without the
// selected environment section is not.
func loadConfigFile() (*Config, error) {
	path := os.Getenv(envConfigFile)
	explicit := path != ""
	if !explicit {
		path = confkit.FirstExisting(
			defaultConfigFileName,
			confkit.UserConfigPath("meridian", userConfigFileName),
		)
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("meridian: read config %s: %w", path, err)
	}

	var sections map[string]*Config
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("meridian: unmarshal config %s: %w", path, err)
	}

	name := os.Getenv(envEnvironment)
	if name == "" {
		name = defaultEnvironment
	}
	section, ok := sections[name]
	if !ok || section == nil {
		return nil, fmt.Errorf("meridian: config %s has no %q environment", path, name)
	}
	section.expandEnv()
	return section, nil
}
