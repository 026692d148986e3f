package appconfig

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host         string             `yaml:"host"`
	BasePath     string             `yaml:"basePath"`
	DocsPath     string             `yaml:"docsPath"`
	Provider     ProviderConfig     `yaml:"provider"`
	Storage      StorageConfig      `yaml:"storage"`
	Persistence  PersistenceConfig  `yaml:"persistence"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Pulsar       PulsarConfig       `yaml:"pulsar"`
	AWS          AWSConfig          `yaml:"aws"`
}

// ProviderConfig defines the remote person provider
type ProviderConfig struct {
	URL      string        `yaml:"url"`
	PageSize int           `yaml:"pageSize"`
	Seed     string        `yaml:"seed"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StorageConfig selects the durable key-value storage driver
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // file|sqlite|postgres|s3|memory
	File     FileConfig     `yaml:"file"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
}

type FileConfig struct {
	Root string `yaml:"root"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig defines the database connection details. When SecretName is
// set the DSN is read from AWS Secrets Manager instead of Source.
type PostgresConfig struct {
	Source      string `yaml:"source"`
	SecretName  string `yaml:"secretName"`
	SecretField string `yaml:"secretField"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"pathStyle"`
}

// PersistenceConfig controls which slices are snapshotted and where
type PersistenceConfig struct {
	Key       string   `yaml:"key"`
	Whitelist []string `yaml:"whitelist"`
}

// ConnectivityConfig defines the reachability probe
type ConnectivityConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL          string `yaml:"url"`
	Topic        string `yaml:"topic"`
	Subscription string `yaml:"subscription"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		err := errors.New("config file path is required")
		log.Error().Err(err).Msg("config file not provided")
		return nil, err
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	return render(tmpl)
}

// ParseConfig parses configuration from an in-memory template.
func ParseConfig(text string) (*Config, error) {
	tmpl, err := template.New("config").Parse(text)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config template")
		return nil, err
	}
	return render(tmpl)
}

func render(tmpl *template.Template) (*Config, error) {
	// Create a map of environment variables
	envVars := loadEnvVars()

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, envVars); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	// Load and unmarshal the YAML
	config := Default()
	if err := yaml.Unmarshal(buf.Bytes(), config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}
	config.applyDefaults()

	return config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.DocsPath == "" {
		c.DocsPath = "/api/docs"
	}
	if c.Provider.URL == "" {
		c.Provider.URL = "https://randomuser.me/api"
	}
	if c.Provider.PageSize <= 0 {
		c.Provider.PageSize = 20
	}
	if c.Provider.Seed == "" {
		c.Provider.Seed = "nexus"
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.File.Root == "" {
		c.Storage.File.Root = "./statedata"
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = "staff-directory.db"
	}
	if c.Persistence.Key == "" {
		c.Persistence.Key = "persist:root"
	}
	if c.Connectivity.Interval <= 0 {
		c.Connectivity.Interval = 15 * time.Second
	}
	if c.Connectivity.Timeout <= 0 {
		c.Connectivity.Timeout = 3 * time.Second
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "eu-west-2"
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
