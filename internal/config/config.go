// Package config loads the entdex YAML configuration, including the
// declarative item definitions that drive indexing and search.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the entdex service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Engine  EngineConfig  `yaml:"engine"`
	Cache   CacheConfig   `yaml:"cache"`
	Search  SearchConfig  `yaml:"search"`
	Items   []ItemConfig  `yaml:"items"`
	Logging LoggingConfig `yaml:"logging"`
}

// AuthConfig holds API authentication settings. An empty key list
// disables authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig holds search engine connection settings.
type EngineConfig struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
}

// CacheConfig holds metadata snapshot cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds index routing and analysis settings.
type SearchConfig struct {
	IndexPattern string                    `yaml:"index_pattern"`
	Languages    map[string]LanguageConfig `yaml:"languages"`
	Unlocalized  LanguageConfig            `yaml:"unlocalized"`
	Analyzers    map[string]map[string]any `yaml:"analyzers"`
	Filters      map[string]map[string]any `yaml:"filters"`
}

// LanguageConfig names the analyzer pair of one language.
type LanguageConfig struct {
	IndexAnalyzer  string `yaml:"index_analyzer"`
	SearchAnalyzer string `yaml:"search_analyzer"`
}

// ItemConfig declares one searchable entity type.
type ItemConfig struct {
	Type      string         `yaml:"type"`
	Localized bool           `yaml:"localized"`
	Loader    string         `yaml:"loader"`
	AutoIndex bool           `yaml:"auto_index"`
	Fields    []FieldConfig  `yaml:"fields"`
	Filters   []FilterConfig `yaml:"filters"`
}

// FieldConfig declares one indexed field of an item.
type FieldConfig struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"` // property, method (default: property)
	Weight    int    `yaml:"weight"`
	Format    string `yaml:"format"`
	Fragments int    `yaml:"fragments"`
}

// FilterConfig declares one exact-match filter of an item.
type FilterConfig struct {
	Name     string `yaml:"name"`
	Accessor string `yaml:"accessor"`
	Kind     string `yaml:"kind"` // property, method (default: property)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Search.IndexPattern == "" {
		c.Search.IndexPattern = "entdex-{language}"
	}
	for i := range c.Items {
		for j := range c.Items[i].Fields {
			if c.Items[i].Fields[j].Kind == "" {
				c.Items[i].Fields[j].Kind = "property"
			}
		}
		for j := range c.Items[i].Filters {
			if c.Items[i].Filters[j].Kind == "" {
				c.Items[i].Filters[j].Kind = "property"
			}
			if c.Items[i].Filters[j].Accessor == "" {
				c.Items[i].Filters[j].Accessor = c.Items[i].Filters[j].Name
			}
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Engine.Addresses) == 0 {
		return fmt.Errorf("engine.addresses is required")
	}
	if n := strings.Count(c.Search.IndexPattern, "{language}"); n != 1 {
		return fmt.Errorf("search.index_pattern must contain {language} exactly once, got %q", c.Search.IndexPattern)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}
	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if item.Type == "" {
			return fmt.Errorf("items[].type is required")
		}
		if seen[item.Type] {
			return fmt.Errorf("items.%s is declared twice", item.Type)
		}
		seen[item.Type] = true
		if len(item.Fields) == 0 {
			return fmt.Errorf("items.%s must declare at least one field", item.Type)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
