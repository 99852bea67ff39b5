package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Twitter     TwitterAPIConfig  `toml:"twitter"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Twitter TwitterConfig `toml:"twitter"`
}

// TwitterConfig contains the consumer (app) key pair and, once authorized, the user's access token pair.
type TwitterConfig struct {
	ConsumerKey    string `toml:"consumer_key"`
	ConsumerSecret string `toml:"consumer_secret"`
	AccessToken    string `toml:"access_token"`
	AccessSecret   string `toml:"access_secret"`
	CallbackURL    string `toml:"callback_url"`
	ScreenName     string `toml:"screen_name"`
}

// TwitterAPIConfig tunes the REST client and the reconciliation engine.
type TwitterAPIConfig struct {
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxRetries        int     `toml:"max_retries"`
	PageSize          int     `toml:"page_size"`
	ChunkSize         int     `toml:"chunk_size"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// HasConsumer reports whether the app key pair is present.
func (t TwitterConfig) HasConsumer() bool {
	return t.ConsumerKey != "" && t.ConsumerSecret != ""
}

// HasUserToken reports whether a user access token pair is present.
func (t TwitterConfig) HasUserToken() bool {
	return t.AccessToken != "" && t.AccessSecret != ""
}

// Update stores a freshly authorized access token pair and the screen name it belongs to.
func (t *TwitterConfig) Update(accessToken, accessSecret, screenName string) error {
	if accessToken == "" || accessSecret == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidCredentials)
	}
	t.AccessToken = accessToken
	t.AccessSecret = accessSecret
	if screenName != "" {
		t.ScreenName = screenName
	}
	return nil
}

// ClearUserToken forgets the access token pair and the account it belongs to. Consumer keys are kept.
func (t *TwitterConfig) ClearUserToken() {
	t.AccessToken = ""
	t.AccessSecret = ""
	t.ScreenName = ""
}

// envOverrides maps environment variables onto Twitter credential fields.
var envOverrides = []struct {
	key   string
	field func(*TwitterConfig) *string
}{
	{"TWITTER_CONSUMER_KEY", func(t *TwitterConfig) *string { return &t.ConsumerKey }},
	{"TWITTER_CONSUMER_SECRET", func(t *TwitterConfig) *string { return &t.ConsumerSecret }},
	{"TWITTER_ACCESS_TOKEN", func(t *TwitterConfig) *string { return &t.AccessToken }},
	{"TWITTER_ACCESS_SECRET", func(t *TwitterConfig) *string { return &t.AccessSecret }},
	{"TWITTER_OAUTH_CALLBACK_URI", func(t *TwitterConfig) *string { return &t.CallbackURL }},
	{"TWITTER_SCREEN_NAME", func(t *TwitterConfig) *string { return &t.ScreenName }},
}

// ApplyEnv overrides Twitter credentials with non-empty environment variables.
func (c *Config) ApplyEnv() {
	for _, o := range envOverrides {
		if v := os.Getenv(o.key); v != "" {
			*o.field(&c.Credentials.Twitter) = v
		}
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// SaveConfig writes config to path as TOML, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
