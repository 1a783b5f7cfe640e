package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FailureMode selects how a read operation reacts to a non-OK remote status.
type FailureMode string

const (
	// FailSoft turns a non-OK status into an empty or default result.
	FailSoft FailureMode = "soft"
	// FailStrict surfaces a non-OK status as an error.
	FailStrict FailureMode = "strict"
)

// ReadPolicy is the host-selected failure policy for tracker read operations.
type ReadPolicy struct {
	// Search applies to catalog searches. Defaults to soft.
	Search FailureMode `yaml:"search,omitempty" json:"search,omitempty"`
	// Status applies to list status lookups. Defaults to strict.
	Status FailureMode `yaml:"status,omitempty" json:"status,omitempty"`
}

// SearchSoft reports whether a failed search should yield no results.
func (p ReadPolicy) SearchSoft() bool {
	return p.Search != FailStrict
}

// StatusSoft reports whether a failed status lookup should yield default values.
func (p ReadPolicy) StatusSoft() bool {
	return p.Status == FailSoft
}

// TrackerConfig describes one remote tracker instance.
type TrackerConfig struct {
	// ClientID is the OAuth client identifier registered with the remote service.
	ClientID string `yaml:"client-id" json:"client-id"`
	// BaseOAuthURL is the authorization endpoint opened in the browser.
	BaseOAuthURL string `yaml:"base-oauth-url" json:"base-oauth-url"`
	// TokenURL is the token endpoint used for code exchange and refresh.
	TokenURL string `yaml:"token-url" json:"token-url"`
	// BaseAPIURL is the root of the REST API.
	BaseAPIURL string `yaml:"base-api-url" json:"base-api-url"`
	// TargetMediaType filters catalog search results, e.g. "light_novel".
	TargetMediaType string `yaml:"target-media-type" json:"target-media-type"`
	// RedirectURI is where the remote sends the browser after authorization.
	RedirectURI string `yaml:"redirect-uri" json:"redirect-uri"`
	// SearchLimit caps catalog search results. <= 0 leaves the remote default.
	SearchLimit int `yaml:"search-limit,omitempty" json:"search-limit,omitempty"`
	// ReadPolicy controls soft versus strict failure of read operations.
	ReadPolicy ReadPolicy `yaml:"read-policy,omitempty" json:"read-policy,omitempty"`
}

// WithDefaults returns a copy of c where every empty field is taken from def.
func (c TrackerConfig) WithDefaults(def TrackerConfig) TrackerConfig {
	out := c
	if strings.TrimSpace(out.ClientID) == "" {
		out.ClientID = def.ClientID
	}
	if strings.TrimSpace(out.BaseOAuthURL) == "" {
		out.BaseOAuthURL = def.BaseOAuthURL
	}
	if strings.TrimSpace(out.TokenURL) == "" {
		out.TokenURL = def.TokenURL
	}
	if strings.TrimSpace(out.BaseAPIURL) == "" {
		out.BaseAPIURL = def.BaseAPIURL
	}
	if strings.TrimSpace(out.TargetMediaType) == "" {
		out.TargetMediaType = def.TargetMediaType
	}
	if strings.TrimSpace(out.RedirectURI) == "" {
		out.RedirectURI = def.RedirectURI
	}
	if out.SearchLimit <= 0 {
		out.SearchLimit = def.SearchLimit
	}
	if out.ReadPolicy.Search == "" {
		out.ReadPolicy.Search = def.ReadPolicy.Search
	}
	if out.ReadPolicy.Status == "" {
		out.ReadPolicy.Status = def.ReadPolicy.Status
	}
	out.BaseAPIURL = strings.TrimRight(out.BaseAPIURL, "/")
	return out
}

// Validate reports the first missing endpoint setting.
func (c TrackerConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.ClientID) == "":
		return fmt.Errorf("config: tracker client-id is required")
	case strings.TrimSpace(c.BaseOAuthURL) == "":
		return fmt.Errorf("config: tracker base-oauth-url is required")
	case strings.TrimSpace(c.TokenURL) == "":
		return fmt.Errorf("config: tracker token-url is required")
	case strings.TrimSpace(c.BaseAPIURL) == "":
		return fmt.Errorf("config: tracker base-api-url is required")
	}
	for _, mode := range []FailureMode{c.ReadPolicy.Search, c.ReadPolicy.Status} {
		if mode != "" && mode != FailSoft && mode != FailStrict {
			return fmt.Errorf("config: unknown read-policy mode %q", mode)
		}
	}
	return nil
}

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	SDKConfig `yaml:",inline"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile writes logs to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// AuthDir is the directory where credential files are stored.
	AuthDir string `yaml:"auth-dir" json:"auth-dir"`

	// Trackers holds per-tracker overrides keyed by tracker name.
	Trackers map[string]TrackerConfig `yaml:"trackers,omitempty" json:"trackers,omitempty"`
}

// Tracker returns the settings for the named tracker, or a zero value when none are configured.
func (c *Config) Tracker(name string) TrackerConfig {
	if c == nil || c.Trackers == nil {
		return TrackerConfig{}
	}
	return c.Trackers[strings.ToLower(strings.TrimSpace(name))]
}

// LoadConfig reads a YAML configuration file from the given path.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional reads a YAML configuration file. When optional is true a missing
// file or empty path yields a default configuration instead of an error.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := &Config{AuthDir: "~/.tracker-sync"}

	if strings.TrimSpace(configFile) == "" {
		if optional {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: path is required")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
		}
	}

	if len(cfg.Trackers) > 0 {
		normalized := make(map[string]TrackerConfig, len(cfg.Trackers))
		for name, tc := range cfg.Trackers {
			normalized[strings.ToLower(strings.TrimSpace(name))] = tc
		}
		cfg.Trackers = normalized
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if value, ok := lookupEnv("TRACKER_AUTH_DIR", "tracker_auth_dir"); ok {
		cfg.AuthDir = value
	}
	if value, ok := lookupEnv("TRACKER_PROXY_URL", "tracker_proxy_url"); ok {
		cfg.ProxyURL = value
	}
	if value, ok := lookupEnv("MAL_CLIENT_ID", "mal_client_id"); ok {
		if cfg.Trackers == nil {
			cfg.Trackers = make(map[string]TrackerConfig)
		}
		tc := cfg.Trackers["myanimelist"]
		tc.ClientID = value
		cfg.Trackers["myanimelist"] = tc
	}
}

func lookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}
