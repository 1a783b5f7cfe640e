// Package config provides configuration management for the tracker integration.
// It handles loading and parsing YAML configuration files, and provides structured
// access to logging, credential storage, outbound proxy and per-tracker endpoint settings.
package config

import "time"

// DefaultRequestTimeout bounds remote calls when request-timeout-seconds is unset.
const DefaultRequestTimeout = 30 * time.Second

// SDKConfig holds the settings shared by every tracker HTTP client.
type SDKConfig struct {
	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	// Supported schemes are socks5, http and https.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// RequestTimeoutSeconds bounds every non-interactive remote call.
	// <= 0 uses DefaultRequestTimeout.
	RequestTimeoutSeconds int `yaml:"request-timeout-seconds,omitempty" json:"request-timeout-seconds,omitempty"`
}

// RequestTimeout returns the configured per-request timeout, or DefaultRequestTimeout when unset.
func (c *SDKConfig) RequestTimeout() time.Duration {
	if c == nil || c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
