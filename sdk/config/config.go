// Package config provides the public SDK configuration API.
//
// It re-exports the configuration types and helpers so external projects can
// embed TrackerSync without importing internal packages.
package config

import internalconfig "github.com/router-for-me/TrackerSync/internal/config"

type SDKConfig = internalconfig.SDKConfig

type Config = internalconfig.Config

type TrackerConfig = internalconfig.TrackerConfig
type ReadPolicy = internalconfig.ReadPolicy
type FailureMode = internalconfig.FailureMode

const (
	FailSoft   = internalconfig.FailSoft
	FailStrict = internalconfig.FailStrict
)

func LoadConfig(configFile string) (*Config, error) { return internalconfig.LoadConfig(configFile) }

func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	return internalconfig.LoadConfigOptional(configFile, optional)
}
