// Package config wires github.com/spf13/viper to the allocator's tunables:
// the DP allocator's n_max capacity threshold, the bounded-SI beam width,
// SWAP/reversal cost overrides, debug logging, and the HTTP service port.
// Grounded on the teacher's internal/app.ServerOptions.C usage
// (*config.Config.GetBool("debug")), which referenced this package without
// it existing in the retrieved tree — this gives viper, already declared
// in go.mod but otherwise unused, a real job.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix for every override below,
// e.g. QPLAY_ALLOC_N_MAX=12.
const EnvPrefix = "QPLAY_ALLOC"

// Config wraps a *viper.Viper pre-bound with the allocator's defaults.
type Config struct {
	v *viper.Viper
}

// New returns a Config with defaults set and environment overrides bound.
// Callers may additionally point it at a config file with SetConfigFile
// + ReadInConfig before reading values, matching viper's usual flow.
func New() *Config {
	v := viper.New()

	v.SetDefault("n_max", 8)
	v.SetDefault("beam_width", 16)
	v.SetDefault("swap_cost", 7)
	v.SetDefault("rev_cost", 4)
	v.SetDefault("debug", false)
	v.SetDefault("http.port", 8080)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// GetBool returns the boolean value of key.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// GetInt returns the integer value of key.
func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

// NMax returns the configured DP allocator capacity threshold.
func (c *Config) NMax() int { return c.v.GetInt("n_max") }

// BeamWidth returns the configured bounded-SI beam width.
func (c *Config) BeamWidth() int { return c.v.GetInt("beam_width") }

// SwapCost returns the configured per-swap DP allocator cost.
func (c *Config) SwapCost() int { return c.v.GetInt("swap_cost") }

// RevCost returns the configured reversal-edge DP allocator cost.
func (c *Config) RevCost() int { return c.v.GetInt("rev_cost") }

// HTTPPort returns the configured HTTP listen port.
func (c *Config) HTTPPort() int { return c.v.GetInt("http.port") }

// ReadFile loads key/value overrides from a config file at path, inferring
// its format from the extension (yaml, json, toml, ...).
func (c *Config) ReadFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Set overrides key, taking precedence over both the default and any
// environment variable, matching viper's own override precedence. Used by
// cmd/server to apply flag values on top of the environment-derived config.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}
