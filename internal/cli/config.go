package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys. Nested keys map to TOML tables and to environment
// variables with "." replaced by "_", e.g. MASONRY_CACHE_REDIS_URL.
const (
	keyColumnWidth    = "column_width"
	keyColumnGap      = "column_gap"
	keyRowGap         = "row_gap"
	keyStyle          = "style"
	keyRedisURL       = "cache.redis_url"
	keyCachePrefix    = "cache.prefix"
	keyServeAddr      = "serve.addr"
	keyBrowserTimeout = "browser.timeout"
	keyBrowserWidth   = "browser.viewport_width"
	keyBrowserHeight  = "browser.viewport_height"
)

// newConfig returns a viper instance holding the defaults.
func newConfig() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyColumnWidth, 240.0)
	v.SetDefault(keyColumnGap, 12.0)
	v.SetDefault(keyRowGap, 12.0)
	v.SetDefault(keyStyle, "simple")
	v.SetDefault(keyRedisURL, "")
	v.SetDefault(keyCachePrefix, "")
	v.SetDefault(keyServeAddr, ":8080")
	v.SetDefault(keyBrowserTimeout, 30*time.Second)
	v.SetDefault(keyBrowserWidth, 1280)
	v.SetDefault(keyBrowserHeight, 800)
}

// loadConfig layers the config file and MASONRY_* environment over the
// defaults. Flags are layered on top per command by the flag helpers. A
// missing default config file is not an error; a missing explicit one is.
func (c *CLI) loadConfig(path string) error {
	v := c.config
	v.SetEnvPrefix("MASONRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		c.Logger.Debug("loaded config", "path", path)
		return nil
	}

	dir, err := configDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", filepath.Join(dir, "config.toml"), err)
	}
	c.Logger.Debug("loaded config", "path", v.ConfigFileUsed())
	return nil
}

// flagFloat returns the flag value when it was set on the command line,
// otherwise the configured value for key.
func (c *CLI) flagFloat(cmd *cobra.Command, flag, key string) float64 {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetFloat64(flag)
		return v
	}
	return c.config.GetFloat64(key)
}

// flagString is [CLI.flagFloat] for string flags.
func (c *CLI) flagString(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return c.config.GetString(key)
}

// flagDuration is [CLI.flagFloat] for duration flags.
func (c *CLI) flagDuration(cmd *cobra.Command, flag, key string) time.Duration {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	return c.config.GetDuration(key)
}

// explicitFloat reports the value for key only when a flag, the
// environment or the config file set it; defaults do not count.
func (c *CLI) explicitFloat(cmd *cobra.Command, flag, key string) (float64, bool) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetFloat64(flag)
		return v, true
	}
	if c.config.InConfig(key) {
		return c.config.GetFloat64(key), true
	}
	if _, ok := os.LookupEnv(envName(key)); ok {
		return c.config.GetFloat64(key), true
	}
	return 0, false
}

// envName returns the environment variable bound to key.
func envName(key string) string {
	return "MASONRY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
