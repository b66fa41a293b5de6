package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/rosterboard/internal/log"
)

// EnvPrefix prefixes environment overrides, e.g. ROSTERBOARD_SERVER_URL.
const EnvPrefix = "ROSTERBOARD"

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("feedback.dismiss_after", d.Feedback.DismissAfter)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.show_descriptions", d.UI.ShowDescriptions)
	v.SetDefault("theme.highlight", d.Theme.Highlight)
	v.SetDefault("theme.subtle", d.Theme.Subtle)
	v.SetDefault("theme.error", d.Theme.Error)
	v.SetDefault("theme.success", d.Theme.Success)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.seed_file", d.Serve.SeedFile)
	v.SetDefault("serve.db_path", d.Serve.DBPath)
	v.SetDefault("serve.watch_seed", d.Serve.WatchSeed)
	v.SetDefault("cache.label_ttl", d.Cache.LabelTTL)
}

// Load reads configuration into v and decodes it. An explicit cfgFile wins;
// otherwise the lookup order is:
//  1. .rosterboard/config.yaml (current directory)
//  2. ~/.config/rosterboard/config.yaml (user config)
//
// When neither exists a default file is written to DefaultConfigPath.
// It returns the path of the file used, if any.
func Load(v *viper.Viper, cfgFile string) (Config, string, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case fileExists(DefaultConfigPath):
		v.SetConfigFile(DefaultConfigPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "rosterboard"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, "", err
		}
		// No config file found anywhere; create the default and carry on
		// with defaults if that fails.
		if writeErr := WriteDefaultConfig(DefaultConfigPath); writeErr == nil {
			v.SetConfigFile(DefaultConfigPath)
			_ = v.ReadInConfig()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", err
	}
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = DefaultTracesFilePath()
	}
	log.Debug(log.CatConfig, "loaded config", "file", v.ConfigFileUsed(), "server", cfg.Server.URL)
	return cfg, v.ConfigFileUsed(), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
