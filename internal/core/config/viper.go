package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PR_DATABASE_URL.
const EnvPrefix = "PR"

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the caller, which then calls Validate. Values are not
// validated here so a flag can still replace a bad environment value.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("database.url", def.DatabaseURL)
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("log.format", def.LogFormat)
	v.SetDefault("apply.ruleset", def.Ruleset)
	v.SetDefault("apply.workers", def.Workers)
	v.SetDefault("output.format", def.OutputFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := validateNoSecretsInConfig(configPath); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		DatabaseURL:  v.GetString("database.url"),
		LogLevel:     v.GetString("log.level"),
		LogFormat:    v.GetString("log.format"),
		Ruleset:      v.GetString("apply.ruleset"),
		Workers:      v.GetInt("apply.workers"),
		OutputFormat: v.GetString("output.format"),
	}

	return cfg, nil
}

// validateNoSecretsInConfig rejects database passwords written into config
// files. Credentials belong in PR_DATABASE_URL.
func validateNoSecretsInConfig(configPath string) error {
	fv := viper.New()
	fv.SetConfigFile(configPath)
	if err := fv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	raw := fv.GetString("database.url")
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("database.url: %w", err)
	}
	if _, ok := u.User.Password(); ok {
		return fmt.Errorf("database passwords not allowed in config files (use %s_DATABASE_URL environment variable)", EnvPrefix)
	}
	return nil
}
