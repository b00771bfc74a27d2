package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates nesting levels: TEAMBALANCE_JIRA__API_TOKEN -> jira.api_token.
const EnvPrefix = "TEAMBALANCE_"

// Load builds a Config by layering, lowest precedence first:
//  1. Default()
//  2. the YAML file at path (skipped when path is empty and the
//     TEAMBALANCE_CONFIG fallback is unset or missing)
//  3. TEAMBALANCE_-prefixed environment variables
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TEAMBALANCE_CONFIG")
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Roster.ExcludedEmails = NormalizeEmails(cfg.Roster.ExcludedEmails)
	cfg.Roster.ScopeExemptEmails = NormalizeEmails(cfg.Roster.ScopeExemptEmails)

	return cfg, nil
}
