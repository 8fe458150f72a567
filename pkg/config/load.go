// pkg/config/load.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RECWARS_RULES_AUTOFIRE.
const EnvPrefix = "RECWARS"

// Load reads cvars from path (JSON, YAML or TOML by extension) on top of
// DefaultCvars. An empty path loads defaults plus environment overrides.
func Load(path string) (*Cvars, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load using a caller-provided viper instance, so a command can
// bind its flags before loading.
func LoadWith(v *viper.Viper, path string) (*Cvars, error) {
	if err := registerDefaults(v, DefaultCvars()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read cvars file: %w", err)
		}
	}

	var cvars Cvars
	if err := v.Unmarshal(&cvars); err != nil {
		return nil, fmt.Errorf("failed to decode cvars: %w", err)
	}
	if err := cvars.Validate(); err != nil {
		return nil, err
	}
	return &cvars, nil
}

// Save writes cvars to path as indented JSON.
func Save(cvars *Cvars, path string) error {
	if cvars == nil {
		return fmt.Errorf("%w: nil cvars", ErrInvalidCvars)
	}
	data, err := json.MarshalIndent(cvars, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cvars: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cvars file: %w", err)
	}
	return nil
}

// registerDefaults flattens defaults into dotted viper keys. Registering
// every leaf is what lets AutomaticEnv see nested keys during Unmarshal.
func registerDefaults(v *viper.Viper, defaults *Cvars) error {
	data, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to marshal default cvars: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to flatten default cvars: %w", err)
	}
	setDefaults(v, "", tree)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, value)
	}
}
