package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndryLeon/peloton/pkg/errors"
)

// Load reads a YAML file into config, expanding ${VAR} references
// against the process environment first. Unknown variables expand to
// the empty string; a setting whose whole value expands to nothing
// reads as YAML null and keeps the value config already holds.
func Load(path string, config interface{}) error {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file")
	}

	expanded := os.Expand(string(raw), func(name string) string {
		return os.Getenv(name)
	})

	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML")
	}
	return nil
}

// Save writes config to a YAML file.
func Save(path string, config interface{}) error {
	raw, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file")
	}
	return nil
}
