package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfilesFile is the default per-environment connection profiles filename.
const ProfilesFile = "profiles.yaml"

// profileEntry is one named connection profile.
type profileEntry struct {
	Host      string `yaml:"host"`
	ClusterID string `yaml:"cluster_id"`
	Token     string `yaml:"token"`
}

// applyProfile fills Host, ClusterID, and Token from the named profile for
// any of the three still unset. Direct settings win over profile values.
func (l *Loader) applyProfile(cfg *Config) error {
	if cfg.Profile == "" {
		return nil
	}
	if cfg.Host != "" && cfg.ClusterID != "" && cfg.Token != "" {
		return nil
	}

	path := l.getenv("SOY_PROFILES_FILE")
	if path == "" {
		path = filepath.Join(l.dir, ProfilesFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigError{Field: "profile", Reason: fmt.Sprintf(
				"profile %q referenced but %s does not exist", cfg.Profile, path)}
		}
		return &ConfigError{Field: "profile", Reason: err.Error()}
	}

	var profiles map[string]profileEntry
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return &ConfigError{Field: "profile", Reason: fmt.Sprintf(
			"%s: invalid YAML: %v", path, err)}
	}

	p, ok := profiles[cfg.Profile]
	if !ok {
		return &ConfigError{Field: "profile", Reason: fmt.Sprintf(
			"profile %q not found in %s", cfg.Profile, path)}
	}

	setString(&cfg.Host, p.Host)
	setString(&cfg.ClusterID, p.ClusterID)
	setString(&cfg.Token, p.Token)
	return nil
}
