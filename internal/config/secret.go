package config

import (
	"fmt"
	"strings"
)

// resolveSecret expands token references of the form "env(VAR_NAME)" through
// the loader's environment source. Literal values pass through unchanged.
func resolveSecret(v string, getenv func(string) string) (string, error) {
	if !strings.HasPrefix(v, "env(") || !strings.HasSuffix(v, ")") {
		return v, nil
	}
	name := v[4 : len(v)-1]
	if name == "" {
		return "", &ConfigError{Field: "token", Reason: "empty env() secret reference"}
	}
	value := getenv(name)
	if value == "" {
		return "", &ConfigError{Field: "token", Reason: fmt.Sprintf(
			"environment variable %q referenced by env() is not set", name)}
	}
	return value, nil
}
