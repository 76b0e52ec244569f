package scaffold

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// ConfigPaths are the optional files that provide flag defaults, in loading order.
var ConfigPaths = struct {
	YAML []string
	TOML []string
}{
	YAML: []string{"~/.config/next-fast/config.yaml", "~/.config/next-fast/config.yml"},
	TOML: []string{"~/.config/next-fast/config.toml", ".next-fast.toml"},
}

// TOML is a [kong.ConfigurationLoader] for TOML files keyed by flag name.
func TOML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}

	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to decode TOML configuration: %w", err)
	}

	return flagResolver(values), nil
}

// YAML is a [kong.ConfigurationLoader] for YAML files keyed by flag name.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}

	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML configuration: %w", err)
	}

	return flagResolver(values), nil
}

func flagResolver(values map[string]any) kong.ResolverFunc {
	return func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		return lookupFlag(values, flag.Name), nil
	}
}

// lookupFlag accepts both "skip-install" and "skip_install".
// Non-boolean scalars are handed to kong as strings so text unmarshalers can parse them.
func lookupFlag(values map[string]any, name string) any {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}

		if b, isBool := v.(bool); isBool {
			return b
		}

		return fmt.Sprint(v)
	}

	return nil
}
