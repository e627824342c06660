package runconfig

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads a YAML options file using Koanf and validates the result.
// An empty filepath returns Default().
func Load(filepath string) (*Options, error) {
	if filepath == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load mining options from %q: %w", filepath, err)
	}

	opts := Default()
	if err := k.UnmarshalWithConf("", opts, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse mining options from %q: %w", filepath, err)
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mining options in %q: %w", filepath, err)
	}

	return opts, nil
}

// ApplyOverrides applies CLI-flag-sourced overrides onto a loaded Options
// value. Only flags explicitly set (present in overrides) take effect, so
// command-line flags win over the file but never clobber unset ones.
func ApplyOverrides(opts *Options, overrides map[string]string) error {
	values := make(map[string]interface{}, len(overrides))
	for key, val := range overrides {
		values[key] = val
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return fmt.Errorf("failed to apply option overrides: %w", err)
	}
	if err := k.UnmarshalWithConf("", opts, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return fmt.Errorf("failed to apply option overrides: %w", err)
	}
	return opts.Validate()
}
