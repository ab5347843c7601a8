package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "FEMTOMIX_"

// Load builds Settings from defaults, the YAML file at path and FEMTOMIX_
// environment variables, in that order of precedence (env wins).
// An empty path skips the file layer. A missing file is an error.
func Load(path string) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Settings{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Settings{}, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Settings{}, fmt.Errorf("load environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// envKey maps FEMTOMIX_MIXER__MAX_BUFFER_SIZE to mixer.max_buffer_size.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// FromFile loads settings from a file, detecting the format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Settings{}, fmt.Errorf("unsupported config file extension: %q", ext)
	}
}

// FromYAML decodes YAML data over the defaults and validates the result.
func FromYAML(data []byte) (Settings, error) {
	s := Default()
	if err := yamlv3.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromJSON decodes JSON data over the defaults and validates the result.
func FromJSON(data []byte) (Settings, error) {
	s := Default()
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse json: %w", err)
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
