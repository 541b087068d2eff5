// Package config loads datasource configurations from YAML or JSON5 files.
//
// A file named shop.yaml may be accompanied by shop.local.yaml. Fields set
// in the local file override those of the base file; slices such as the
// extractor list are replaced as a whole.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/fwojciec/offerdoc"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// DefaultProvider returns the provider conventions applied to every
// datasource that does not set its own.
func DefaultProvider() offerdoc.ProviderConfig {
	return offerdoc.ProviderConfig{
		DatePrefixes: []string{"Posted on", "Reviewed on", "Publié le", "Avis publié le"},
	}
}

// Load reads the datasource configuration at path, merges its local
// override if one exists and fills provider gaps from DefaultProvider.
// Returns ECONFIG if a file cannot be decoded or the result is invalid.
func Load(path string) (*offerdoc.DatasourceConfig, error) {
	var cfg offerdoc.DatasourceConfig
	if err := decodeFile(path, &cfg); err != nil {
		return nil, err
	}

	local := LocalPath(path)
	if _, err := os.Stat(local); err == nil {
		var override offerdoc.DatasourceConfig
		if err := decodeFile(local, &override); err != nil {
			return nil, err
		}
		if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s: %w", local, err)
		}
		slog.Debug("merged config with local overrides", "local", local)
	}

	if err := mergo.Merge(&cfg.Provider, DefaultProvider()); err != nil {
		return nil, fmt.Errorf("merge provider defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAll loads every path in order and rejects duplicate datasource names.
func LoadAll(paths []string) ([]*offerdoc.DatasourceConfig, error) {
	seen := make(map[string]string, len(paths))
	out := make([]*offerdoc.DatasourceConfig, 0, len(paths))
	for _, p := range paths {
		cfg, err := Load(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[cfg.Name]; ok {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "datasource %s declared by both %s and %s", cfg.Name, prev, p)
		}
		seen[cfg.Name] = p
		out = append(out, cfg)
	}
	return out, nil
}

// LocalPath returns the override path of path: shop.yaml becomes
// shop.local.yaml.
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Decode decodes data according to the file extension ext.
func Decode(data []byte, ext string, cfg *offerdoc.DatasourceConfig) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		return yaml.Unmarshal(data, cfg)
	case "json", "json5":
		return json5.Unmarshal(data, cfg)
	default:
		return offerdoc.Errorf(offerdoc.ECONFIG, "unsupported config format %q", ext)
	}
}

func decodeFile(path string, cfg *offerdoc.DatasourceConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return offerdoc.Errorf(offerdoc.ECONFIG, "config file not found: %s", path)
		}
		return err
	}
	if err := Decode(data, filepath.Ext(path), cfg); err != nil {
		if offerdoc.ErrorCode(err) == offerdoc.ECONFIG {
			return err
		}
		return offerdoc.Errorf(offerdoc.ECONFIG, "decode %s: %v", path, err)
	}
	return nil
}
