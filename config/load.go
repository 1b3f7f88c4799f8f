package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigYaml is written to disk the first time the editor runs
// with no existing config file.
var DefaultConfigYaml = []byte(`theme: default
precision: -1
delimiter: ""
hasHeader: true
idleTimeoutMs: 1000
showRowNumbers: true
`)

// Path returns the location of the persisted configuration file.
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("tabedit", "config.yaml"))
}

// LoadOrCreate loads the config file if it exists and writes a default
// one the first time the editor runs. forceDefault skips the file
// entirely and returns DefaultConfig(), for the -noconfig CLI flag.
func LoadOrCreate(forceDefault bool) (Config, error) {
	if forceDefault {
		log.Printf("using default config\n")
		return unmarshal(DefaultConfigYaml)
	}

	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	log.Printf("loading config from %q\n", path)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("writing default config to %q\n", path)
		if err := saveDefault(path); err != nil {
			return Config{}, fmt.Errorf("writing default config to %q: %w", path, err)
		}
		return unmarshal(DefaultConfigYaml)
	} else if err != nil {
		return Config{}, fmt.Errorf("loading config from %q: %w", path, err)
	}

	cfg, err := unmarshal(data)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w\nto edit it, see %q", err, path)
	}

	return cfg, nil
}

func unmarshal(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}
	cfg.Apply(overlay)
	if overlay.Delimiter != "" {
		cfg.Delimiter = overlay.Delimiter
	}
	cfg.HasHeader = overlay.HasHeader
	cfg.ShowRowNumbers = overlay.ShowRowNumbers
	return cfg, nil
}

func saveDefault(path string) error {
	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}
	if err := os.WriteFile(path, DefaultConfigYaml, 0644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}
	return nil
}
