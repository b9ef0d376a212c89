package versions

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	goavsc "github.com/reoring/goavsc"
)

// Config selects a Source and the version to load at startup.
type Config struct {
	// Dir is a local directory holding versions.json. Mutually exclusive with URL.
	Dir string `yaml:"dir"`
	// URL is the base URL of a published layout.
	URL string `yaml:"url"`
	// Version to load on start; empty loads the latest.
	Version string `yaml:"version"`
	// Timeout bounds HTTP requests (10s when zero).
	Timeout time.Duration `yaml:"timeout"`

	DefaultNamespace    string `yaml:"defaultNamespace"`
	RejectDuplicateKeys bool   `yaml:"rejectDuplicateKeys"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("versions: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML config document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("versions: decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that exactly one source is configured.
func (c Config) Validate() error {
	switch {
	case c.Dir == "" && c.URL == "":
		return errors.New("versions: one of dir or url is required")
	case c.Dir != "" && c.URL != "":
		return errors.New("versions: dir and url are mutually exclusive")
	case c.Timeout < 0:
		return errors.New("versions: timeout must not be negative")
	}
	return nil
}

// Source builds the configured Source.
func (c Config) Source() (Source, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Dir != "" {
		return NewDirSource(os.DirFS(c.Dir)), nil
	}
	return NewHTTPSource(c.URL, c.Timeout)
}

// ParseOpt returns the parse options implied by the config.
func (c Config) ParseOpt() goavsc.ParseOpt {
	return goavsc.ParseOpt{DefaultNamespace: c.DefaultNamespace, RejectDuplicateKeys: c.RejectDuplicateKeys}
}
