package config

import (
	"maps"
	"path/filepath"

	"github.com/xmazu/envload/internal/storage"
)

const (
	// FileName is the per-workspace config file.
	FileName = ".envload.yaml"
	// UserFileName is the config file inside ConfigDir.
	UserFileName = "config.yaml"
)

// Config controls which files are loaded and how they are checked.
// Unset fields fall through to the next layer.
type Config struct {
	Paths        []string `yaml:"paths,omitempty"`
	Names        []string `yaml:"names,omitempty"`
	ShortCircuit *bool    `yaml:"short_circuit,omitempty"`
	Encoding     string   `yaml:"encoding,omitempty"`
	Overload     *bool    `yaml:"overload,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
	Rules        Rules    `yaml:"rules,omitempty"`
}

// Rules are the assertions `envload check` runs.
type Rules struct {
	Required []string            `yaml:"required,omitempty"`
	NotEmpty []string            `yaml:"not_empty,omitempty"`
	Integer  []string            `yaml:"integer,omitempty"`
	Boolean  []string            `yaml:"boolean,omitempty"`
	Allowed  map[string][]string `yaml:"allowed,omitempty"`
	Regex    map[string]string   `yaml:"regex,omitempty"`
}

func (r Rules) IsEmpty() bool {
	return len(r.Required)+len(r.NotEmpty)+len(r.Integer)+len(r.Boolean)+len(r.Allowed)+len(r.Regex) == 0
}

func UserPath() string {
	return filepath.Join(ConfigDir(), UserFileName)
}

func WorkspacePath(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the user config and then the workspace config under root,
// which takes precedence. Missing files are not an error.
func Load(root string) (*Config, error) {
	cfg := &Config{}
	paths := []string{UserPath()}
	if root != "" {
		paths = append(paths, WorkspacePath(root))
	}

	for _, path := range paths {
		var layer Config
		if err := storage.NewYAMLFile(path).LoadIfExists(&layer); err != nil {
			return nil, err
		}
		cfg.Merge(layer)
	}
	return cfg, nil
}

// Merge overlays o onto c. Lists replace, rule lists accumulate and rule
// maps are merged key by key.
func (c *Config) Merge(o Config) {
	if len(o.Paths) > 0 {
		c.Paths = o.Paths
	}
	if len(o.Names) > 0 {
		c.Names = o.Names
	}
	if o.ShortCircuit != nil {
		c.ShortCircuit = o.ShortCircuit
	}
	if o.Encoding != "" {
		c.Encoding = o.Encoding
	}
	if o.Overload != nil {
		c.Overload = o.Overload
	}
	c.Exclude = append(c.Exclude, o.Exclude...)

	c.Rules.Required = append(c.Rules.Required, o.Rules.Required...)
	c.Rules.NotEmpty = append(c.Rules.NotEmpty, o.Rules.NotEmpty...)
	c.Rules.Integer = append(c.Rules.Integer, o.Rules.Integer...)
	c.Rules.Boolean = append(c.Rules.Boolean, o.Rules.Boolean...)
	if len(o.Rules.Allowed) > 0 {
		if c.Rules.Allowed == nil {
			c.Rules.Allowed = make(map[string][]string)
		}
		maps.Copy(c.Rules.Allowed, o.Rules.Allowed)
	}
	if len(o.Rules.Regex) > 0 {
		if c.Rules.Regex == nil {
			c.Rules.Regex = make(map[string]string)
		}
		maps.Copy(c.Rules.Regex, o.Rules.Regex)
	}
}

// IsShortCircuit reports the short_circuit setting, defaulting to true.
func (c *Config) IsShortCircuit() bool {
	return c.ShortCircuit == nil || *c.ShortCircuit
}

func (c *Config) IsOverload() bool {
	return c.Overload != nil && *c.Overload
}
