// Package config resolves tagline configuration from a YAML file and
// environment variables into parser options, recording where each value
// came from. Resolution happens once at startup; parsing never consults
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hurttlocker/tagline"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a configuration value plus its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries CLI-level overrides into resolution.
type ResolveOptions struct {
	ConfigPath    string
	CLISeparator  string
	CLIDelimiters string // "open,close" pair or "none"
	CLIDBPath     string
}

// ResolvedConfig is the normalized configuration record.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath     ResolvedValue `json:"db_path"`
	Separator  ResolvedValue `json:"separator"`
	Delimiters ResolvedValue `json:"delimiters"` // "open,close" or "none"

	Schema map[string]SchemaEntry `json:"schema,omitempty"`
}

// SchemaEntry is one schema declaration from the file: a primitive type
// name and an optional printf-style format pattern.
type SchemaEntry struct {
	Type   string `yaml:"type" json:"type"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// UnmarshalYAML accepts both the bare form ("count: number") and the full
// mapping form ("count: {type: number, format: '#%v'}").
func (e *SchemaEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Type = node.Value
		return nil
	}
	type plain SchemaEntry
	return node.Decode((*plain)(e))
}

type fileConfig struct {
	DBPath     string                 `yaml:"db_path"`
	Separator  string                 `yaml:"separator"`
	Delimiters *delimiterSpec         `yaml:"delimiters"`
	Schema     map[string]SchemaEntry `yaml:"schema"`
}

// delimiterSpec accepts a two-element sequence, an empty sequence, or the
// scalars "none"/"false" for delimiter-free mode.
type delimiterSpec struct {
	pair []string
	none bool
}

func (d *delimiterSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v := strings.ToLower(strings.TrimSpace(node.Value))
		if v == "none" || v == "false" || v == "" {
			d.none = true
			return nil
		}
		return fmt.Errorf("delimiters must be a pair or \"none\", got %q", node.Value)
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) == 0 {
			d.none = true
			return nil
		}
		d.pair = pair
		return nil
	default:
		return fmt.Errorf("delimiters must be a pair or \"none\"")
	}
}

// DefaultConfigPath is ~/.tagline/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tagline", "config.yaml")
}

// DefaultDBPath is ~/.tagline/tagline.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tagline", "tagline.db")
}

// ResolveConfig loads the config file (if present) and applies env and CLI
// overrides, CLI winning over env winning over file winning over defaults.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("TAGLINE_CONFIG"))
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.Separator, cfg.Separator, SourceConfig, path)
		if cfg.Delimiters != nil {
			if cfg.Delimiters.none {
				out.Delimiters = ResolvedValue{Value: "none", Source: SourceConfig, From: path}
			} else {
				out.Delimiters = ResolvedValue{Value: strings.Join(cfg.Delimiters.pair, ","), Source: SourceConfig, From: path}
			}
		}
		out.Schema = cfg.Schema
	}

	applyEnv(&out.DBPath, "TAGLINE_DB")
	applyEnv(&out.Separator, "TAGLINE_SEPARATOR")
	applyEnv(&out.Delimiters, "TAGLINE_DELIMITERS")

	applyCLI(&out.DBPath, opts.CLIDBPath)
	applyCLI(&out.Separator, opts.CLISeparator)
	applyCLI(&out.Delimiters, opts.CLIDelimiters)

	if out.DBPath.Value == "" {
		out.DBPath = ResolvedValue{Value: DefaultDBPath(), Source: SourceDefault}
	}

	return out, nil
}

// ParserOptions converts the resolved record into tagline.Options, compiling
// file-level format patterns into formatter closures. Validation of the
// resulting options is tagline.New's job.
func (rc ResolvedConfig) ParserOptions() (tagline.Options, error) {
	opts := tagline.Options{Separator: rc.Separator.Value}

	switch v := strings.TrimSpace(rc.Delimiters.Value); v {
	case "":
		// Unset: parser defaults apply.
	case "none":
		opts.Delimiters = []string{}
	default:
		parts := strings.Split(v, ",")
		if len(parts) != 2 {
			return opts, fmt.Errorf("delimiters %q: want \"open,close\" or \"none\"", v)
		}
		opts.Delimiters = parts
	}

	if len(rc.Schema) > 0 {
		opts.Schema = tagline.Schema{}
		for name, entry := range rc.Schema {
			def, err := compileEntry(entry)
			if err != nil {
				return opts, fmt.Errorf("schema type %q: %w", name, err)
			}
			opts.Schema[name] = def
		}
	}
	return opts, nil
}

func compileEntry(entry SchemaEntry) (tagline.TypeDef, error) {
	var def tagline.TypeDef
	switch entry.Type {
	case "string":
		def.Kind = tagline.KindString
	case "number":
		def.Kind = tagline.KindNumber
	case "boolean":
		def.Kind = tagline.KindBoolean
	default:
		return def, fmt.Errorf("unknown primitive type %q", entry.Type)
	}
	if pattern := entry.Format; pattern != "" {
		if !strings.Contains(pattern, "%") {
			return def, fmt.Errorf("format %q has no verb", pattern)
		}
		def.Format = func(v tagline.Value) string {
			return fmt.Sprintf(pattern, v.Interface())
		}
	}
	return def, nil
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

func apply(dst *ResolvedValue, value string, source ValueSource, from string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = ResolvedValue{Value: v, Source: source, From: from}
	}
}

func applyEnv(dst *ResolvedValue, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: env}
	}
}

func applyCLI(dst *ResolvedValue, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceCLI}
	}
}
