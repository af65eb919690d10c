// Package config loads idlint.toml / .idlint.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"idlint/internal/diag"
	"idlint/internal/semantic"
	"idlint/internal/validate"
)

// FileNames are searched in order in every directory.
var FileNames = []string{"idlint.toml", ".idlint.yaml", ".idlint.yml"}

// ErrNoConfig is returned by Find when no config file exists up to the root.
var ErrNoConfig = errors.New("no idlint config found")

type Config struct {
	Check    CheckSection      `toml:"check" yaml:"check"`
	Rules    RulesSection      `toml:"rules" yaml:"rules"`
	Severity map[string]string `toml:"severity" yaml:"severity" validate:"dive,keys,semtag,endkeys,oneof=error warning info"`
	Output   OutputSection     `toml:"output" yaml:"output"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

type CheckSection struct {
	Disabled       []string `toml:"disabled" yaml:"disabled" validate:"dive,semtag"`
	Tests          bool     `toml:"tests" yaml:"tests"`
	Jobs           int      `toml:"jobs" yaml:"jobs" validate:"gte=0,lte=256"`
	MaxDiagnostics int      `toml:"max-diagnostics" yaml:"max-diagnostics" validate:"gte=0"`
}

type RulesSection struct {
	PluginID   WordRule `toml:"plugin-id" yaml:"plugin-id"`
	PluginName WordRule `toml:"plugin-name" yaml:"plugin-name"`
}

// WordRule holds a reserved word list. Nil keeps the built-in list, an empty
// list reserves nothing.
type WordRule struct {
	Forbidden []string `toml:"forbidden" yaml:"forbidden" validate:"dive,required"`
}

type OutputSection struct {
	Format   string `toml:"format" yaml:"format" validate:"omitempty,oneof=pretty json sarif short"`
	Color    string `toml:"color" yaml:"color" validate:"omitempty,oneof=auto on off"`
	Notes    bool   `toml:"notes" yaml:"notes"`
	PathMode string `toml:"path-mode" yaml:"path-mode" validate:"omitempty,oneof=absolute relative basename auto"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Check: CheckSection{Jobs: 0},
		Rules: RulesSection{
			PluginID:   WordRule{Forbidden: append([]string(nil), validate.DefaultForbidden...)},
			PluginName: WordRule{Forbidden: append([]string(nil), validate.DefaultForbidden...)},
		},
		Severity: map[string]string{},
		Output:   OutputSection{Format: "pretty", Color: "auto", PathMode: "auto"},
	}
}

// Find walks up from startDir looking for a config file.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}

// Discover finds and loads the nearest config, falling back to Default.
func Discover(startDir string) (*Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNoConfig) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads and validates a config file. Unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format", path)
	}
	cfg.Path = path
	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// fill applies defaults for fields the file left out.
func (c *Config) fill() {
	def := Default()
	if c.Rules.PluginID.Forbidden == nil {
		c.Rules.PluginID.Forbidden = def.Rules.PluginID.Forbidden
	}
	if c.Rules.PluginName.Forbidden == nil {
		c.Rules.PluginName.Forbidden = def.Rules.PluginName.Forbidden
	}
	if c.Severity == nil {
		c.Severity = map[string]string{}
	}
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
	if c.Output.Color == "" {
		c.Output.Color = def.Output.Color
	}
	if c.Output.PathMode == "" {
		c.Output.PathMode = def.Output.PathMode
	}
}

var structValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("semtag", func(fl validator.FieldLevel) bool {
		_, ok := semantic.Parse(fl.Field().String())
		return ok
	})
	return v
}()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := structValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (rule %s)", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Options converts the config into validator registry options.
func (c *Config) Options() (validate.Options, error) {
	opts := validate.Options{
		ForbiddenPluginIDs:   c.Rules.PluginID.Forbidden,
		ForbiddenPluginNames: c.Rules.PluginName.Forbidden,
	}
	for _, name := range c.Check.Disabled {
		tag, ok := semantic.Parse(name)
		if !ok {
			return validate.Options{}, fmt.Errorf("unknown tag %q in check.disabled", name)
		}
		opts.Disabled = append(opts.Disabled, tag)
	}
	if len(c.Severity) > 0 {
		opts.Severity = make(map[semantic.Tag]diag.Severity, len(c.Severity))
		for name, level := range c.Severity {
			tag, ok := semantic.Parse(name)
			if !ok {
				return validate.Options{}, fmt.Errorf("unknown tag %q in severity", name)
			}
			sev, err := diag.ParseSeverity(level)
			if err != nil {
				return validate.Options{}, fmt.Errorf("severity.%s: %w", name, err)
			}
			opts.Severity[tag] = sev
		}
	}
	return opts, nil
}

// Registry builds the validator registry for this config.
func (c *Config) Registry() (*validate.Registry, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return validate.NewRegistry(opts), nil
}

// Encode writes c as TOML.
func Encode(w io.Writer, c *Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}
