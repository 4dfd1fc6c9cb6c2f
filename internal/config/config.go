package config

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dshills/unistr/internal/config/loader"
	"github.com/dshills/unistr/internal/engine/ustring"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "UNISTR_"

// Default values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultDelimiter = "\n"
	DefaultTimeout   = 5 * time.Second
	DefaultCallLimit = 1_000_000
	DefaultMaxChars  = 1 << 20
)

// Config holds the resolved settings.
type Config struct {
	Logging LoggingConfig
	Input   InputConfig
	Script  ScriptConfig
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	Level string
	// Format is "console" or "json".
	Format string
}

// InputConfig controls how records are read.
type InputConfig struct {
	// Delimiter is the single character ending each record.
	Delimiter string
	// Normalize names a normalization form applied to each record,
	// or is empty to leave records untouched.
	Normalize string
}

// ScriptConfig bounds script execution.
type ScriptConfig struct {
	// Timeout cancels a script run that takes longer. Zero disables it.
	Timeout time.Duration
	// CallLimit caps the host API calls a single run may make. Zero
	// disables it.
	CallLimit int64
	// MaxChars caps the length in characters of any string a script
	// builds or grows.
	MaxChars int64
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Input: InputConfig{
			Delimiter: DefaultDelimiter,
		},
		Script: ScriptConfig{
			Timeout:   DefaultTimeout,
			CallLimit: DefaultCallLimit,
			MaxChars:  DefaultMaxChars,
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs  loader.FileSystem
	env loader.Loader
}

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment loader.
func WithEnv(l loader.Loader) Option {
	return func(o *options) {
		o.env = l
	}
}

// Load builds a Config from the defaults, the file at path (skipped when
// path is empty or the file does not exist) and UNISTR_* environment
// variables, then validates it.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)
	if path != "" {
		fl, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		fileCfg, err := fl.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	envCfg, err := o.env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envCfg)

	cfg := Default()
	if err := cfg.Apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overlays the settings present in m onto c. Unknown keys are
// ignored.
func (c *Config) Apply(m map[string]any) error {
	var errs []error
	set := func(path string, fn func(any) error) {
		if v, ok := loader.GetByPath(m, path); ok {
			if err := fn(v); err != nil {
				errs = append(errs, err)
			}
		}
	}

	set("logging.level", stringSetter("logging.level", &c.Logging.Level))
	set("logging.format", stringSetter("logging.format", &c.Logging.Format))
	set("input.delimiter", stringSetter("input.delimiter", &c.Input.Delimiter))
	set("input.normalize", stringSetter("input.normalize", &c.Input.Normalize))
	set("script.timeout", durationSetter("script.timeout", &c.Script.Timeout))
	set("script.callLimit", intSetter("script.callLimit", &c.Script.CallLimit))
	set("script.maxChars", intSetter("script.maxChars", &c.Script.MaxChars))

	return errors.Join(errs...)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path string, value any, msg string) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		invalid("logging.format", c.Logging.Format, "must be console or json")
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		invalid("input.delimiter", c.Input.Delimiter, "must be exactly one character")
	}
	if c.Input.Normalize != "" {
		if _, err := ustring.ParseForm(c.Input.Normalize); err != nil {
			invalid("input.normalize", c.Input.Normalize, err.Error())
		}
	}
	if c.Script.Timeout < 0 {
		invalid("script.timeout", c.Script.Timeout, "must not be negative")
	}
	if c.Script.CallLimit < 0 {
		invalid("script.callLimit", c.Script.CallLimit, "must not be negative")
	}
	if c.Script.MaxChars <= 0 {
		invalid("script.maxChars", c.Script.MaxChars, "must be positive")
	}

	return errors.Join(errs...)
}

func stringSetter(path string, dst *string) func(any) error {
	return func(v any) error {
		switch x := v.(type) {
		case string:
			*dst = x
		case int, int64, uint64, float64:
			*dst = fmt.Sprint(x)
		default:
			return &TypeError{Path: path, Expected: "string", Value: v}
		}
		return nil
	}
}

func intSetter(path string, dst *int64) func(any) error {
	return func(v any) error {
		switch x := v.(type) {
		case int:
			*dst = int64(x)
		case int64:
			*dst = x
		case uint64:
			*dst = int64(x)
		default:
			return &TypeError{Path: path, Expected: "integer", Value: v}
		}
		return nil
	}
}

func durationSetter(path string, dst *time.Duration) func(any) error {
	return func(v any) error {
		switch x := v.(type) {
		case time.Duration:
			*dst = x
		case string:
			d, err := time.ParseDuration(x)
			if err != nil {
				return &TypeError{Path: path, Expected: "duration", Value: v}
			}
			*dst = d
		case int:
			*dst = time.Duration(x) * time.Millisecond
		case int64:
			*dst = time.Duration(x) * time.Millisecond
		default:
			return &TypeError{Path: path, Expected: "duration", Value: v}
		}
		return nil
	}
}
