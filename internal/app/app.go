// Package app provides the main application structure and coordination
// for unistr. It wires configuration, logging and the string pool together
// and runs record operations and scripts over input streams.
package app

import (
	"io"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/unistr/internal/config"
	"github.com/dshills/unistr/internal/engine/char"
	"github.com/dshills/unistr/internal/engine/ustring"
)

// Application is the central coordinator for a unistr run.
type Application struct {
	config  *config.Config
	logger  *Logger
	pool    *ustring.Pool
	metrics *Metrics
	runID   string

	// Resolved input settings
	delim     char.Char
	normalize bool
	form      norm.Form

	opts Options
}

// Options configures the application. Non-empty fields override the
// configuration file and environment.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogFormat selects "console" or "json" log output.
	LogFormat string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Delimiter is the character ending each input record.
	Delimiter string

	// Normalize names a normalization form applied to each record.
	Normalize string

	// AllowRead grants scripts read access to the file system.
	AllowRead bool

	// ConfigOptions are passed to config.Load.
	ConfigOptions []config.Option

	// Pool supplies record strings. Defaults to ustring.DefaultPool.
	Pool *ustring.Pool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		pool:    opts.Pool,
		metrics: NewMetrics(),
		runID:   uuid.New().String(),
	}
	if app.pool == nil {
		app.pool = ustring.DefaultPool
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config: file and environment, then command-line overrides
	cfg, err := config.Load(app.opts.ConfigPath, app.opts.ConfigOptions...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := cfg.Apply(app.overrides()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logger
	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Output: app.opts.LogOutput,
		Prefix: "unistr",
		Format: cfg.Logging.Format,
	}).WithField("run_id", app.runID)

	// 3. Input
	app.delim, _ = char.ParseString(cfg.Input.Delimiter, 0)
	if cfg.Input.Normalize != "" {
		form, err := ustring.ParseForm(cfg.Input.Normalize)
		if err != nil {
			return &InitError{Component: "input", Err: err}
		}
		app.form = form
		app.normalize = true
	}

	app.logger.Debug("configuration loaded from %q", app.opts.ConfigPath)
	return nil
}

// overrides returns the option fields that were set, shaped like a
// configuration document.
func (app *Application) overrides() map[string]any {
	logging := make(map[string]any)
	input := make(map[string]any)

	if app.opts.LogLevel != "" {
		logging["level"] = app.opts.LogLevel
	}
	if app.opts.LogFormat != "" {
		logging["format"] = app.opts.LogFormat
	}
	if app.opts.Delimiter != "" {
		input["delimiter"] = app.opts.Delimiter
	}
	if app.opts.Normalize != "" {
		input["normalize"] = app.opts.Normalize
	}

	return map[string]any{
		"logging": logging,
		"input":   input,
	}
}

// Config returns the resolved configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the application's metrics instance.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// RunID returns the identifier attached to every log line of this run.
func (app *Application) RunID() string {
	return app.runID
}

// Delimiter returns the character that ends each input record.
func (app *Application) Delimiter() char.Char {
	return app.delim
}

// Close flushes buffered log output.
func (app *Application) Close() error {
	s := app.metrics.Snapshot()
	app.logger.WithFields(map[string]any{
		"records": s.RecordCount,
		"skipped": s.Skipped,
		"failed":  s.Failed,
		"chars":   s.Chars,
		"uptime":  s.Uptime.String(),
	}).Debug("run finished")
	return app.logger.Sync()
}
