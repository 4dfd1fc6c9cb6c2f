package app

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/unistr/internal/engine/ustring"
	"github.com/dshills/unistr/internal/plugin/api"
	"github.com/dshills/unistr/internal/plugin/lua"
)

// ProcessFunction is the global a script defines to handle records.
const ProcessFunction = "process"

// Script is a loaded Lua script with the ustr module available.
//
// A script that defines a global process function is applied to input
// records through Process. A script without one is run for its side
// effects only.
type Script struct {
	path   string
	state  *lua.State
	logger *Logger
}

// LoadScript runs the script at path once with the configured limits.
// print output goes to out.
func (app *Application) LoadScript(ctx context.Context, path string, out io.Writer) (*Script, error) {
	cfg := app.config.Script
	state, err := lua.NewState(
		lua.WithExecutionTimeout(cfg.Timeout),
		lua.WithCallLimit(cfg.CallLimit),
		lua.WithMaxStringLen(utf8.UTFMax*int(cfg.MaxChars)),
		lua.WithOutput(out),
	)
	if err != nil {
		return nil, &InitError{Component: "lua", Err: err}
	}
	if app.opts.AllowRead {
		state.Sandbox().Grant(lua.CapabilityFileRead)
	}

	registry := api.NewRegistry()
	if err := registry.Register(api.NewStringModule(state.Sandbox(), api.WithMaxChars(int(cfg.MaxChars)))); err != nil {
		state.Close()
		return nil, &InitError{Component: "lua", Err: err}
	}
	if err := registry.InjectAll(state.LuaState(), state.Sandbox().AllowModule); err != nil {
		state.Close()
		return nil, &InitError{Component: "lua", Err: err}
	}

	log := app.logger.WithComponent("script").WithField("path", path)
	timer := StartTimer()
	err = state.DoFile(ctx, path)
	app.metrics.RecordScriptRun(err)
	if err != nil {
		state.Close()
		return nil, NewOperationError("script", path, err)
	}
	log.WithFields(map[string]any{
		"calls":   state.Sandbox().CallCount(),
		"elapsed": timer.Elapsed().String(),
	}).Debug("script loaded")

	return &Script{
		path:   path,
		state:  state,
		logger: log,
	}, nil
}

// Path returns the script's file path.
func (s *Script) Path() string {
	return s.path
}

// HasProcess reports whether the script defines a process function.
func (s *Script) HasProcess() bool {
	return s.state.HasFunction(ProcessFunction)
}

// Process calls the script's process function with a copy of rec. The
// function may return a string or ustr String to emit, or nil or false to
// drop the record.
func (s *Script) Process(ctx context.Context, rec *ustring.String) (*ustring.String, error) {
	if !s.HasProcess() {
		return nil, ErrNoProcessFunction
	}

	arg := api.NewStringValue(s.state.LuaState(), rec.Clone())
	ret, err := s.state.Call(ctx, ProcessFunction, arg)
	if err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, nil
	}

	switch v := ret[0].(type) {
	case glua.LString:
		return ustring.FromString(string(v)), nil
	case glua.LBool:
		if !bool(v) {
			return nil, nil
		}
	case *glua.LUserData:
		if str, ok := api.ToString(v); ok {
			return str, nil
		}
	default:
		if v == glua.LNil {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBadResult, ret[0].Type())
}

// RecordFunc adapts the script for Application.Process.
func (s *Script) RecordFunc() RecordFunc {
	return s.Process
}

// Close releases the Lua state.
func (s *Script) Close() error {
	s.logger.Debug("script closed")
	return s.state.Close()
}
