// Package lua provides the sandboxed Lua runtime used by unistr scripts.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Capability-based access to the file system
//   - Execution timeouts and host call limits
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(
//	    lua.WithExecutionTimeout(5 * time.Second),
//	    lua.WithOutput(os.Stdout),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "transform.lua"); err != nil {
//	    return err
//	}
//
// # Sandbox
//
// The Sandbox restricts Lua code execution by:
//   - Removing functions that load code (dofile, loadfile, load)
//   - Allowing require only for built-in and preloaded modules
//   - Redirecting print to a configurable writer
//   - Counting host calls to stop runaway scripts
//
// Scripts that need to read files must be granted CapabilityFileRead:
//
//	state.Sandbox().Grant(lua.CapabilityFileRead)
package lua
