package lua

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	// Call limiting
	callLimit int64
	callCount int64
	exceeded  atomic.Bool

	// Output for print
	output io.Writer

	// Longest string.rep result in bytes, or 0 for no limit
	maxStringLen int

	// Modules require may load besides the built-in ones
	modules map[string]bool

	// Capabilities
	capabilities map[Capability]bool
}

// Capability represents a permission that can be granted to scripts.
type Capability string

// Available capabilities.
const (
	CapabilityFileRead Capability = "filesystem.read"
)

// safeModules are the built-in modules require always allows.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, callLimit int64) *Sandbox {
	return &Sandbox{
		L:            L,
		callLimit:    callLimit,
		output:       os.Stdout,
		modules:      make(map[string]bool),
		capabilities: make(map[Capability]bool),
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafePrint()
	s.installSafeRequire()
	s.installSafeStringRep()
}

// SetMaxStringLen caps string.rep results at n bytes. It must be called
// before Install.
func (s *Sandbox) SetMaxStringLen(n int) {
	s.maxStringLen = n
}

// installSafeStringRep wraps string.rep so a single call cannot build a
// string longer than maxStringLen.
func (s *Sandbox) installSafeStringRep() {
	strTable, ok := s.L.GetGlobal("string").(*lua.LTable)
	if !ok || s.maxStringLen <= 0 {
		return
	}
	rep := s.L.GetField(strTable, "rep")
	if rep.Type() != lua.LTFunction {
		return
	}
	limit := s.maxStringLen

	s.L.SetField(strTable, "rep", s.L.NewFunction(func(L *lua.LState) int {
		str := L.CheckString(1)
		n := L.CheckInt(2)
		if len(str) > 0 && n > limit/len(str) {
			L.RaiseError("string.rep: result would exceed %d bytes", limit)
			return 0
		}
		L.Push(rep)
		L.Push(lua.LString(str))
		L.Push(lua.LNumber(n))
		L.Call(2, 1)
		return 1
	}))
}

// SetOutput redirects print.
func (s *Sandbox) SetOutput(w io.Writer) {
	s.output = w
}

// installSafePrint replaces print with a version that writes to the
// sandbox output.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, top)
		for i := 1; i <= top; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	}))
}

// installSafeRequire replaces require with a version that only loads
// built-in modules and modules registered with AllowModule. Nothing is
// ever loaded from disk.
func (s *Sandbox) installSafeRequire() {
	pkg := s.L.GetGlobal("package")
	if pkgTable, ok := pkg.(*lua.LTable); ok {
		s.L.SetField(pkgTable, "path", lua.LString(""))
		s.L.SetField(pkgTable, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)

		if !safeModules[modName] && !s.modules[modName] {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		if originalRequire == lua.LNil {
			L.RaiseError("require is not available")
			return 0
		}

		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}

// AllowModule lets require load a preloaded module.
func (s *Sandbox) AllowModule(name string) {
	s.modules[name] = true
}

// ResetCallCount resets the host call counter.
func (s *Sandbox) ResetCallCount() {
	atomic.StoreInt64(&s.callCount, 0)
	s.exceeded.Store(false)
}

// CallCount returns the current host call count.
func (s *Sandbox) CallCount() int64 {
	return atomic.LoadInt64(&s.callCount)
}

// IncrementCalls adds to the host call count and returns true if the limit
// is exceeded.
func (s *Sandbox) IncrementCalls(n int64) bool {
	if s.callLimit <= 0 {
		return false
	}
	if atomic.AddInt64(&s.callCount, n) > s.callLimit {
		s.exceeded.Store(true)
		return true
	}
	return false
}

// LimitExceeded reports whether the current run went over the call limit.
func (s *Sandbox) LimitExceeded() bool {
	return s.exceeded.Load()
}

// Grant enables a capability.
func (s *Sandbox) Grant(cap Capability) {
	s.capabilities[cap] = true

	switch cap {
	case CapabilityFileRead:
		s.injectFileReadAPI()
	}
}

// HasCapability returns true if the capability is granted.
func (s *Sandbox) HasCapability(cap Capability) bool {
	return s.capabilities[cap]
}

// injectFileReadAPI adds a read-only io module with io.lines and
// io.read_all.
func (s *Sandbox) injectFileReadAPI() {
	ioMod := s.L.NewTable()

	s.L.SetField(ioMod, "lines", s.L.NewFunction(func(L *lua.LState) int {
		filename := L.CheckString(1)
		f, err := os.Open(filename)
		if err != nil {
			L.RaiseError("cannot open file: %s", err.Error())
			return 0
		}

		sc := bufio.NewScanner(f)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			if sc.Scan() {
				L.Push(lua.LString(sc.Text()))
				return 1
			}
			_ = f.Close()
			if err := sc.Err(); err != nil {
				L.RaiseError("reading %s: %s", filename, err.Error())
			}
			return 0
		}))
		return 1
	}))

	s.L.SetField(ioMod, "read_all", s.L.NewFunction(func(L *lua.LState) int {
		filename := L.CheckString(1)
		content, err := os.ReadFile(filename)
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LString(content))
		return 1
	}))

	s.L.SetGlobal("io", ioMod)
}

// CheckCapability returns an error if the capability is not granted.
func (s *Sandbox) CheckCapability(cap Capability) error {
	if !s.capabilities[cap] {
		return &CapabilityError{Capability: cap}
	}
	return nil
}

// CapabilityError is returned when a required capability is missing.
type CapabilityError struct {
	Capability Capability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %q not granted", e.Capability)
}
