// Package api provides the Lua API modules exposed to unistr scripts.
//
// Each API module implements the Module interface:
//
//	type Module interface {
//	    Name() string
//	    Register(L *lua.LState) error
//	}
//
// Register installs the module's metatables and preloads it, so scripts
// load it with require:
//
//	local ustr = require("ustr")
//	local s = ustr.new("héllo")
//	s:insert(1, "¡")
//	print(s, #s, s:size())
//
// Positions passed from Lua are 1-based and converted to the 0-based
// positions of the string container. A negative or omitted count means
// "through the end".
package api
