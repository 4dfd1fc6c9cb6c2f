package api

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/unistr/internal/engine/char"
	"github.com/dshills/unistr/internal/engine/ustring"
)

// StringTypeName is the metatable name of ustr String userdata.
const StringTypeName = "ustr.String"

// DefaultMaxChars is the default limit on the length of a script string.
const DefaultMaxChars = 1 << 20

// CallBudget limits the number of host calls a script may make.
type CallBudget interface {
	// IncrementCalls adds n calls and reports whether the limit is exceeded.
	IncrementCalls(n int64) bool
}

// StringModule implements the ustr API module, which exposes the
// character-indexed string container to scripts.
type StringModule struct {
	budget   CallBudget
	maxChars int
}

// StringOption configures a StringModule.
type StringOption func(*StringModule)

// WithMaxChars limits the length in characters of any string a script
// creates or grows. Operations that would exceed it raise a Lua error
// before any memory is allocated.
func WithMaxChars(n int) StringOption {
	return func(m *StringModule) {
		if n > 0 {
			m.maxChars = n
		}
	}
}

// NewStringModule creates a new string module. budget may be nil.
func NewStringModule(budget CallBudget, opts ...StringOption) *StringModule {
	m := &StringModule{
		budget:   budget,
		maxChars: DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxChars returns the string length limit.
func (m *StringModule) MaxChars() int {
	return m.maxChars
}

// Name returns the module name.
func (m *StringModule) Name() string {
	return "ustr"
}

// Register installs the String metatable and preloads the module.
func (m *StringModule) Register(L *lua.LState) error {
	mt := L.NewTypeMetatable(StringTypeName)

	methods := L.NewTable()
	L.SetFuncs(methods, map[string]lua.LGFunction{
		"len":               m.length,
		"size":              m.size,
		"capacity":          m.capacity,
		"empty":             m.empty,
		"reserve":           m.reserve,
		"resize":            m.resize,
		"shrink":            m.shrink,
		"clear":             m.clear,
		"at":                m.at,
		"set":               m.set,
		"front":             m.front,
		"back":              m.back,
		"append":            m.append,
		"assign":            m.assign,
		"insert":            m.insert,
		"erase":             m.erase,
		"pop_back":          m.popBack,
		"replace":           m.replace,
		"substr":            m.substr,
		"reverse":           m.reverse,
		"clone":             m.clone,
		"compare":           m.compare,
		"equals":            m.equals,
		"equals_normalized": m.equalsNormalized,
		"graphemes":         m.graphemes,
		"grapheme_list":     m.graphemeList,
		"width":             m.width,
		"normalize":         m.normalize,
		"hash":              m.hash,
		"chars":             m.chars,
		"tostring":          m.tostring,
	})
	L.SetField(mt, "__index", methods)
	L.SetField(mt, "__tostring", L.NewFunction(m.tostring))
	L.SetField(mt, "__len", L.NewFunction(m.length))
	L.SetField(mt, "__eq", L.NewFunction(m.equals))
	L.SetField(mt, "__lt", L.NewFunction(m.less))
	L.SetField(mt, "__concat", L.NewFunction(m.concatMeta))

	L.PreloadModule(m.Name(), m.loader)
	return nil
}

// loader returns the module table for require("ustr").
func (m *StringModule) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"new":     m.newString,
		"concat":  m.concat,
		"compare": m.compareFn,
		"count":   m.count,
		"is":      m.is,
	})
	L.SetField(mod, "npos", lua.LNumber(-1))
	L.Push(mod)
	return 1
}

// PushString pushes s onto the Lua stack as String userdata. The module
// must be registered in L.
func PushString(L *lua.LState, s *ustring.String) {
	L.Push(NewStringValue(L, s))
}

// NewStringValue wraps s as String userdata. The module must be registered
// in L.
func NewStringValue(L *lua.LState, s *ustring.String) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(StringTypeName))
	return ud
}

// ToString returns the String held by v, if any.
func ToString(v lua.LValue) (*ustring.String, bool) {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	s, ok := ud.Value.(*ustring.String)
	return s, ok
}

// tick charges one host call against the budget.
func (m *StringModule) tick(L *lua.LState) {
	if m.budget != nil && m.budget.IncrementCalls(1) {
		L.RaiseError("call limit exceeded")
	}
}

// check returns the String at stack position n.
func (m *StringModule) check(L *lua.LState, n int) *ustring.String {
	s, ok := ToString(L.Get(n))
	if !ok {
		L.ArgError(n, "ustr.String expected")
		return nil
	}
	return s
}

// operand returns the argument at n as a String, converting a Lua string.
func (m *StringModule) operand(L *lua.LState, n int) *ustring.String {
	v := L.Get(n)
	if s, ok := ToString(v); ok {
		return s
	}
	if str, ok := v.(lua.LString); ok {
		return ustring.FromString(string(str))
	}
	L.ArgError(n, "string or ustr.String expected")
	return nil
}

// limit raises a Lua error unless base + count*repeat characters fit in
// maxChars.
func (m *StringModule) limit(L *lua.LState, op string, base, count, repeat int) {
	if count <= 0 || repeat <= 0 {
		return
	}
	if base > m.maxChars || repeat > (m.maxChars-base)/count {
		L.RaiseError("%s: result would exceed %d characters", op, m.maxChars)
	}
}

// span is the number of characters n selects from remaining; a negative
// n selects all of them.
func span(n, remaining int) int {
	if remaining <= 0 {
		return 0
	}
	if n < 0 || n > remaining {
		return remaining
	}
	return n
}

// checkChar returns the single character at stack position n.
func (m *StringModule) checkChar(L *lua.LState, n int) char.Char {
	str := L.CheckString(n)
	c, size := char.ParseString(str, 0)
	if size == 0 || size != len(str) {
		L.ArgError(n, "single character expected")
	}
	return c
}

// checkPos converts the 1-based position at n to a 0-based one.
func checkPos(L *lua.LState, n int) int {
	return L.CheckInt(n) - 1
}

// optCount returns the count at n, or -1 (through the end) when absent.
func optCount(L *lua.LState, n int) int {
	return L.OptInt(n, -1)
}

func raise(L *lua.LState, op string, err error) {
	L.RaiseError("%s: %v", op, err)
}

// ustr.new([str]) -> String
func (m *StringModule) newString(L *lua.LState) int {
	m.tick(L)
	if L.GetTop() == 0 {
		PushString(L, ustring.New())
		return 1
	}
	o := m.operand(L, 1)
	m.limit(L, "new", 0, o.Len(), 1)
	PushString(L, o.Clone())
	return 1
}

// ustr.concat(...) -> String
func (m *StringModule) concat(L *lua.LState) int {
	m.tick(L)
	top := L.GetTop()
	parts := make([]*ustring.String, top)
	total := 0
	for i := 1; i <= top; i++ {
		parts[i-1] = m.operand(L, i)
		m.limit(L, "concat", total, parts[i-1].Len(), 1)
		total += parts[i-1].Len()
	}
	PushString(L, ustring.Concat(parts...))
	return 1
}

// ustr.compare(a, b) -> int
func (m *StringModule) compareFn(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.operand(L, 1).Compare(m.operand(L, 2))))
	return 1
}

// ustr.count(str) -> int
// Counts the characters of a plain Lua string.
func (m *StringModule) count(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(char.CountString(L.CheckString(1))))
	return 1
}

// ustr.is(v) -> bool
func (m *StringModule) is(L *lua.LState) int {
	_, ok := ToString(L.Get(1))
	L.Push(lua.LBool(ok))
	return 1
}

// s:len() -> int
func (m *StringModule) length(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.check(L, 1).Len()))
	return 1
}

// s:size() -> int
// Byte size including the terminator.
func (m *StringModule) size(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.check(L, 1).Size()))
	return 1
}

func (m *StringModule) capacity(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.check(L, 1).Capacity()))
	return 1
}

func (m *StringModule) empty(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LBool(m.check(L, 1).IsEmpty()))
	return 1
}

func (m *StringModule) reserve(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	n := L.CheckInt(2)
	if n < 0 || n > ustring.MaxSize() {
		L.ArgError(2, "capacity out of range")
	}
	m.limit(L, "reserve", 0, n, 1)
	s.Reserve(n)
	return 0
}

// s:resize(n [, fill])
func (m *StringModule) resize(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	n := L.CheckInt(2)
	if n < 0 || n > ustring.MaxSize() {
		L.ArgError(2, "size out of range")
	}
	m.limit(L, "resize", 0, n, 1)
	if L.GetTop() >= 3 {
		s.ResizeFill(n, m.checkChar(L, 3))
	} else {
		s.Resize(n)
	}
	return 0
}

func (m *StringModule) shrink(L *lua.LState) int {
	m.tick(L)
	m.check(L, 1).ShrinkToFit()
	return 0
}

func (m *StringModule) clear(L *lua.LState) int {
	m.tick(L)
	m.check(L, 1).Clear()
	return 0
}

// s:at(i) -> string
func (m *StringModule) at(L *lua.LState) int {
	m.tick(L)
	c, err := m.check(L, 1).At(checkPos(L, 2))
	if err != nil {
		raise(L, "at", err)
		return 0
	}
	L.Push(lua.LString(c.String()))
	return 1
}

// s:set(i, ch)
func (m *StringModule) set(L *lua.LState) int {
	m.tick(L)
	if err := m.check(L, 1).Set(checkPos(L, 2), m.checkChar(L, 3)); err != nil {
		raise(L, "set", err)
	}
	return 0
}

// s:front() -> string or nil
func (m *StringModule) front(L *lua.LState) int {
	m.tick(L)
	c, ok := m.check(L, 1).Front()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(c.String()))
	return 1
}

// s:back() -> string or nil
func (m *StringModule) back(L *lua.LState) int {
	m.tick(L)
	c, ok := m.check(L, 1).Back()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(c.String()))
	return 1
}

// s:append(x [, repeat]) -> s
func (m *StringModule) append(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	o, repeat := m.operand(L, 2), L.OptInt(3, 1)
	m.limit(L, "append", s.Len(), o.Len(), repeat)
	s.AppendN(o, repeat)
	L.Push(L.Get(1))
	return 1
}

// s:assign(x) -> s
func (m *StringModule) assign(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	o := m.operand(L, 2)
	m.limit(L, "assign", 0, o.Len(), 1)
	s.Assign(o)
	L.Push(L.Get(1))
	return 1
}

// s:insert(i, x) -> s
func (m *StringModule) insert(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	pos, o := checkPos(L, 2), m.operand(L, 3)
	m.limit(L, "insert", s.Len(), o.Len(), 1)
	if err := s.Insert(pos, o); err != nil {
		raise(L, "insert", err)
		return 0
	}
	L.Push(L.Get(1))
	return 1
}

// s:erase(i [, n]) -> s
func (m *StringModule) erase(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	if err := s.Erase(checkPos(L, 2), optCount(L, 3)); err != nil {
		raise(L, "erase", err)
		return 0
	}
	L.Push(L.Get(1))
	return 1
}

func (m *StringModule) popBack(L *lua.LState) int {
	m.tick(L)
	m.check(L, 1).PopBack()
	return 0
}

// s:replace(i, n, x [, subpos [, sublen]]) -> s
func (m *StringModule) replace(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	pos := checkPos(L, 2)
	n := L.CheckInt(3)
	o := m.operand(L, 4)

	removed := 0
	if pos >= 0 && pos < s.Len() {
		removed = span(n, s.Len()-pos)
	}

	var err error
	if L.GetTop() >= 5 {
		subpos, sublen := checkPos(L, 5), optCount(L, 6)
		added := 0
		if subpos >= 0 && subpos < o.Len() {
			added = span(sublen, o.Len()-subpos)
		}
		m.limit(L, "replace", s.Len()-removed, added, 1)
		err = s.ReplaceSub(pos, n, o, subpos, sublen)
	} else {
		m.limit(L, "replace", s.Len()-removed, o.Len(), 1)
		err = s.Replace(pos, n, o)
	}
	if err != nil {
		raise(L, "replace", err)
		return 0
	}
	L.Push(L.Get(1))
	return 1
}

// s:substr(i [, n]) -> String
func (m *StringModule) substr(L *lua.LState) int {
	m.tick(L)
	sub, err := m.check(L, 1).Substr(checkPos(L, 2), optCount(L, 3))
	if err != nil {
		raise(L, "substr", err)
		return 0
	}
	PushString(L, sub)
	return 1
}

// s:reverse() -> s
func (m *StringModule) reverse(L *lua.LState) int {
	m.tick(L)
	m.check(L, 1).Reverse()
	L.Push(L.Get(1))
	return 1
}

func (m *StringModule) clone(L *lua.LState) int {
	m.tick(L)
	PushString(L, m.check(L, 1).Clone())
	return 1
}

// s:compare(x) -> int
func (m *StringModule) compare(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.check(L, 1).Compare(m.operand(L, 2))))
	return 1
}

// s:equals(x) -> bool
func (m *StringModule) equals(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LBool(m.operand(L, 1).Equal(m.operand(L, 2))))
	return 1
}

func (m *StringModule) less(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LBool(m.operand(L, 1).Compare(m.operand(L, 2)) < 0))
	return 1
}

func (m *StringModule) equalsNormalized(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LBool(m.check(L, 1).EqualNormalized(m.operand(L, 2))))
	return 1
}

// s:graphemes() -> int
func (m *StringModule) graphemes(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.check(L, 1).GraphemeCount()))
	return 1
}

// s:grapheme_list() -> {string...}
func (m *StringModule) graphemeList(L *lua.LState) int {
	m.tick(L)
	tbl := L.NewTable()
	for _, g := range m.check(L, 1).Graphemes() {
		tbl.Append(lua.LString(g.String()))
	}
	L.Push(tbl)
	return 1
}

func (m *StringModule) width(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LNumber(m.check(L, 1).Width()))
	return 1
}

// s:normalize([form]) -> String
func (m *StringModule) normalize(L *lua.LState) int {
	m.tick(L)
	s := m.check(L, 1)
	form, err := ustring.ParseForm(L.OptString(2, "NFC"))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	out := s.Normalize(form)
	m.limit(L, "normalize", 0, out.Len(), 1)
	PushString(L, out)
	return 1
}

// s:hash() -> string
// The 64-bit hash as 16 hex digits; Lua numbers cannot hold it exactly.
func (m *StringModule) hash(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LString(fmt.Sprintf("%016x", m.check(L, 1).Sum64())))
	return 1
}

// s:chars() -> {string...}
func (m *StringModule) chars(L *lua.LState) int {
	m.tick(L)
	tbl := L.NewTable()
	for _, c := range m.check(L, 1).Chars() {
		tbl.Append(lua.LString(c.String()))
	}
	L.Push(tbl)
	return 1
}

func (m *StringModule) tostring(L *lua.LState) int {
	m.tick(L)
	L.Push(lua.LString(m.check(L, 1).String()))
	return 1
}

// concatMeta implements the .. operator; the result is a plain Lua string.
func (m *StringModule) concatMeta(L *lua.LState) int {
	m.tick(L)
	a, b := m.operand(L, 1), m.operand(L, 2)
	m.limit(L, "concat", a.Len(), b.Len(), 1)
	L.Push(lua.LString(a.String() + b.String()))
	return 1
}
