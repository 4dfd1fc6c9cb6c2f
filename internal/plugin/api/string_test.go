package api

import (
	"fmt"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/unistr/internal/engine/ustring"
)

type countingBudget struct {
	limit, calls int64
}

func (b *countingBudget) IncrementCalls(n int64) bool {
	b.calls += n
	return b.limit > 0 && b.calls > b.limit
}

func setupStringTest(t *testing.T, budget CallBudget, opts ...StringOption) *lua.LState {
	t.Helper()

	L := lua.NewState()
	t.Cleanup(func() { L.Close() })

	require.NoError(t, NewStringModule(budget, opts...).Register(L))
	require.NoError(t, L.DoString(`ustr = require("ustr")`))
	return L
}

func global(L *lua.LState, name string) string {
	return L.GetGlobal(name).String()
}

func TestStringModuleName(t *testing.T) {
	assert.Equal(t, "ustr", NewStringModule(nil).Name())
}

func TestStringNew(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`
		local e = ustr.new()
		empty_len = e:len()
		is_empty = e:empty()

		local s = ustr.new("🐉🦊🐭")
		n = #s
		size = s:size()
		text = tostring(s)
		is_ustr = ustr.is(s)
		not_ustr = ustr.is("plain")
	`))

	assert.Equal(t, "0", global(L, "empty_len"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("is_empty"))
	assert.Equal(t, "3", global(L, "n"))
	assert.Equal(t, "13", global(L, "size"))
	assert.Equal(t, "🐉🦊🐭", global(L, "text"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("is_ustr"))
	assert.Equal(t, lua.LFalse, L.GetGlobal("not_ustr"))
}

func TestStringMutation(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`
		local s = ustr.new("abcd")
		s:insert(3, "X")
		after_insert = tostring(s)
		s:erase(2, 2)
		after_erase = tostring(s)

		local r = ustr.new("abc")
		r:replace(2, 1, "ZZ")
		replaced = tostring(r)

		local a = ustr.new("ab")
		a:append("🦊", 2):append(ustr.new("!"))
		appended = tostring(a)
		a:pop_back()
		popped = tostring(a)

		local v = ustr.new("⛰ab")
		v:reverse()
		reversed = tostring(v)

		local sub = ustr.new("xyz")
		sub:replace(1, 1, "0123456", 3, 2)
		replaced_sub = tostring(sub)
	`))

	assert.Equal(t, "abXcd", global(L, "after_insert"))
	assert.Equal(t, "acd", global(L, "after_erase"))
	assert.Equal(t, "aZZc", global(L, "replaced"))
	assert.Equal(t, "ab🦊🦊!", global(L, "appended"))
	assert.Equal(t, "ab🦊🦊", global(L, "popped"))
	assert.Equal(t, "ba⛰", global(L, "reversed"))
	assert.Equal(t, "23yz", global(L, "replaced_sub"))
}

func TestStringQueries(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`
		local s = ustr.new("⛰ The Matterhorn ⛰")
		first = s:at(1)
		last = s:back()
		front = s:front()
		horn = tostring(s:substr(13, 4))
		tail = tostring(s:substr(14))
		s:set(1, "M")
		set_result = tostring(s)
		no_front = ustr.new():front()
		chars = #s:chars()
	`))

	assert.Equal(t, "⛰", global(L, "first"))
	assert.Equal(t, "⛰", global(L, "last"))
	assert.Equal(t, "⛰", global(L, "front"))
	assert.Equal(t, "horn", global(L, "horn"))
	assert.Equal(t, "orn ⛰", global(L, "tail"))
	assert.Equal(t, "M The Matterhorn ⛰", global(L, "set_result"))
	assert.Equal(t, lua.LNil, L.GetGlobal("no_front"))
	assert.Equal(t, "18", global(L, "chars"))
}

func TestStringComparison(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`
		local a = ustr.new("abc")
		local b = ustr.new("abd")
		lt = a < b
		eq = a == ustr.new("abc")
		neq = a == b
		cmp = a:compare(b) < 0
		cmp_len = ustr.compare("a", "abc")
		eq_plain = a:equals("abc")
		joined = a .. "-" .. b
		concat = tostring(ustr.concat("x", a, "🦊"))
		count = ustr.count("日本語")
	`))

	assert.Equal(t, lua.LTrue, L.GetGlobal("lt"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("eq"))
	assert.Equal(t, lua.LFalse, L.GetGlobal("neq"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("cmp"))
	assert.Equal(t, "-2", global(L, "cmp_len"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("eq_plain"))
	assert.Equal(t, "abc-abd", global(L, "joined"))
	assert.Equal(t, "xabc🦊", global(L, "concat"))
	assert.Equal(t, "3", global(L, "count"))
}

func TestStringUnicode(t *testing.T) {
	L := setupStringTest(t, nil)

	L.SetGlobal("heart", lua.LString("a\u2764\ufe0f"))
	L.SetGlobal("composed", lua.LString("\u00e9"))
	L.SetGlobal("decomposed", lua.LString("e\u0301"))

	require.NoError(t, L.DoString(`
		local s = ustr.new(heart)
		clusters = s:graphemes()
		n = #s
		list = s:grapheme_list()
		second = list[2]

		local d = ustr.new(decomposed)
		nfc_len = #d:normalize()
		nfd_len = #ustr.new(composed):normalize("nfd")
		same = d:equals_normalized(composed)
		width = ustr.new("日本"):width()
	`))

	assert.Equal(t, "2", global(L, "clusters"))
	assert.Equal(t, "3", global(L, "n"))
	assert.Equal(t, "\u2764\ufe0f", global(L, "second"))
	assert.Equal(t, "1", global(L, "nfc_len"))
	assert.Equal(t, "2", global(L, "nfd_len"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("same"))
	assert.Equal(t, "4", global(L, "width"))
}

func TestStringHash(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`h = ustr.new("🦊 hash"):hash()`))
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String("🦊 hash")), global(L, "h"))
}

func TestStringStorage(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`
		local s = ustr.new()
		s:reserve(100)
		cap_ok = s:capacity() >= 100
		s:resize(3, "🦊")
		resized = tostring(s)
		s:shrink()
		shrunk = s:capacity()
		s:clear()
		cleared = #s
	`))

	assert.Equal(t, lua.LTrue, L.GetGlobal("cap_ok"))
	assert.Equal(t, "🦊🦊🦊", global(L, "resized"))
	assert.Equal(t, "3", global(L, "shrunk"))
	assert.Equal(t, "0", global(L, "cleared"))
}

func TestStringErrors(t *testing.T) {
	L := setupStringTest(t, nil)

	tests := []struct {
		code string
		want string
	}{
		{`ustr.new("abc"):at(4)`, "at:"},
		{`ustr.new("abc"):insert(4, "x")`, "insert:"},
		{`ustr.new(""):insert(1, "x")`, "insert:"},
		{`ustr.new("abc"):erase(5)`, "erase:"},
		{`ustr.new("abc"):replace(0, 1, "x")`, "replace:"},
		{`ustr.new("abc"):substr(4)`, "substr:"},
		{`ustr.new("abc"):set(1, "xy")`, "single character"},
		{`ustr.new("abc"):normalize("nfx")`, "unknown normalization"},
		{`ustr.new(42)`, "string or ustr.String expected"},
	}

	for _, tt := range tests {
		err := L.DoString(tt.code)
		if assert.Error(t, err, tt.code) {
			assert.Contains(t, err.Error(), tt.want, tt.code)
		}
	}
}

func TestStringErrorLeavesContentUnchanged(t *testing.T) {
	L := setupStringTest(t, nil)

	require.NoError(t, L.DoString(`
		s = ustr.new("abc")
		ok = pcall(function() s:replace(9, 1, "zzz") end)
		text = tostring(s)
	`))
	assert.Equal(t, lua.LFalse, L.GetGlobal("ok"))
	assert.Equal(t, "abc", global(L, "text"))
}

func TestStringCallBudget(t *testing.T) {
	budget := &countingBudget{limit: 5}
	L := setupStringTest(t, budget)

	err := L.DoString(`
		local s = ustr.new()
		for i = 1, 10 do s:append("x") end
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call limit exceeded")
	assert.Equal(t, int64(6), budget.calls)
}

func TestStringMaxChars(t *testing.T) {
	assert.Equal(t, DefaultMaxChars, NewStringModule(nil).MaxChars())
	assert.Equal(t, DefaultMaxChars, NewStringModule(nil, WithMaxChars(0)).MaxChars())

	L := setupStringTest(t, nil)
	err := L.DoString(`ustr.new("a"):reserve(2^45)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserve: result would exceed 1048576 characters")
}

func TestStringMaxCharsRejectsGrowth(t *testing.T) {
	L := setupStringTest(t, nil, WithMaxChars(8))

	tests := []struct {
		code string
		want string
	}{
		{`ustr.new("a"):reserve(2^45)`, "reserve: result would exceed 8 characters"},
		{`ustr.new("a"):resize(9)`, "resize:"},
		{`ustr.new("a"):resize(2^45, "x")`, "resize:"},
		{`ustr.new("ab"):append("c", 2^40)`, "append:"},
		{`ustr.new("abcdef"):insert(1, "xyz")`, "insert:"},
		{`ustr.new("abc"):assign("123456789")`, "assign:"},
		{`ustr.new("123456789")`, "new:"},
		{`ustr.concat("abcde", "fghij")`, "concat:"},
		{`local x = ustr.new("abcde") .. "fghij"`, "concat:"},
		{`ustr.new("abcdefgh"):replace(1, 1, "xy")`, "replace:"},
	}

	for _, tt := range tests {
		err := L.DoString(tt.code)
		if assert.Error(t, err, tt.code) {
			assert.Contains(t, err.Error(), tt.want, tt.code)
		}
	}
}

func TestStringMaxCharsStopsDoubling(t *testing.T) {
	L := setupStringTest(t, nil, WithMaxChars(8))

	require.NoError(t, L.DoString(`
		s = ustr.new("ab")
		ok = pcall(function()
			for i = 1, 64 do s:append(s) end
		end)
		n = #s
	`))
	assert.Equal(t, lua.LFalse, L.GetGlobal("ok"))
	assert.Equal(t, "8", global(L, "n"))
}

func TestStringMaxCharsAllowsFit(t *testing.T) {
	L := setupStringTest(t, nil, WithMaxChars(8))

	require.NoError(t, L.DoString(`
		local r = ustr.new("abcdefgh")
		r:reserve(8)
		r:replace(1, 2, "xy")
		swapped = tostring(r)
		r:replace(2, 1, "0123456789", 1, 1)
		sub = tostring(r)
		r:pop_back()
		r:append("!")
		full = tostring(r)
	`))
	assert.Equal(t, "xycdefgh", global(L, "swapped"))
	assert.Equal(t, "x0cdefgh", global(L, "sub"))
	assert.Equal(t, "x0cdefg!", global(L, "full"))
}

func TestPushAndToString(t *testing.T) {
	L := setupStringTest(t, nil)

	s := ustring.FromString("shared")
	L.SetGlobal("s", NewStringValue(L, s))
	require.NoError(t, L.DoString(`s:append("!")`))
	assert.Equal(t, "shared!", s.String())

	PushString(L, s)
	got, ok := ToString(L.Get(-1))
	L.Pop(1)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = ToString(lua.LString("plain"))
	assert.False(t, ok)
}
