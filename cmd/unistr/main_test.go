package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/unistr/internal/app"
	"github.com/dshills/unistr/internal/engine/ustring"
)

// execute runs the command line with stdin and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReverse(t *testing.T) {
	out, _, err := execute(t, "abc\n🐉🦊🐭\n", "reverse")
	require.NoError(t, err)
	assert.Equal(t, "cba\n🐭🦊🐉\n", out)
}

func TestReverseFiles(t *testing.T) {
	a := writeFile(t, "a.txt", "ab\n")
	b := writeFile(t, "b.txt", "cd\n")

	out, _, err := execute(t, "", "reverse", a, b)
	require.NoError(t, err)
	assert.Equal(t, "ba\ndc\n", out)
}

func TestMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "reverse", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStat(t *testing.T) {
	out, _, err := execute(t, "日本🦊\n", "stat")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chars=3 bytes=10 graphemes=3 width=6 hash="), out)
}

func TestSubstr(t *testing.T) {
	out, _, err := execute(t, "🐉🦊🐭\nhello\n", "substr", "--pos", "1", "--len", "2")
	require.NoError(t, err)
	assert.Equal(t, "🦊🐭\nel\n", out)
}

func TestSubstrOutOfRange(t *testing.T) {
	out, _, err := execute(t, "hello\nhi\n", "substr", "--pos", "3")
	assert.ErrorIs(t, err, ustring.ErrOutOfRange)
	assert.Equal(t, "lo\n", out)

	var opErr *app.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, 2, opErr.Record)
}

func TestSubstrKeepGoing(t *testing.T) {
	out, logs, err := execute(t, "hello\nhi\nhey\n", "--keep-going", "substr", "--pos", "2")
	assert.ErrorIs(t, err, ustring.ErrOutOfRange)
	assert.Equal(t, "llo\ny\n", out)
	assert.Contains(t, logs, "1 records failed")
}

func TestReplace(t *testing.T) {
	out, _, err := execute(t, "hello world\n", "replace", "--pos", "0", "--len", "5", "--with", "👋")
	require.NoError(t, err)
	assert.Equal(t, "👋 world\n", out)
}

func TestNormalize(t *testing.T) {
	out, _, err := execute(t, "e\u0301\n", "normalize", "--form", "nfc")
	require.NoError(t, err)
	assert.Equal(t, "\u00e9\n", out)

	_, _, err = execute(t, "x\n", "normalize", "--form", "NFX")
	assert.Error(t, err)
}

func TestDelimiterFlag(t *testing.T) {
	out, _, err := execute(t, "ab,cd,", "--delim", ",", "reverse")
	require.NoError(t, err)
	assert.Equal(t, "ba,dc,", out)
}

func TestInvalidDelimiter(t *testing.T) {
	_, _, err := execute(t, "", "--delim", "ab", "reverse")
	assert.ErrorIs(t, err, app.ErrInitialization)
}

func TestConfigFlag(t *testing.T) {
	cfg := writeFile(t, "unistr.yaml", "input:\n  delimiter: \"|\"\n")

	out, _, err := execute(t, "ab|cd|", "--config", cfg, "reverse")
	require.NoError(t, err)
	assert.Equal(t, "ba|dc|", out)
}

func TestScript(t *testing.T) {
	script := writeFile(t, "wrap.lua", `
function process(rec)
  if rec:len() > 3 then return nil end
  return "[" .. rec:tostring() .. "]"
end
`)

	out, _, err := execute(t, "ab\nlonger\n🦊\n", "script", script)
	require.NoError(t, err)
	assert.Equal(t, "[ab]\n[🦊]\n", out)
}

func TestScriptWithoutProcess(t *testing.T) {
	script := writeFile(t, "hello.lua", `
local ustr = require("ustr")
print(ustr.new("🦊"):size())
`)

	out, _, err := execute(t, "", "script", script)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	input := writeFile(t, "in.txt", "a\n")
	_, _, err = execute(t, "", "script", script, input)
	assert.ErrorIs(t, err, app.ErrNoProcessFunction)
}

func TestScriptError(t *testing.T) {
	script := writeFile(t, "bad.lua", `function process(rec) return rec:at(99) end`)

	_, _, err := execute(t, "abc\n", "script", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}

func TestScriptWatchArgs(t *testing.T) {
	script := writeFile(t, "s.lua", `x = 1`)

	_, _, err := execute(t, "", "script", "--watch", script, "a.txt", "b.txt")
	assert.ErrorIs(t, err, app.ErrInvalidOperation)
}

func TestScriptRequiresPath(t *testing.T) {
	_, _, err := execute(t, "", "script")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "unistr "+version)
	assert.Contains(t, out, "Commit: "+commit)
}

func TestExitErr(t *testing.T) {
	assert.NoError(t, exitErr(nil))
	assert.NoError(t, exitErr(app.NewOperationError("reverse", "input", context.Canceled)))

	err := errors.New("boom")
	assert.Equal(t, err, exitErr(err))
}
