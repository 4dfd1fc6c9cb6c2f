package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[logging]
level = "debug"
format = "json"

[input]
delimiter = ","
normalize = "NFC"

[script]
timeout = "2s"
callLimit = 500
`)

	loader := NewTOMLLoaderWithFS(memfs, "/config.toml")
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"logging.format", "json"},
		{"input.delimiter", ","},
		{"input.normalize", "NFC"},
		{"script.timeout", "2s"},
		{"script.callLimit", int64(500)},
	}
	for _, tt := range tests {
		if val, ok := GetByPath(config, tt.path); !ok || val != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, val, val, tt.want)
		}
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml")
	config, err := loader.Load()
	if err != nil {
		t.Errorf("expected no error for nonexistent file, got: %v", err)
	}
	if config != nil {
		t.Errorf("expected nil config for nonexistent file, got: %v", config)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[logging]\nlevel = \n")

	loader := NewTOMLLoaderWithFS(memfs, "/invalid.toml")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want /invalid.toml", parseErr.Path)
	}
	if parseErr.Line == 0 {
		t.Error("expected a line number")
	}
	if parseErr.Unwrap() == nil {
		t.Error("expected wrapped error")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	loader := NewTOMLLoader("")
	config, err := loader.LoadFromReader(strings.NewReader("[logging]\nlevel = \"warn\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if val, ok := GetByPath(config, "logging.level"); !ok || val != "warn" {
		t.Errorf("logging.level = %v, want 'warn'", val)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"unistr.toml", "*loader.TOMLLoader", false},
		{"UNISTR.TOML", "*loader.TOMLLoader", false},
		{"unistr.yaml", "*loader.YAMLLoader", false},
		{"unistr.yml", "*loader.YAMLLoader", false},
		{"unistr.json", "", true},
		{"unistr", "", true},
	}

	for _, tt := range tests {
		l, err := ForPath(NewMemFS(), tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForPath(%q) expected error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForPath(%q) error: %v", tt.path, err)
			continue
		}
		if got := typeName(l); got != tt.want {
			t.Errorf("ForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func typeName(l FileLoader) string {
	switch l.(type) {
	case *TOMLLoader:
		return "*loader.TOMLLoader"
	case *YAMLLoader:
		return "*loader.YAMLLoader"
	default:
		return "unknown"
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"logging": map[string]any{
			"level":  "info",
			"format": "console",
		},
		"input": map[string]any{
			"delimiter": "\n",
		},
	}
	src := map[string]any{
		"logging": map[string]any{
			"level": "debug",
		},
		"script": map[string]any{
			"callLimit": int64(10),
		},
	}

	result := DeepMerge(dst, src)

	if val, _ := GetByPath(result, "logging.level"); val != "debug" {
		t.Errorf("logging.level = %v, want debug", val)
	}
	if val, _ := GetByPath(result, "logging.format"); val != "console" {
		t.Errorf("logging.format = %v, want console", val)
	}
	if val, _ := GetByPath(result, "input.delimiter"); val != "\n" {
		t.Errorf("input.delimiter = %q, want newline", val)
	}
	if val, _ := GetByPath(result, "script.callLimit"); val != int64(10) {
		t.Errorf("script.callLimit = %v, want 10", val)
	}
}

func TestDeepMerge_Nil(t *testing.T) {
	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v, want empty map", got)
	}

	src := map[string]any{"a": 1}
	if got := DeepMerge(nil, src); got["a"] != 1 {
		t.Errorf("DeepMerge(nil, src) = %v", got)
	}
}

func TestGetByPath(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{"b": "c"},
		"x": "y",
	}

	if val, ok := GetByPath(data, "a.b"); !ok || val != "c" {
		t.Errorf("a.b = %v, %v", val, ok)
	}
	if _, ok := GetByPath(data, "a.z"); ok {
		t.Error("expected a.z to be missing")
	}
	if _, ok := GetByPath(data, "x.y"); ok {
		t.Error("expected x.y to be missing")
	}
}
