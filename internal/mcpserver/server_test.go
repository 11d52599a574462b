package mcpserver

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xmazu/envload/internal/config"
)

func workspaceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListKeys(t *testing.T) {
	dir := workspaceDir(t, map[string]string{".env": "# c\nA=1\nB=2\nA=3\n"})

	out, err := listKeys(dir)
	if err != nil {
		t.Fatalf("listKeys() error = %v", err)
	}
	files := out["files"].([]map[string]any)
	if len(files) != 1 {
		t.Fatalf("files = %v, want one", files)
	}
	if keys := files[0]["keys"].([]string); !slices.Equal(keys, []string{"A", "B"}) {
		t.Errorf("keys = %v, want [A B]", keys)
	}
}

func TestGetValue(t *testing.T) {
	t.Setenv("ENVLOAD_MCP_HOST", "example.com")
	dir := workspaceDir(t, map[string]string{".env": "URL=\"https://${ENVLOAD_MCP_HOST}/x\"\nGONE\n"})

	out, err := getValue(dir, "URL")
	if err != nil {
		t.Fatalf("getValue() error = %v", err)
	}
	if out["value"] != "https://example.com/x" {
		t.Errorf("value = %v", out["value"])
	}
	if out, err := getValue(dir, "GONE"); err != nil || out["cleared"] != true {
		t.Errorf("getValue(GONE) = %v, %v, want cleared", out, err)
	}
	if _, err := getValue(dir, "MISSING"); err == nil {
		t.Error("getValue(MISSING) expected error")
	}
}

func TestParseEntry(t *testing.T) {
	out := parseEntry(`FOO="a $B"`)
	if out["ok"] != true || out["name"] != "FOO" || out["value"] != "a $B" {
		t.Errorf("parseEntry() = %v", out)
	}
	if vars := out["vars"].([]int); !slices.Equal(vars, []int{2}) {
		t.Errorf("vars = %v, want [2]", vars)
	}

	out = parseEntry("FOO=bar baz")
	if out["ok"] != false || !strings.Contains(out["error"].(string), "unexpected whitespace") {
		t.Errorf("parseEntry() = %v, want whitespace error", out)
	}

	out = parseEntry("A=1\nB=2")
	if out["ok"] != false {
		t.Errorf("parseEntry() = %v, want error for two entries", out)
	}
}

func TestCheck(t *testing.T) {
	dir := workspaceDir(t, map[string]string{
		".env":          "PORT=abc\n",
		config.FileName: "rules:\n  integer: [PORT]\n",
	})

	out, err := check(dir, []string{"ENVLOAD_MCP_NEVER_SET"})
	if err != nil {
		t.Fatalf("check() error = %v", err)
	}
	want := []string{"ENVLOAD_MCP_NEVER_SET is missing", "PORT is not an integer"}
	if out["ok"] != false || !slices.Equal(out["failures"].([]string), want) {
		t.Errorf("check() = %v, want failures %v", out, want)
	}
}

func TestResults(t *testing.T) {
	res := successResult(map[string]any{"ok": true})
	if res.IsError {
		t.Error("successResult() IsError = true")
	}
	if text := res.Content[0].(*mcpsdk.TextContent).Text; text != `{"ok":true}` {
		t.Errorf("successResult() text = %q", text)
	}

	res = errorResult("boom")
	if !res.IsError || res.Content[0].(*mcpsdk.TextContent).Text != "error: boom" {
		t.Errorf("errorResult() = %+v", res)
	}
}
