package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/masonry/pkg/cache"
	merrors "github.com/matzehuels/masonry/pkg/errors"
	mio "github.com/matzehuels/masonry/pkg/io"
)

const testScene = `
[viewport]
width = 1280
height = 800

[layout]
container = "#grid"
column_width = 240

[[elements]]
id = "grid"
width = 756
height = 2000

[[elements]]
id = "a"
parent = "grid"
label = "Alpha"
width = 240
height = 100

[[elements]]
id = "b"
parent = "grid"
width = 240
height = 150

[[elements]]
id = "c"
parent = "grid"
width = 240
height = 80

[[elements]]
id = "d"
parent = "grid"
width = 240
height = 120
`

// testEnv isolates config, cache and output for one command run.
type testEnv struct {
	dir    string
	config string
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{dir: dir, config: filepath.Join(dir, "config"), out: &bytes.Buffer{}}
	t.Setenv("XDG_CONFIG_HOME", env.config)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, key := range []string{keyColumnWidth, keyColumnGap, keyRowGap, keyStyle, keyRedisURL, keyCachePrefix} {
		os.Unsetenv(envName(key))
	}

	old := stdout
	stdout = env.out
	t.Cleanup(func() { stdout = old })
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (e *testEnv) path(name string) string { return filepath.Join(e.dir, name) }

func run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readLayoutX(t *testing.T, path string) []float64 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	l, err := mio.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	xs := make([]float64, len(l.Placements))
	for i, p := range l.Placements {
		xs[i] = p.X
	}
	return xs
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{"browse", "cache", "completion", "html", "layout", "preview", "render", "serve"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCommand(t *testing.T) {
	env := newTestEnv(t)
	scene := env.write(t, "scene.toml", testScene)
	out := env.path("out.json")
	positioned := env.path("positioned.toml")

	if err := run(t, "layout", scene, "-o", out, "--apply", positioned, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	if diff := cmp.Diff([]float64{0, 252, 504, 0}, readLayoutX(t, out)); diff != "" {
		t.Errorf("x offsets mismatch (-want +got):\n%s", diff)
	}

	s, err := mio.ImportScene(positioned)
	if err != nil {
		t.Fatalf("import positioned scene: %v", err)
	}
	for _, el := range s.Elements {
		if el.ID == "d" && (el.X != 0 || el.Y != 112) {
			t.Errorf("d at (%g, %g), want (0, 112)", el.X, el.Y)
		}
	}
	if !strings.Contains(env.out.String(), "4 bricks") {
		t.Errorf("stats missing from output:\n%s", env.out)
	}
}

func TestLayoutCommand_DefaultOutput(t *testing.T) {
	env := newTestEnv(t)
	scene := env.write(t, "grid.toml", testScene)

	if err := run(t, "layout", scene); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(env.path("grid.layout.json")); err != nil {
		t.Errorf("default output not written: %v", err)
	}

	// A second run is served from the file cache.
	env.out.Reset()
	if err := run(t, "layout", scene); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(env.out.String(), iconCached) {
		t.Errorf("second run not reported as cached:\n%s", env.out)
	}
}

func TestLayoutCommand_StdoutWithApply(t *testing.T) {
	env := newTestEnv(t)
	scene := env.write(t, "scene.toml", testScene)
	positioned := env.path("positioned.json")

	if err := run(t, "layout", scene, "-o", "-", "--apply", positioned, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(env.out.String(), `"placements"`) {
		t.Errorf("layout not printed to stdout:\n%s", env.out)
	}

	s, err := mio.ImportScene(positioned)
	if err != nil {
		t.Fatalf("positioned scene not written: %v", err)
	}
	for _, el := range s.Elements {
		if el.ID == "c" && (el.X != 504 || el.Y != 0) {
			t.Errorf("c at (%g, %g), want (504, 0)", el.X, el.Y)
		}
	}
}

func TestLayoutCommand_Overrides(t *testing.T) {
	tests := []struct {
		name   string
		config string
		env    map[string]string
		args   []string
		want   []float64
	}{
		{
			name: "scene settings",
			want: []float64{0, 252, 504, 0},
		},
		{
			name: "flag",
			args: []string{"--column-gap", "0"},
			want: []float64{0, 240, 480, 720},
		},
		{
			name:   "config file",
			config: "column_gap = 0\n",
			want:   []float64{0, 240, 480, 720},
		},
		{
			name: "environment",
			env:  map[string]string{"MASONRY_COLUMN_GAP": "20"},
			want: []float64{0, 260, 520, 0},
		},
		{
			name:   "flag beats config",
			config: "column_gap = 0\n",
			args:   []string{"--column-gap", "4"},
			want:   []float64{0, 244, 488, 732},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.config != "" {
				env.write(t, filepath.Join("config", appName, "config.toml"), tt.config)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			scene := env.write(t, "scene.toml", testScene)
			out := env.path("out.json")

			args := append([]string{"layout", scene, "-o", out, "--no-cache"}, tt.args...)
			if err := run(t, args...); err != nil {
				t.Fatalf("layout: %v", err)
			}
			if diff := cmp.Diff(tt.want, readLayoutX(t, out)); diff != "" {
				t.Errorf("x offsets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayoutCommand_Errors(t *testing.T) {
	env := newTestEnv(t)
	scene := env.write(t, "scene.toml", testScene)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", env.path("nope.toml")}},
		{"bad extension", []string{"layout", env.write(t, "scene.yaml", "x: 1")}},
		{"negative gap", []string{"layout", scene, "--column-gap", "-1", "--no-cache"}},
		{"explicit config missing", []string{"--config", env.path("missing.toml"), "layout", scene}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	env := newTestEnv(t)
	scene := env.write(t, "scene.toml", testScene)
	base := env.path("out/grid")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "render", scene, "-f", "svg, json,dot", "-o", base, "--guides", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	for ext, prefix := range map[string]string{"svg": "<svg", "json": "{", "dot": "digraph"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Errorf("%s not written: %v", ext, err)
			continue
		}
		if !strings.HasPrefix(strings.TrimSpace(string(data)), prefix) {
			t.Errorf("%s starts with %.20q, want %q", ext, data, prefix)
		}
	}
}

func TestRenderCommand_InvalidOptions(t *testing.T) {
	env := newTestEnv(t)
	scene := env.write(t, "scene.toml", testScene)

	for _, args := range [][]string{
		{"render", scene, "-f", "gif"},
		{"render", scene, "--style", "fancy"},
	} {
		if err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRenderCommand_StyleFromConfig(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, filepath.Join("config", appName, "config.toml"), "style = \"fancy\"\n")
	scene := env.write(t, "scene.toml", testScene)

	if err := run(t, "render", scene, "--no-cache"); err == nil {
		t.Error("expected the configured style to be validated")
	}
}

const testPage = `<!DOCTYPE html>
<html><body>
<div id="grid" style="width: 756px; height: 2000px">
  <div class="card" style="width: 240px; height: 100px">A</div>
  <div class="card" style="width: 240px; height: 150px">B</div>
  <div class="card" style="width: 240px; height: 80px">C</div>
  <div class="card" style="width: 240px; height: 120px">D</div>
</div>
</body></html>`

func TestHTMLCommand(t *testing.T) {
	env := newTestEnv(t)
	page := env.write(t, "page.html", testPage)

	if err := run(t, "html", page, "--container", "#grid"); err != nil {
		t.Fatalf("html: %v", err)
	}
	data, err := os.ReadFile(env.path("page.masonry.html"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{
		"position: absolute; left: 252px; top: 0px",
		"position: absolute; left: 0px; top: 112px",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %q:\n%s", want, data)
		}
	}
}

func TestHTMLCommand_Stdout(t *testing.T) {
	env := newTestEnv(t)
	page := env.write(t, "page.html", testPage)

	if err := run(t, "html", page, "--elements", ".card", "--column-width", "100", "--column-gap", "0", "-o", "-"); err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(env.out.String(), "left: 720px") {
		t.Errorf("stdout missing fourth column:\n%s", env.out)
	}
}

func TestHTMLCommand_NeedsSource(t *testing.T) {
	env := newTestEnv(t)
	page := env.write(t, "page.html", testPage)
	if err := run(t, "html", page); err == nil {
		t.Error("expected error without --container or --elements")
	}
}

func TestBrowseCommand_RejectsURL(t *testing.T) {
	newTestEnv(t)
	err := run(t, "browse", "javascript:alert(1)", "--container", "#grid")
	if !merrors.Is(err, merrors.ErrCodeInvalidInput) {
		t.Errorf("browse error = %v, want %s", err, merrors.ErrCodeInvalidInput)
	}
}

func TestNewKeyer(t *testing.T) {
	opts := cache.LayoutKeyOpts{ColumnWidth: 240}

	c := New(io.Discard, log.InfoLevel)
	plain := c.newKeyer().LayoutKey("abc", opts)

	c.config.Set(keyCachePrefix, "gallery:")
	scoped := c.newKeyer().LayoutKey("abc", opts)
	if scoped != "gallery:"+plain {
		t.Errorf("scoped key = %q, want %q", scoped, "gallery:"+plain)
	}
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		keyColumnWidth:  "MASONRY_COLUMN_WIDTH",
		keyRedisURL:     "MASONRY_CACHE_REDIS_URL",
		keyBrowserWidth: "MASONRY_BROWSER_VIEWPORT_WIDTH",
	}
	for key, want := range tests {
		if got := envName(key); got != want {
			t.Errorf("envName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestListenURL(t *testing.T) {
	tests := []struct{ addr, want string }{
		{":8080", "http://localhost:8080"},
		{"0.0.0.0:9000", "http://0.0.0.0:9000"},
	}
	for _, tt := range tests {
		if got := listenURL(tt.addr); got != tt.want {
			t.Errorf("listenURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
