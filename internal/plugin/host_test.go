package plugin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mote/internal/buffer"
	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/registry"
)

// Helper to build a host over a fresh state and registry.
func newTestHost(t *testing.T) (*Host, *editor.State, *registry.Registry) {
	t.Helper()
	state := editor.NewState(buffer.New(buffer.WithLines([]string{"alpha", "beta", "gamma"})))
	reg := registry.New()
	host := New(state, reg)
	t.Cleanup(host.Close)
	return host, state, reg
}

// Helper to write one plugin directory under root.
func writePlugin(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", file, err)
		}
	}
}

// Helper to load a root and fail on any load error.
func loadAll(t *testing.T, host *Host, root string) []LoadResult {
	t.Helper()
	results := host.LoadAll(root)
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("LoadAll: plugin %s failed: %v", res.Name, res.Err)
		}
	}
	return results
}

func TestLoadAllMissingRootIsNoOp(t *testing.T) {
	host, _, _ := newTestHost(t)

	results := host.LoadAll(filepath.Join(t.TempDir(), "absent"))
	if len(results) != 0 {
		t.Fatalf("LoadAll results = %d, want 0", len(results))
	}
	if len(host.Loaded()) != 0 {
		t.Fatalf("Loaded plugins = %d, want 0", len(host.Loaded()))
	}
}

func TestLoadPluginRegistersCommand(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "hello", map[string]string{
		"init.lua": `mote.command("hello.world", function(args) end, { label = "Hello", description = "Says hello" })`,
	})

	results := loadAll(t, host, root)
	if len(results) != 1 {
		t.Fatalf("LoadAll results = %d, want 1", len(results))
	}
	if results[0].Name != "hello" {
		t.Errorf("result Name = %q, want %q", results[0].Name, "hello")
	}

	rec, ok := reg.FindCommand("hello.world", false)
	if !ok {
		t.Fatal("FindCommand(hello.world) not found")
	}
	if rec.Descriptor.Label != "Hello" {
		t.Errorf("Label = %q, want %q", rec.Descriptor.Label, "Hello")
	}
	if rec.Descriptor.ShortDescription != "Says hello" {
		t.Errorf("ShortDescription = %q, want %q", rec.Descriptor.ShortDescription, "Says hello")
	}
	want := registry.Origin{Kind: registry.OriginPlugin, Name: "hello"}
	if rec.Origin != want {
		t.Errorf("Origin = %+v, want %+v", rec.Origin, want)
	}
	if rec.Lifetime != registry.LifetimeSession {
		t.Errorf("Lifetime = %v, want %v", rec.Lifetime, registry.LifetimeSession)
	}
}

func TestCommandHandlerRoundTrip(t *testing.T) {
	host, state, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "greeter", map[string]string{
		"init.lua": `mote.command("greet", function(args)
  mote.status("hello " .. (args.name or "?"), "info")
end)`,
	})
	loadAll(t, host, root)

	rec, ok := reg.FindCommand("greet", false)
	if !ok {
		t.Fatal("FindCommand(greet) not found")
	}
	rec.Callable.Native(registry.Invocation{
		CommandID: "greet",
		Arguments: map[string]string{"name": "mote"},
	})

	if got := state.Status(); got != "hello mote" {
		t.Errorf("Status = %q, want %q", got, "hello mote")
	}
	if got := state.StatusLevel(); got != editor.SeverityInfo {
		t.Errorf("StatusLevel = %v, want %v", got, editor.SeverityInfo)
	}
}

func TestHandlerErrorReported(t *testing.T) {
	host, state, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "crashy", map[string]string{
		"init.lua": `mote.command("crashy.run", function() error("kaput") end)`,
	})
	loadAll(t, host, root)

	var gotPlugin string
	var gotErr error
	host.SetErrorHandler(func(plugin string, err error) {
		gotPlugin = plugin
		gotErr = err
	})

	rec, ok := reg.FindCommand("crashy.run", false)
	if !ok {
		t.Fatal("FindCommand(crashy.run) not found")
	}
	rec.Callable.Native(registry.Invocation{CommandID: "crashy.run"})

	if gotPlugin != "crashy" {
		t.Errorf("error handler plugin = %q, want %q", gotPlugin, "crashy")
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "kaput") {
		t.Errorf("error handler err = %v, want to contain %q", gotErr, "kaput")
	}
	if got := state.Status(); got != "" {
		t.Errorf("Status = %q, want empty after handler failure", got)
	}
}

func TestLoadPluginRegistersKeybinding(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "fmt", map[string]string{
		"init.lua": `mote.command("doc.format", function() end)
mote.bind("normal", "F", "doc.format", { args = { style = "full" } })`,
	})
	loadAll(t, host, root)

	rec, ok := reg.ResolveKeybinding(registry.BindNormal, "F")
	if !ok {
		t.Fatal("ResolveKeybinding(normal, F) not found")
	}
	if rec.Descriptor.CommandID != "doc.format" {
		t.Errorf("CommandID = %q, want %q", rec.Descriptor.CommandID, "doc.format")
	}
	if rec.Descriptor.ID != "fmt/normal/F" {
		t.Errorf("binding ID = %q, want %q", rec.Descriptor.ID, "fmt/normal/F")
	}
	wantArgs := map[string]string{"style": "full"}
	if diff := cmp.Diff(wantArgs, rec.Descriptor.Arguments); diff != "" {
		t.Errorf("Arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestScriptErrorSkipsPlugin(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "bad", map[string]string{
		"init.lua": `mote.command("bad.cmd", function() end)
error("kaput")`,
	})
	writePlugin(t, root, "good", map[string]string{
		"init.lua": `mote.command("good.cmd", function() end)`,
	})

	results := host.LoadAll(root)
	if len(results) != 2 {
		t.Fatalf("LoadAll results = %d, want 2", len(results))
	}
	if results[0].Err == nil || !strings.Contains(results[0].Err.Error(), "kaput") {
		t.Errorf("bad plugin Err = %v, want to contain %q", results[0].Err, "kaput")
	}
	if results[1].Err != nil {
		t.Errorf("good plugin Err = %v, want nil", results[1].Err)
	}

	if _, ok := reg.FindCommand("bad.cmd", true); ok {
		t.Error("bad plugin's partial command survived, want it withdrawn")
	}
	if _, ok := reg.FindCommand("good.cmd", false); !ok {
		t.Error("good plugin's command missing")
	}
	if got := len(host.Loaded()); got != 1 {
		t.Errorf("Loaded plugins = %d, want 1", got)
	}
}

func TestManifestOverridesNameAndMain(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "dirname", map[string]string{
		"plugin.json": `{"name": "renamed", "version": "1.2.0", "main": "boot.lua"}`,
		"boot.lua":    `mote.command("renamed.cmd", function() end)`,
	})

	results := loadAll(t, host, root)
	if results[0].Name != "renamed" {
		t.Errorf("result Name = %q, want %q", results[0].Name, "renamed")
	}
	if results[0].Version != "1.2.0" {
		t.Errorf("result Version = %q, want %q", results[0].Version, "1.2.0")
	}

	rec, ok := reg.FindCommand("renamed.cmd", false)
	if !ok {
		t.Fatal("FindCommand(renamed.cmd) not found")
	}
	if rec.Origin.Name != "renamed" {
		t.Errorf("Origin.Name = %q, want %q", rec.Origin.Name, "renamed")
	}
}

func TestMalformedManifestSkipsPlugin(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "broken", map[string]string{
		"plugin.json": `{"name": "broken"`,
		"init.lua":    `mote.command("broken.cmd", function() end)`,
	})

	results := host.LoadAll(root)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("LoadAll results = %+v, want one failed result", results)
	}
	if _, ok := reg.FindCommand("broken.cmd", true); ok {
		t.Error("broken plugin registered a command, want none")
	}
}

func TestMissingEntryScriptFails(t *testing.T) {
	host, _, _ := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "empty", map[string]string{
		"plugin.json": `{"name": "empty"}`,
	})

	results := host.LoadAll(root)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("LoadAll results = %+v, want one failed result", results)
	}
	if got := len(host.Loaded()); got != 0 {
		t.Errorf("Loaded plugins = %d, want 0", got)
	}
}

func TestCloseWithdrawsContributions(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "tidy", map[string]string{
		"init.lua": `mote.command("tidy.cmd", function() end)
mote.bind("normal", "T", "tidy.cmd")`,
	})
	loadAll(t, host, root)

	host.Close()

	if _, ok := reg.FindCommand("tidy.cmd", true); ok {
		t.Error("command survived Close, want it withdrawn")
	}
	if _, ok := reg.ResolveKeybinding(registry.BindNormal, "T"); ok {
		t.Error("keybinding survived Close, want it withdrawn")
	}
	if got := len(host.Loaded()); got != 0 {
		t.Errorf("Loaded plugins = %d, want 0", got)
	}
}

func TestLoadAllIgnoresPlainFiles(t *testing.T) {
	host, _, _ := newTestHost(t)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("not a plugin"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	writePlugin(t, root, "only", map[string]string{
		"init.lua": `mote.command("only.cmd", function() end)`,
	})

	results := loadAll(t, host, root)
	if len(results) != 1 {
		t.Fatalf("LoadAll results = %d, want 1", len(results))
	}
}

func TestCursorAccessors(t *testing.T) {
	host, state, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "where", map[string]string{
		"init.lua": `mote.command("where.am.i", function()
  mote.status("at " .. mote.line() .. ":" .. mote.column())
end)`,
	})
	loadAll(t, host, root)

	state.SetCursor(1, 2)
	rec, ok := reg.FindCommand("where.am.i", false)
	if !ok {
		t.Fatal("FindCommand(where.am.i) not found")
	}
	rec.Callable.Native(registry.Invocation{CommandID: "where.am.i"})

	if got := state.Status(); got != "at 2:3" {
		t.Errorf("Status = %q, want %q", got, "at 2:3")
	}
}

func TestDuplicateBindingIDFailsLoad(t *testing.T) {
	host, _, reg := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "dup", map[string]string{
		"init.lua": `mote.command("dup.cmd", function() end)
mote.bind("normal", "Q", "dup.cmd", { id = "dup" })
mote.bind("normal", "R", "dup.cmd", { id = "dup" })`,
	})

	results := host.LoadAll(root)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("LoadAll results = %+v, want one failed result", results)
	}
	if !strings.Contains(results[0].Err.Error(), "rejected") {
		t.Errorf("Err = %v, want to mention the rejection", results[0].Err)
	}
	if _, ok := reg.ResolveKeybinding(registry.BindNormal, "Q"); ok {
		t.Error("partial binding survived failed load, want it withdrawn")
	}
}

func TestUnknownBindModeFailsLoad(t *testing.T) {
	host, _, _ := newTestHost(t)
	root := t.TempDir()
	writePlugin(t, root, "modal", map[string]string{
		"init.lua": `mote.bind("bogus", "Q", "whatever")`,
	})

	results := host.LoadAll(root)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("LoadAll results = %+v, want one failed result", results)
	}
	if !strings.Contains(results[0].Err.Error(), "unknown mode") {
		t.Errorf("Err = %v, want to mention the unknown mode", results[0].Err)
	}
}
