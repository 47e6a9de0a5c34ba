package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/adrg/xdg"

	"github.com/cratekit/podforge/internal/cargo"
	"github.com/cratekit/podforge/internal/target"
	"github.com/cratekit/podforge/internal/toolchain"
)

const testLib = "demo-lib"

type fakeCompiler struct {
	targetDir string
	libraries []string
	failOn    target.Target

	mu    sync.Mutex
	built []target.Target
}

func (c *fakeCompiler) Build(_ context.Context, tgt target.Target) error {
	c.mu.Lock()
	c.built = append(c.built, tgt)
	c.mu.Unlock()

	if tgt == c.failOn {
		return errors.New("linker exploded")
	}
	for _, lib := range c.libraries {
		path := c.StaticLibPath(tgt, lib)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte("archive:"+string(tgt)), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (c *fakeCompiler) StaticLibPath(tgt target.Target, library string) string {
	return filepath.Join(c.targetDir, string(tgt), "release", "lib"+cargo.SysName(library)+".a")
}

type fakeTools struct {
	mu        sync.Mutex
	lipoCalls int
}

func (f *fakeTools) SDKPath(_ context.Context, sdk string) (string, error) {
	return "/sdk/" + sdk, nil
}

func (f *fakeTools) Lipo(_ context.Context, inputs []string, output string) error {
	f.mu.Lock()
	f.lipoCalls++
	f.mu.Unlock()

	var buf []byte
	buf = append(buf, "fat:"...)
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		buf = append(buf, data...)
	}
	return os.WriteFile(output, buf, 0755)
}

func (f *fakeTools) CompileSwift(_ context.Context, req toolchain.SwiftCompile) (string, error) {
	obj := filepath.Join(req.WorkDir, req.ModuleName+".o")
	if err := os.WriteFile(obj, []byte("obj:"+req.DeploymentTriple), 0644); err != nil {
		return "", err
	}
	for _, ext := range toolchain.SidecarExts {
		name := filepath.Join(req.WorkDir, req.ModuleName+"."+ext)
		if err := os.WriteFile(name, []byte(ext), 0644); err != nil {
			return "", err
		}
	}
	return obj, nil
}

func (f *fakeTools) ArchiveInsert(_ context.Context, archive, object string) error {
	obj, err := os.ReadFile(object)
	if err != nil {
		return err
	}
	out, err := os.OpenFile(archive, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(obj)
	return err
}

func (f *fakeTools) CreateXCFramework(_ context.Context, name string, frameworks []string, outDir string) (string, error) {
	for _, fw := range frameworks {
		if _, err := os.Stat(fw); err != nil {
			return "", fmt.Errorf("missing framework %s: %w", fw, err)
		}
	}
	bundleDir := filepath.Join(outDir, name+".xcframework")
	if err := os.MkdirAll(bundleDir, 0755); err != nil {
		return "", err
	}
	manifest := strings.Join(frameworks, "\n")
	if err := os.WriteFile(filepath.Join(bundleDir, "Info.plist"), []byte(manifest), 0644); err != nil {
		return "", err
	}
	return bundleDir, nil
}

// Lays out a fake crate: headers, bindings, and a compiler whose target
// directory lives under the test's temp dir.
func newTestPipeline(t *testing.T, sel target.Selection, failOn target.Target) (*Pipeline, *fakeCompiler, *fakeTools, string) {
	t.Helper()

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	xdg.Reload()

	root := t.TempDir()
	headers := filepath.Join(root, "include")
	if err := os.MkdirAll(headers, 0755); err != nil {
		t.Fatalf("mkdir headers: %v", err)
	}
	if err := os.WriteFile(filepath.Join(headers, cargo.SysName(testLib)+".h"), []byte("void demo(void);\n"), 0644); err != nil {
		t.Fatalf("write header: %v", err)
	}

	bindings := filepath.Join(root, "bindings")
	if err := os.MkdirAll(bindings, 0755); err != nil {
		t.Fatalf("mkdir bindings: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bindings, "Demo.swift"), []byte("public struct Demo {}\n"), 0644); err != nil {
		t.Fatalf("write binding: %v", err)
	}

	dist := filepath.Join(root, "dist")
	compiler := &fakeCompiler{
		targetDir: filepath.Join(root, "target"),
		libraries: []string{testLib},
		failOn:    failOn,
	}
	tools := &fakeTools{}

	p := New(compiler, tools, Options{
		Dist:        dist,
		Selection:   sel,
		MinVersions: target.DefaultMinVersions(),
		Libraries:   []string{testLib},
		HeadersDir:  headers,
		BindingsDir: bindings,
		Workers:     2,
	})
	return p, compiler, tools, dist
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func TestRunMacOSOnly(t *testing.T) {
	p, compiler, tools, dist := newTestPipeline(t, target.Select(false, true), "")

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(compiler.built) != 2 {
		t.Errorf("built %d targets, want 2", len(compiler.built))
	}

	for _, tgt := range []target.Target{target.MacOSArm64, target.MacOSX8664} {
		mustExist(t, filepath.Join(dist, string(tgt), "libdemo_lib.a"))
		mustExist(t, filepath.Join(dist, string(tgt), "DemoLibFfi.framework", "Modules", "module.modulemap"))
		mustExist(t, filepath.Join(dist, string(tgt), "DemoLib.framework", "PrivateHeaders", "demo_lib.h"))
	}

	mustExist(t, filepath.Join(dist, "macos-universal", "DemoLib.framework", "DemoLib"))
	mustExist(t, filepath.Join(dist, "macos-universal", "DemoLibFfi.framework", "DemoLibFfi"))
	mustExist(t, filepath.Join(dist, "DemoLib.xcframework"))
	mustExist(t, filepath.Join(dist, "DemoLibFfi.xcframework"))

	if _, err := os.Stat(filepath.Join(dist, "ios-simulator")); !os.IsNotExist(err) {
		t.Errorf("macOS-only run produced an iOS variant")
	}

	// One universal binary per module flavor.
	if tools.lipoCalls != 2 {
		t.Errorf("lipo called %d times, want 2", tools.lipoCalls)
	}
}

func TestRunIOSOnly(t *testing.T) {
	p, _, tools, dist := newTestPipeline(t, target.Select(true, false), "")

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// The device variant is the per-target framework itself; its binary
	// must still carry the static library plus the embedded bindings
	// object after the merge stage ran over it.
	deviceBinary, err := os.ReadFile(filepath.Join(dist, "aarch64-apple-ios", "DemoLib.framework", "DemoLib"))
	if err != nil {
		t.Fatalf("read device binary: %v", err)
	}
	if want := "archive:aarch64-apple-iosobj:arm64-apple-ios10.0"; string(deviceBinary) != want {
		t.Errorf("device binary = %q, want %q", deviceBinary, want)
	}

	deviceHeader, err := os.ReadFile(filepath.Join(dist, "aarch64-apple-ios", "DemoLibFfi.framework", "Headers", "demo_lib.h"))
	if err != nil {
		t.Fatalf("read device header: %v", err)
	}
	if len(deviceHeader) == 0 {
		t.Errorf("device framework header is empty")
	}

	mustExist(t, filepath.Join(dist, "ios-simulator", "DemoLib.framework", "DemoLib"))

	manifest, err := os.ReadFile(filepath.Join(dist, "DemoLib.xcframework", "Info.plist"))
	if err != nil {
		t.Fatalf("read bundle manifest: %v", err)
	}
	for _, variant := range []string{"aarch64-apple-ios", "ios-simulator"} {
		if !strings.Contains(string(manifest), filepath.Join(variant, "DemoLib.framework")) {
			t.Errorf("bundle manifest missing variant %s:\n%s", variant, manifest)
		}
	}

	// The device variant is a single target and copies without lipo; the
	// simulator variant combines two architectures, once per module flavor.
	if tools.lipoCalls != 2 {
		t.Errorf("lipo called %d times, want 2", tools.lipoCalls)
	}

	// The simulator sidecars carry one set per architecture.
	swiftmod := filepath.Join(dist, "ios-simulator", "DemoLib.framework", "Modules", "DemoLib.swiftmodule")
	for _, name := range []string{"arm64.swiftmodule", "x86_64.swiftmodule", "arm64.swiftinterface", "x86_64.swiftinterface"} {
		mustExist(t, filepath.Join(swiftmod, name))
	}
}

func TestCompileFailureAbortsBeforeSynthesis(t *testing.T) {
	p, _, _, dist := newTestPipeline(t, target.Select(false, true), target.MacOSArm64)

	err := p.Run(context.Background())
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("err = %v, want ErrCompile", err)
	}

	matches, globErr := filepath.Glob(filepath.Join(dist, "*", "*.framework"))
	if globErr != nil {
		t.Fatalf("glob: %v", globErr)
	}
	if len(matches) != 0 {
		t.Errorf("synthesis ran despite compile failure: %v", matches)
	}
	if _, statErr := os.Stat(filepath.Join(dist, "DemoLib.xcframework")); !os.IsNotExist(statErr) {
		t.Errorf("bundle assembled despite compile failure")
	}
}

func TestRunFailsWithoutBindings(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, target.Select(false, true), "")
	p.opts.BindingsDir = t.TempDir()

	err := p.Run(context.Background())
	if !errors.Is(err, ErrNoBindings) {
		t.Fatalf("err = %v, want ErrNoBindings", err)
	}
}
