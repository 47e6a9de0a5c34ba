package bundle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cratekit/podforge/internal/target"
)

// Lays out a minimal per-target framework under dist/<target>.
func writeTargetFramework(t *testing.T, dist string, tgt target.Target, module, binary string) {
	t.Helper()
	fw := filepath.Join(dist, string(tgt), FrameworkName(module))
	writeTree(t, fw, map[string]string{
		module:                    binary,
		"Headers/api.h":           "// api",
		"Modules/module.modulemap": "framework module " + module + " {\n}",
	})
}

func TestMergeVariantCombinesBinaries(t *testing.T) {
	dist := t.TempDir()
	module := "DivvunSpellFfi"
	writeTargetFramework(t, dist, target.IOSSimArm64, module, "arm-bin")
	writeTargetFramework(t, dist, target.IOSSimX8664, module, "x86-bin")

	variant := target.Variant{
		Name:    "ios-simulator",
		Targets: []target.Target{target.IOSSimArm64, target.IOSSimX8664},
	}

	tc := &fakeToolchain{}
	outDir, err := MergeVariant(context.Background(), tc, dist, variant, module)
	if err != nil {
		t.Fatalf("MergeVariant: %v", err)
	}
	if tc.lipoCalls != 1 {
		t.Errorf("lipo calls = %d, want 1", tc.lipoCalls)
	}

	got := readTree(t, outDir)
	if got[module] != "fat:arm-binx86-bin" {
		t.Errorf("merged binary = %q, want combined per-target binaries", got[module])
	}
	if got[filepath.Join("Headers", "api.h")] != "// api" {
		t.Errorf("headers not unioned: %v", got)
	}
	if !strings.Contains(got[filepath.Join("Modules", "module.modulemap")], module) {
		t.Errorf("module descriptor not unioned: %v", got)
	}
}

func TestMergeVariantDeviceVariantPreservesContent(t *testing.T) {
	dist := t.TempDir()
	module := "DivvunSpell"
	writeTargetFramework(t, dist, target.IOSDevice, module, "device-bin")

	// The device variant shares its name with its sole target, so the
	// per-target tree and the variant tree are the same directory.
	// Snapshot the content before the merge; comparing afterwards against
	// the same path would hide any corruption.
	srcDir := filepath.Join(dist, string(target.IOSDevice), FrameworkName(module))
	before := readTree(t, srcDir)

	variant := target.Variant{Name: "aarch64-apple-ios", Targets: []target.Target{target.IOSDevice}}

	tc := &fakeToolchain{}
	outDir, err := MergeVariant(context.Background(), tc, dist, variant, module)
	if err != nil {
		t.Fatalf("MergeVariant: %v", err)
	}
	if outDir != srcDir {
		t.Errorf("device variant dir = %q, want the per-target dir %q", outDir, srcDir)
	}
	if tc.lipoCalls != 0 {
		t.Errorf("degenerate variant must not invoke the binary combiner (calls = %d)", tc.lipoCalls)
	}

	after := readTree(t, outDir)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("device framework content changed (-before +after):\n%s", diff)
	}
	if after[module] != "device-bin" {
		t.Errorf("device binary = %q, want device-bin", after[module])
	}
}

func TestMergeVariantDegenerateCopiesToDistinctName(t *testing.T) {
	dist := t.TempDir()
	module := "DivvunSpell"
	writeTargetFramework(t, dist, target.IOSDevice, module, "device-bin")

	before := readTree(t, filepath.Join(dist, string(target.IOSDevice), FrameworkName(module)))

	variant := target.Variant{Name: "ios-device", Targets: []target.Target{target.IOSDevice}}

	tc := &fakeToolchain{}
	outDir, err := MergeVariant(context.Background(), tc, dist, variant, module)
	if err != nil {
		t.Fatalf("MergeVariant: %v", err)
	}
	if tc.lipoCalls != 0 {
		t.Errorf("degenerate variant must not invoke the binary combiner (calls = %d)", tc.lipoCalls)
	}
	if outDir == filepath.Join(dist, string(target.IOSDevice), FrameworkName(module)) {
		t.Fatalf("distinctly named variant must produce a separate directory")
	}

	got := readTree(t, outDir)
	if diff := cmp.Diff(before, got); diff != "" {
		t.Errorf("degenerate merge differs from source (-src +merged):\n%s", diff)
	}
}

func TestMergeVariantRejectsDivergentSidecars(t *testing.T) {
	dist := t.TempDir()
	module := "DivvunSpellFfi"
	writeTargetFramework(t, dist, target.IOSSimArm64, module, "a")
	writeTargetFramework(t, dist, target.IOSSimX8664, module, "b")

	// Diverge one header between the contributing targets.
	divergent := filepath.Join(dist, string(target.IOSSimX8664), FrameworkName(module), "Headers", "api.h")
	if err := os.WriteFile(divergent, []byte("// different"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	variant := target.Variant{
		Name:    "ios-simulator",
		Targets: []target.Target{target.IOSSimArm64, target.IOSSimX8664},
	}
	_, err := MergeVariant(context.Background(), &fakeToolchain{}, dist, variant, module)
	if err == nil {
		t.Fatal("expected divergent sidecar content to fail the merge")
	}
}

func TestMergeVariantIdempotent(t *testing.T) {
	dist := t.TempDir()
	module := "DivvunSpellFfi"
	writeTargetFramework(t, dist, target.IOSSimArm64, module, "arm-bin")
	writeTargetFramework(t, dist, target.IOSSimX8664, module, "x86-bin")

	variant := target.Variant{
		Name:    "ios-simulator",
		Targets: []target.Target{target.IOSSimArm64, target.IOSSimX8664},
	}

	tc := &fakeToolchain{}
	first, err := MergeVariant(context.Background(), tc, dist, variant, module)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	firstTree := readTree(t, first)

	second, err := MergeVariant(context.Background(), tc, dist, variant, module)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	secondTree := readTree(t, second)

	if diff := cmp.Diff(firstTree, secondTree); diff != "" {
		t.Errorf("repeated merge changed content (-first +second):\n%s", diff)
	}
}
