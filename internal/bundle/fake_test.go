package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/toolchain"
)

// A toolchain fake that produces deterministic placeholder artifacts.
type fakeToolchain struct {
	lipoCalls int
}

func (f *fakeToolchain) SDKPath(ctx context.Context, sdk string) (string, error) {
	return "/sdk/" + sdk, nil
}

// Writes a "fat" binary whose content is the concatenation of the inputs,
// so tests can verify which binaries were combined.
func (f *fakeToolchain) Lipo(ctx context.Context, inputs []string, output string) error {
	f.lipoCalls++
	var combined []byte
	combined = append(combined, []byte("fat:")...)
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		combined = append(combined, data...)
	}
	return os.WriteFile(output, combined, 0644)
}

// Emits the object, every sidecar, and a stray private interface file into
// the work directory, mimicking swiftc's top-level output behavior.
func (f *fakeToolchain) CompileSwift(ctx context.Context, req toolchain.SwiftCompile) (string, error) {
	obj := filepath.Join(req.WorkDir, req.ModuleName+".o")
	if err := os.WriteFile(obj, []byte("obj:"+req.DeploymentTriple), 0644); err != nil {
		return "", err
	}
	for _, ext := range toolchain.SidecarExts {
		path := filepath.Join(req.WorkDir, req.ModuleName+"."+ext)
		if err := os.WriteFile(path, []byte(ext+":"+req.DeploymentTriple), 0644); err != nil {
			return "", err
		}
	}
	stray := filepath.Join(req.WorkDir, req.ModuleName+".private.swiftinterface")
	if err := os.WriteFile(stray, []byte("stray"), 0644); err != nil {
		return "", err
	}
	return obj, nil
}

func (f *fakeToolchain) ArchiveInsert(ctx context.Context, archive, object string) error {
	data, err := os.ReadFile(object)
	if err != nil {
		return err
	}
	arch, err := os.ReadFile(archive)
	if err != nil {
		return err
	}
	return os.WriteFile(archive, append(arch, data...), 0644)
}

func (f *fakeToolchain) CreateXCFramework(ctx context.Context, name string, frameworks []string, outDir string) (string, error) {
	output := filepath.Join(outDir, name+".xcframework")
	if err := os.MkdirAll(output, 0755); err != nil {
		return "", err
	}
	manifest := ""
	for _, fw := range frameworks {
		if _, err := os.Stat(fw); err != nil {
			return "", fmt.Errorf("missing framework %s: %w", fw, err)
		}
		manifest += fw + "\n"
	}
	return output, os.WriteFile(filepath.Join(output, "Info.plist"), []byte(manifest), 0644)
}
