package target

import (
	"errors"
	"fmt"
)

// A concrete platform+architecture identifier the native compiler builds
// for, in Rust target-triple form (e.g. "aarch64-apple-ios").
type Target string

// Supported build targets.
const (
	MacOSX8664  Target = "x86_64-apple-darwin"
	MacOSArm64  Target = "aarch64-apple-darwin"
	IOSDevice   Target = "aarch64-apple-ios"
	IOSSimArm64 Target = "aarch64-apple-ios-sim"
	IOSSimX8664 Target = "x86_64-apple-ios"
)

var ErrUnsupportedTarget = errors.New("unsupported target")

// Minimum deployment OS versions embedded in the Swift deployment triple.
type MinVersions struct {
	IOS   string
	MacOS string
}

// Returns the default minimum OS versions.
func DefaultMinVersions() MinVersions {
	return MinVersions{IOS: "10.0", MacOS: "10.10"}
}

// The concrete toolchain parameters a target resolves to: the Apple SDK
// name and the Swift deployment triple with the minimum OS version baked in.
type Resolution struct {
	SDK              string
	DeploymentTriple string
}

// Resolves a target to its SDK name and deployment triple.
//
// Resolution is pure and total over the supported target set. Any other
// identifier fails with [ErrUnsupportedTarget].
func Resolve(t Target, min MinVersions) (Resolution, error) {
	switch t {
	case MacOSX8664:
		return Resolution{SDK: "macosx", DeploymentTriple: "x86_64-apple-macosx" + min.MacOS}, nil
	case MacOSArm64:
		return Resolution{SDK: "macosx", DeploymentTriple: "arm64-apple-macosx" + min.MacOS}, nil
	case IOSDevice:
		return Resolution{SDK: "iphoneos", DeploymentTriple: "arm64-apple-ios" + min.IOS}, nil
	case IOSSimArm64:
		return Resolution{SDK: "iphonesimulator", DeploymentTriple: "arm64-apple-ios" + min.IOS + "-simulator"}, nil
	case IOSSimX8664:
		return Resolution{SDK: "iphonesimulator", DeploymentTriple: "x86_64-apple-ios" + min.IOS + "-simulator"}, nil
	}
	return Resolution{}, fmt.Errorf("%w: %s", ErrUnsupportedTarget, t)
}

// Returns the Apple architecture name for a target, used to name the
// per-architecture Swift module sidecar files.
func Arch(t Target) (string, error) {
	switch t {
	case MacOSArm64, IOSDevice, IOSSimArm64:
		return "arm64", nil
	case MacOSX8664, IOSSimX8664:
		return "x86_64", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedTarget, t)
}
