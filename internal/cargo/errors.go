package cargo

import "errors"

var (
	ErrMetadata       = errors.New("cargo metadata failed")
	ErrNoStaticLib    = errors.New("no staticlib targets found in workspace")
	ErrTargetOverride = errors.New("--target is owned by the pipeline and must not be passed")
	ErrBuild          = errors.New("cargo build failed")
)
