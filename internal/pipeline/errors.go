package pipeline

import "errors"

var (
	// The compile stage failed for at least one target.
	ErrCompile = errors.New("compiling static libraries")

	// A compiled static library could not be collected into the
	// distribution tree.
	ErrCollect = errors.New("collecting static library")

	// Framework synthesis failed for a (library, target) pair.
	ErrSynthesize = errors.New("synthesizing framework")

	// Merging per-target frameworks into a platform variant failed.
	ErrMerge = errors.New("merging variant")

	// Assembling the final distributable bundle failed.
	ErrAssemble = errors.New("assembling distributable bundle")

	// No Swift bindings sources were found under the bindings directory.
	ErrNoBindings = errors.New("no Swift bindings sources found")
)
