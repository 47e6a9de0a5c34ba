// Package pipeline orchestrates a full bundling run: compiling static
// libraries for every selected target, synthesizing per-target
// frameworks, merging them into platform variants, and assembling the
// final distributable bundles.
package pipeline
