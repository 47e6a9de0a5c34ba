// Package cargo adapts the Rust toolchain: workspace metadata discovery
// and per-target static library builds.
//
// Metadata comes from `cargo metadata` and identifies the workspace
// packages that produce static libraries. The build adapter injects the
// target triple itself and rejects caller-supplied target overrides.
package cargo
