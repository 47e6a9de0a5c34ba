// Package bundle synthesizes and merges framework bundles.
//
// Two framework kinds are produced per (library, target) pair: an
// interface framework exposing the C API (public headers, module
// descriptor, static library binary) and a wrapper framework derived from
// it (headers demoted to private, an embedded Swift bindings object, and
// per-architecture module sidecars). Per-target frameworks belonging to
// one merged variant are combined into a platform-level framework: the
// binaries via lipo, the sidecar trees via a must-match union that rejects
// divergent content.
package bundle
