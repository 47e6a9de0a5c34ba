// Package target maps abstract build targets to concrete toolchain
// parameters and enumerates the build matrix.
//
// A target is a Rust-style platform+architecture triple. Each target
// resolves to exactly one Apple SDK name and Swift deployment triple.
// A selection (iOS, macOS, or both) determines which targets are built
// and which merged variants are produced from them; variant membership
// is a fixed table, not computed.
package target
