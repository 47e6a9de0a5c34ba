// Package toolchain adapts the external Apple build tools: xcrun, lipo,
// swiftc, ar and xcodebuild.
//
// Every invocation returns a typed outcome distinguishing a missing tool,
// a nonzero exit (with captured stderr) and an I/O failure, so callers can
// report which stage and tool failed. The [Toolchain] interface exists so
// the pipeline can be exercised against fakes.
package toolchain
