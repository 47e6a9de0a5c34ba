// Provides platform-appropriate paths and filesystem mode constants.
//
// Scratch paths follow XDG conventions on Linux and platform-native
// conventions on macOS. The tool name "podforge" is used as the
// subdirectory under each base path.
package paths
