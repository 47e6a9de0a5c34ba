package bundle

import (
	"strings"
	"unicode"

	"github.com/cratekit/podforge/internal/cargo"
)

// Converts a snake_case or kebab-case library name to UpperCamelCase,
// the form used for framework module names ("divvun-spell" becomes
// "DivvunSpell").
func UpperCamel(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	}) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for i := 1; i < len(runes); i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

// Returns the module name of the low-level interface framework exposing
// the C API ("divvun-spell" becomes "DivvunSpellFfi").
func FFIModuleName(library string) string {
	return UpperCamel(cargo.SysName(library) + "_ffi")
}

// Returns the module name of the wrapper framework exposing the Swift API
// ("divvun-spell" becomes "DivvunSpell").
func WrapperModuleName(library string) string {
	return UpperCamel(cargo.SysName(library))
}

// Returns the framework directory name for a module.
func FrameworkName(module string) string {
	return module + ".framework"
}
