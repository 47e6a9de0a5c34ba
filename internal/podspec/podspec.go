// Package podspec renders CocoaPods specification files from cargo
// package metadata.
package podspec

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cratekit/podforge/internal/bundle"
	"github.com/cratekit/podforge/internal/cargo"
	"github.com/cratekit/podforge/internal/target"
)

// Where CocoaPods fetches the published archive from.
type Source struct {
	HTTP string
}

// One spec author, in declaration order.
type Author struct {
	Name  string
	Email string
}

// A pod_target_xcconfig build setting, in declaration order.
type Setting struct {
	Key   string
	Value string
}

// Per-platform-family requirements.
type OSRequirements struct {
	DeploymentTarget string
}

// A CocoaPods specification. Zero values render as empty sections; use
// [FromPackage] to derive one from cargo metadata.
type Podspec struct {
	Name               string
	Version            string
	Summary            string
	Authors            []Author
	License            string
	Homepage           string
	Source             Source
	SourceFiles        []string
	VendoredFrameworks []string
	MacOS              OSRequirements
	IOS                OSRequirements
	XCConfig           []Setting
}

var (
	authorRe = regexp.MustCompile(`^\s*(.+?)(?: <(.+?)>)?\s*$`)
	sourceRe = regexp.MustCompile(`^https://github\.com/(.*?)/(.*?)(?:\.git)?/?$`)
)

// Derives a spec from a cargo package. Fields the manifest does not
// carry render as the literal UNKNOWN so a generated spec is obviously
// incomplete rather than silently wrong. The source URL is templated
// against a GitHub release download when the repository is hosted
// there.
func FromPackage(p cargo.Package) Podspec {
	var authors []Author
	for _, line := range p.Authors {
		m := authorRe.FindStringSubmatch(line)
		if m == nil {
			slog.Warn("skipping unparsable author line", "author", line)
			continue
		}
		authors = append(authors, Author{Name: m[1], Email: m[2]})
	}

	source := "UNKNOWN"
	if m := sourceRe.FindStringSubmatch(p.Repository); m != nil && m[1] != "" && m[2] != "" {
		source = fmt.Sprintf("https://github.com/%s/%s/releases/download/v#{spec.version}/podforge.tgz", m[1], m[2])
	}

	min := target.DefaultMinVersions()

	return Podspec{
		Name:        bundle.UpperCamel(p.Name),
		Version:     p.Version,
		Summary:     orUnknown(p.Description),
		Authors:     authors,
		License:     orUnknown(p.License),
		Homepage:    orUnknown(p.Repository),
		Source:      Source{HTTP: source},
		SourceFiles: []string{"src/**/*"},
		MacOS:       OSRequirements{DeploymentTarget: min.MacOS},
		IOS:         OSRequirements{DeploymentTarget: min.IOS},
	}
}

// Registers one crate library's distributable bundles, both the Swift
// wrapper and the low-level C interface.
func (p *Podspec) AddLibrary(library string) {
	p.VendoredFrameworks = append(p.VendoredFrameworks,
		"dist/"+bundle.WrapperModuleName(library)+".xcframework",
		"dist/"+bundle.FFIModuleName(library)+".xcframework")
}

// Bitcode is dead weight for prebuilt static archives; Xcode strips it
// on submission anyway.
func (p *Podspec) DisableBitcode() {
	p.XCConfig = append(p.XCConfig, Setting{Key: "ENABLE_BITCODE", Value: "NO"})
}

// The file the spec is written to, <Name>.podspec.
func (p Podspec) Filename() string {
	return p.Name + ".podspec"
}

// Renders the spec in CocoaPods' Ruby DSL.
func (p Podspec) String() string {
	var b strings.Builder

	b.WriteString("Pod::Spec.new { |spec|\n")
	fmt.Fprintf(&b, "  spec.name = '%s'\n", escapeApos(p.Name))
	fmt.Fprintf(&b, "  spec.version = '%s'\n", escapeApos(p.Version))
	fmt.Fprintf(&b, "  spec.summary = '%s'\n", escapeApos(p.Summary))

	b.WriteString("  spec.authors = {\n")
	for _, a := range p.Authors {
		fmt.Fprintf(&b, "    '%s' => '%s',\n", escapeApos(a.Name), escapeApos(a.Email))
	}
	b.WriteString("  }\n")

	fmt.Fprintf(&b, "  spec.license = { :type => '%s' }\n", escapeApos(p.License))
	fmt.Fprintf(&b, "  spec.homepage = '%s'\n", escapeApos(p.Homepage))
	fmt.Fprintf(&b, "  spec.macos.deployment_target = '%s'\n", p.MacOS.DeploymentTarget)
	fmt.Fprintf(&b, "  spec.ios.deployment_target = '%s'\n", p.IOS.DeploymentTarget)

	if len(p.XCConfig) > 0 {
		b.WriteString("  spec.pod_target_xcconfig = {\n")
		for _, s := range p.XCConfig {
			fmt.Fprintf(&b, "    '%s' => '%s',\n", escapeApos(s.Key), escapeApos(s.Value))
		}
		b.WriteString("  }\n")
	}

	if len(p.VendoredFrameworks) > 0 {
		fmt.Fprintf(&b, "  spec.vendored_frameworks = ['%s']\n", strings.Join(p.VendoredFrameworks, "', '"))
	}
	if len(p.SourceFiles) > 0 {
		fmt.Fprintf(&b, "  spec.source_files = ['%s']\n", strings.Join(p.SourceFiles, "', '"))
	}

	b.WriteString("  spec.source = {\n")
	fmt.Fprintf(&b, "    :http => '%s',\n", p.Source.HTTP)
	b.WriteString("  }\n")
	b.WriteString("}\n")

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func escapeApos(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
