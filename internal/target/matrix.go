package target

// Which platform families a run builds for.
type Selection int

const (
	Both Selection = iota
	IOSOnly
	MacOSOnly
)

// Derives the selection from the --ios / --macos flags.
//
// Asking for neither or for both means both families.
func Select(wantIOS, wantMacOS bool) Selection {
	switch {
	case wantIOS && !wantMacOS:
		return IOSOnly
	case wantMacOS && !wantIOS:
		return MacOSOnly
	}
	return Both
}

// A platform-level grouping of one or more targets whose per-target
// binaries are combined into a single multi-architecture binary. A variant
// with exactly one target is a degenerate merge: a plain copy, no
// combination needed.
type Variant struct {
	Name    string
	Targets []Target
}

// The fixed variant membership table.
//
// Device binaries are single-architecture, so the iOS device target stays
// an unmerged variant of its own, while the two simulator architectures
// always merge. Both desktop architectures always merge into one universal
// variant. This asymmetry is deliberate and must not be derived from
// target counts.
var (
	iosVariants = []Variant{
		{Name: "aarch64-apple-ios", Targets: []Target{IOSDevice}},
		{Name: "ios-simulator", Targets: []Target{IOSSimArm64, IOSSimX8664}},
	}
	macOSVariants = []Variant{
		{Name: "macos-universal", Targets: []Target{MacOSArm64, MacOSX8664}},
	}
)

func (s Selection) includesIOS() bool   { return s == Both || s == IOSOnly }
func (s Selection) includesMacOS() bool { return s == Both || s == MacOSOnly }

// Returns the targets to build for this selection, iOS first.
func (s Selection) Targets() []Target {
	var targets []Target
	if s.includesIOS() {
		targets = append(targets, IOSDevice, IOSSimArm64, IOSSimX8664)
	}
	if s.includesMacOS() {
		targets = append(targets, MacOSArm64, MacOSX8664)
	}
	return targets
}

// Returns the merged variants to produce for this selection, iOS first.
func (s Selection) Variants() []Variant {
	var variants []Variant
	if s.includesIOS() {
		variants = append(variants, iosVariants...)
	}
	if s.includesMacOS() {
		variants = append(variants, macOSVariants...)
	}
	return variants
}
