package magickit

import "github.com/gobeaver/magickit/guard"

// Known version boundaries of the magic library.
const (
	// versionQueryIntroduced is the first release shipping a version
	// query entry point (5.13).
	versionQueryIntroduced = 513

	// brokenDescriptorLow..brokenDescriptorHigh is the release range in
	// which classifying by descriptor closes or otherwise invalidates
	// the descriptor it was handed.
	brokenDescriptorLow  = 529
	brokenDescriptorHigh = 531

	// errorTextFallbackBefore marks releases whose classify calls can
	// return no result yet still record usable error text (pre 5.15).
	errorTextFallbackBefore = 515
)

// VersionCapabilities holds the facts about the linked magic library
// and the platform that every dispatcher operation consults. It is
// computed once at startup (or injected in tests) and never mutated
// afterwards.
type VersionCapabilities struct {
	// Version is the raw library version number, -1 when unknown.
	Version int

	// FlagsArgument reports whether the wrapped entry points accept a
	// trailing flags argument. One bit for all of them: the signatures
	// changed together.
	FlagsArgument bool

	// VersionQuery reports whether the library exposes a version query.
	// When unset, querying is rejected locally; there is nothing
	// correct to call.
	VersionQuery bool

	// BrokenDescriptor reports whether the linked version falls in the
	// range that invalidates descriptors passed to it.
	BrokenDescriptor bool

	// AtomicCloexecDup reports whether descriptors can be duplicated
	// and marked close-on-exec in a single operation.
	AtomicCloexecDup bool

	// DescriptorProbe reports whether descriptor validity can be
	// queried through the OS.
	DescriptorProbe bool
}

// DetectCapabilities computes the capability table for the given opened
// library handle. A nil handle yields a table with platform facts only,
// suitable for a process without a usable native library.
func DetectCapabilities(lib Library) VersionCapabilities {
	caps := VersionCapabilities{
		Version:          -1,
		AtomicCloexecDup: guard.HasAtomicCloexecDup(),
		DescriptorProbe:  guard.HasDescriptorProbe(),
	}
	if lib == nil {
		return caps
	}

	if v := lib.Version(); v > 0 {
		caps.Version = v
		caps.VersionQuery = v >= versionQueryIntroduced
		caps.FlagsArgument = true
		caps.BrokenDescriptor = v >= brokenDescriptorLow && v <= brokenDescriptorHigh
	}
	return caps
}
