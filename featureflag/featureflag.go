package featureflag

import (
	"sort"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// FeatureFlag is a lookup map for features that is enabled or disabled
type FeatureFlag map[Flag]struct{}

// New return a new feature flags initialized with list of flags. Flags are
// case insensitive and unknown ones are reported with a warning.
func New(flags []string) FeatureFlag {
	known := make(map[Flag]struct{})
	for _, f := range Known() {
		known[f] = struct{}{}
	}

	featureFlag := make(FeatureFlag)
	for _, f := range flags {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, ok := known[Flag(f)]; !ok {
			logs.WithTag("flag", f).Warn("unknown feature flag")
		}
		featureFlag[Flag(f)] = struct{}{}
	}
	return featureFlag
}

// Enabled reports whether flag is set in the feature flags.
func (f FeatureFlag) Enabled(flag Flag) bool {
	_, ok := f[flag]
	return ok
}

// IfSet runs function `do ` if flag is set in the feature flags
func (f FeatureFlag) IfSet(flag Flag, do func()) {
	if !f.Enabled(flag) {
		return
	}
	do()
}

// List returns the set flags in alphabetical order.
func (f FeatureFlag) List() []string {
	flags := make([]string, 0, len(f))
	for flag := range f {
		flags = append(flags, string(flag))
	}
	sort.Strings(flags)
	return flags
}
