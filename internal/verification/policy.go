package verification

import "verification-backend/internal/aoi"

// DefaultPercentThreshold is the share of classified pixels a class must
// strictly exceed for a match.
const DefaultPercentThreshold = 3.0

// Policy is the static verification configuration: which report types are
// accepted at all, which ones bypass imagery entirely, and which semantic
// classes corroborate which types. All comparisons are case-insensitive;
// NewService folds everything once at construction.
type Policy struct {
	// ClassToTypes maps a semantic class to the report types it can verify.
	ClassToTypes map[string][]string

	// BypassTypes always complete unverified with status OK and never reach
	// the imagery stage; they require manual review.
	BypassTypes []string

	// ExtraValidTypes are accepted report types that no class can verify and
	// that do not bypass; they go through the pipeline and come back
	// unverified unless a mapping is added.
	ExtraValidTypes []string

	// Threshold is the strict percentage bound for a class match.
	Threshold float64

	// AOIDelta is the bounding-box half-width in degrees.
	AOIDelta float64
}

// DefaultPolicy is the canonical policy table. Shelter is accepted on
// Building evidence; Flood on either Land or Water.
func DefaultPolicy() Policy {
	return Policy{
		ClassToTypes: map[string][]string{
			"Building":   {"building", "shelter"},
			"Land":       {"land", "flood"},
			"Road":       {"road"},
			"Vegetation": {"vegetation", "fire"},
			"Water":      {"water", "flood"},
		},
		BypassTypes:     []string{"danger", "medicalneed"},
		ExtraValidTypes: []string{"resource"},
		Threshold:       DefaultPercentThreshold,
		AOIDelta:        aoi.DefaultDelta,
	}
}
