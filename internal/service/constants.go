package service

const (
	// SchemaVersion is bumped whenever the derived data layout or the
	// discovery rules change, forcing every ride to refresh.
	SchemaVersion = 3

	// Body mass fallbacks
	WeightTag        = "Weight"
	FallbackWeightKG = 80.0
)
