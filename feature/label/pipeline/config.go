package pipeline

// Config holds configuration for the ingestion pipeline.
type Config struct {
	// Strategy selects how hierarchy edges and characteristics are
	// synchronized: "incremental" (per-node round trips) or "batch"
	// (bulk queries). Both produce the same persisted state.
	Strategy string `mapstructure:"strategy" default:"incremental"`
}

// Strategy identifies one of the two synchronization execution strategies.
type Strategy string

const (
	// StrategyIncremental performs one store round trip per node, O(N) calls
	// for N children.
	StrategyIncremental Strategy = "incremental"
	// StrategyBatch performs bulk lookups and inserts, O(1) amortized calls
	// regardless of child count.
	StrategyBatch Strategy = "batch"
)

// ResolveStrategy maps the configured string to a Strategy, falling back to
// incremental for unrecognized values.
func (c Config) ResolveStrategy() Strategy {
	if Strategy(c.Strategy) == StrategyBatch {
		return StrategyBatch
	}
	return StrategyIncremental
}
