package flames

var (
	Debug    = false // set to true for verbose debug output
	Progress = false // set to true to print sampling progress
	Workers  = 0     // overrides the config's worker count when > 0
	Seed     *int64  // overrides the config's seed when set
	// accumulateFunc is what every render worker runs; tests swap it.
	accumulateFunc = accumulate
)
