package flames

// Channel indices for readability.
const (
	ChR    = 0
	ChG    = 1
	ChB    = 2
	ChHits = 3
	// cell layout in Histogram.Buf: r_sum, g_sum, b_sum, hits
	CellSize = 4

	Width           = 512
	Height          = 512
	SamplesPerPixel = 1000
	Gamma           = 4.0
	Vibrancy        = 0.5
	Out             = "flame.png"
	MaxAttempts     = 5

	// random generation
	AffineRange   = 1.0 // affine coefficients drawn from [-AffineRange, AffineRange)
	MoebiusStdDev = 0.7 // Moebius components drawn from N(0, MoebiusStdDev)
	MinTransforms = 2
	MaxTransforms = 6

	// sampling
	PerturbRange    = 0.01 // Perturb moves the point by U(-PerturbRange, PerturbRange) per axis
	Fuse            = 20   // iterations each forked worker discards before accumulating
	MinWarmup       = 1_000
	MaxWarmup       = 1_000_000
	BoundsSamples   = 100_000
	OutlierFraction = 0.01 // share of the bounds sample trimmed at each end of each axis

	// quality heuristic
	ThumbSize   = 64
	MinEntropy  = 2.0  // bits, over 32 lightness bins
	MinVariance = 25.0 // lightness variance, L in [0,100]
	MinCoverage = 0.02
	MaxCoverage = 0.98

	// escape-time
	EscapeMaxIter = 500
	EscapeRadius2 = 4.0
)
