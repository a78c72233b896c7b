package analysis

// AnchorKey identifies one of the fixed reference efforts of the power curve
type AnchorKey string

const (
	AnchorMaxWatts AnchorKey = "max_watts"
	Anchor1Min     AnchorKey = "1:00"
	Anchor500m     AnchorKey = "500m"
	Anchor1k       AnchorKey = "1k"
	Anchor2k       AnchorKey = "2k"
	Anchor5k       AnchorKey = "5k"
	Anchor6k       AnchorKey = "6k"
	Anchor30Min    AnchorKey = "30:00"
	Anchor10k      AnchorKey = "10k"
	AnchorHalf     AnchorKey = "HM"
	AnchorFull     AnchorKey = "FM"
)

// Anchors lists every anchor, shortest effort first
var Anchors = []AnchorKey{
	AnchorMaxWatts,
	Anchor1Min,
	Anchor500m,
	Anchor1k,
	Anchor2k,
	Anchor5k,
	Anchor6k,
	Anchor30Min,
	Anchor10k,
	AnchorHalf,
	AnchorFull,
}

// Standard piece distances in meters
const (
	Distance500m     = 500
	Distance1k       = 1000
	Distance2k       = 2000
	Distance5k       = 5000
	Distance6k       = 6000
	Distance10k      = 10000
	DistanceHalfMara = 21097
	DistanceMarathon = 42195
)

// AnchorDistances maps distance anchors to their canonical distance
var AnchorDistances = map[AnchorKey]float64{
	Anchor500m: Distance500m,
	Anchor1k:   Distance1k,
	Anchor2k:   Distance2k,
	Anchor5k:   Distance5k,
	Anchor6k:   Distance6k,
	Anchor10k:  Distance10k,
	AnchorHalf: DistanceHalfMara,
	AnchorFull: DistanceMarathon,
}

// TimeTest is a fixed-duration test piece
type TimeTest struct {
	Anchor    AnchorKey
	Seconds   float64
	Tolerance float64 // absolute, seconds
}

// TimeTests are matched against continuous pieces by duration
var TimeTests = []TimeTest{
	{Anchor1Min, 60, 5},
	{Anchor30Min, 1800, 30},
}

// distanceAnchorOrder keeps matching deterministic
var distanceAnchorOrder = []AnchorKey{
	Anchor500m, Anchor1k, Anchor2k, Anchor5k, Anchor6k, Anchor10k, AnchorHalf, AnchorFull,
}

// RatioBand is the expected power of an anchor as a fraction of 2k watts
type RatioBand struct {
	Low  float64
	High float64
}

// Midpoint returns the centre of the band
func (b RatioBand) Midpoint() float64 {
	return (b.Low + b.High) / 2
}

// ExpectedRatios are empirical bands for a well-rounded rower
var ExpectedRatios = map[AnchorKey]RatioBand{
	AnchorMaxWatts: {2.00, 2.60},
	Anchor1Min:     {1.40, 1.60},
	Anchor500m:     {1.25, 1.35},
	Anchor1k:       {1.10, 1.18},
	Anchor5k:       {0.80, 0.85},
	Anchor6k:       {0.77, 0.82},
	Anchor30Min:    {0.70, 0.76},
	Anchor10k:      {0.68, 0.74},
	AnchorHalf:     {0.62, 0.68},
	AnchorFull:     {0.55, 0.61},
}

var anchorLabels = map[AnchorKey]string{
	AnchorMaxWatts: "Max Watts",
	Anchor1Min:     "1:00",
	Anchor500m:     "500m",
	Anchor1k:       "1,000m",
	Anchor2k:       "2,000m",
	Anchor5k:       "5,000m",
	Anchor6k:       "6,000m",
	Anchor30Min:    "30:00",
	Anchor10k:      "10,000m",
	AnchorHalf:     "Half Marathon",
	AnchorFull:     "Marathon",
}

// AnchorLabel returns a human-readable label for an anchor
func AnchorLabel(key AnchorKey) string {
	if label, ok := anchorLabels[key]; ok {
		return label
	}
	return string(key)
}

func anchorPtr(key AnchorKey) *AnchorKey {
	k := key
	return &k
}
