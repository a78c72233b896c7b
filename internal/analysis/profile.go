package analysis

// RatioStatus compares an anchor's power against its expected band
type RatioStatus string

const (
	StatusAbove  RatioStatus = "above"
	StatusWithin RatioStatus = "within"
	StatusBelow  RatioStatus = "below"
)

// ProfileType is the coarse classification of an athlete's power curve
type ProfileType string

const (
	ProfileSprinter         ProfileType = "sprinter"
	ProfileDiesel           ProfileType = "diesel"
	ProfileThresholdGap     ProfileType = "threshold_gap"
	ProfileBalanced         ProfileType = "balanced"
	ProfileInsufficientData ProfileType = "insufficient_data"
)

// MinRatiosForProfile is the number of ratios needed before classifying
const MinRatiosForProfile = 3

// PowerRatio is one anchor's power relative to the 2k reference
type PowerRatio struct {
	Anchor        AnchorKey
	ActualWatts   float64
	ActualPercent float64
	ExpectedLow   float64
	ExpectedHigh  float64
	Status        RatioStatus
}

// ProfileGap is an anchor with no data yet
type ProfileGap struct {
	Anchor     AnchorKey
	Label      string
	Suggestion string
}

// PowerProfile is the full result of a profile computation
type PowerProfile struct {
	Points             []PowerCurvePoint
	Anchor2kWatts      *float64
	Ratios             []PowerRatio
	ProfileType        ProfileType
	ProfileDescription string
	Gaps               []ProfileGap
	Prescriptions      []Prescription
	MaxWatts           *float64
	DataCompleteness   float64 // 0.0 to 1.0
}

// Anchor sets used by the classifier
var (
	shortAnchors = map[AnchorKey]bool{AnchorMaxWatts: true, Anchor1Min: true, Anchor500m: true, Anchor1k: true}
	longAnchors  = map[AnchorKey]bool{Anchor5k: true, Anchor6k: true, Anchor30Min: true, Anchor10k: true, AnchorHalf: true, AnchorFull: true}
	midAnchors   = map[AnchorKey]bool{Anchor5k: true, Anchor6k: true}
)

// ProfileDescriptions explains each classification to the athlete
var ProfileDescriptions = map[ProfileType]string{
	ProfileSprinter: "Your anaerobic system is strong relative to your aerobic base. Short efforts sit above " +
		"the expected band while long efforts fall below it. Your 2k is likely limited by the back half of " +
		"the piece: more aerobic volume will let you hold your early speed to the finish.",
	ProfileDiesel: "Your aerobic engine is strong but your top-end power lags. Long efforts sit above the " +
		"expected band while short efforts fall below it. Your 2k is likely limited by the start and the " +
		"sprint: anaerobic power and rate work will convert your base into a faster time.",
	ProfileThresholdGap: "Your 5k/6k power falls below what your 2k predicts even though other parts of " +
		"your curve are strong. The gap is at anaerobic threshold. Raising it will make the third 500m of " +
		"your 2k far more sustainable.",
	ProfileBalanced: "Your power curve is well rounded, with no system clearly limiting your 2k. Keep a " +
		"mixed training programme and target your weakest anchor for the next gains.",
	ProfileInsufficientData: "Not enough test data to classify your profile yet. Complete more benchmark " +
		"pieces across short and long distances to fill in your power curve.",
}

// NoReferenceDescription is shown when no 2k reference power is available
const NoReferenceDescription = "No 2k reference power available. Row a 2,000m test (or set a baseline " +
	"2k in your config) so every other effort can be compared against it."

// GapSuggestions are the remedial tests offered for each missing anchor
var GapSuggestions = map[AnchorKey]string{
	AnchorMaxWatts: "Do 3-5 all-out 10-stroke sprints from a rolling start and note your peak watts",
	Anchor1Min:     "Row a 1:00 all-out test",
	Anchor500m:     "Row a 500m time trial, or 8x500m with full recovery",
	Anchor1k:       "Row a 1,000m time trial",
	Anchor5k:       "Row a 5,000m test piece",
	Anchor6k:       "Row a 6,000m test piece",
	Anchor30Min:    "Row a 30:00 test piece (free rate or r20)",
	Anchor10k:      "Row a 10,000m steady-state piece at a hard but sustainable pace",
	AnchorHalf:     "Row a half marathon (21,097m) at steady pace",
	AnchorFull:     "Row a full marathon (42,195m) at steady pace",
}

// GenericGapSuggestion covers anchors without a canned suggestion
const GenericGapSuggestion = "Complete a test at this distance"

// ComputePowerProfile derives ratios, classification, gaps and
// prescriptions from best-effort points. fallback2kWatts is used only when
// no 2k point exists.
func ComputePowerProfile(points []PowerCurvePoint, fallback2kWatts float64) PowerProfile {
	byAnchor := make(map[AnchorKey]PowerCurvePoint)
	for _, p := range points {
		if key, ok := p.Anchor(); ok {
			if best, seen := byAnchor[key]; !seen || p.Watts > best.Watts {
				byAnchor[key] = p
			}
		}
	}

	profile := PowerProfile{
		Points: points,
		Ratios: []PowerRatio{},
		Gaps:   detectGaps(byAnchor),
	}

	if mw, ok := byAnchor[AnchorMaxWatts]; ok {
		v := mw.Watts
		profile.MaxWatts = &v
	}

	ref := 0.0
	if p, ok := byAnchor[Anchor2k]; ok {
		ref = p.Watts
	} else if fallback2kWatts > 0 {
		ref = fallback2kWatts
	}

	if ref <= 0 {
		profile.ProfileType = ProfileInsufficientData
		profile.ProfileDescription = NoReferenceDescription
		// Without a reference the baseline tests already cover the gaps
		profile.Prescriptions = []Prescription{clonePrescription(prescriptionBaseline)}
		return profile
	}

	profile.Anchor2kWatts = &ref
	profile.Ratios = computeRatios(byAnchor, ref)
	profile.ProfileType = Classify(profile.Ratios)
	profile.ProfileDescription = ProfileDescriptions[profile.ProfileType]
	profile.DataCompleteness = dataCompleteness(byAnchor)
	profile.Prescriptions = buildPrescriptions(profile.ProfileType, profile.Ratios, profile.Gaps)

	return profile
}

// computeRatios compares every non-2k anchor with data against the reference
func computeRatios(byAnchor map[AnchorKey]PowerCurvePoint, ref float64) []PowerRatio {
	ratios := []PowerRatio{}
	for _, key := range Anchors {
		if key == Anchor2k {
			continue
		}
		p, ok := byAnchor[key]
		if !ok {
			continue
		}
		band := ExpectedRatios[key]
		pct := p.Watts / ref
		ratios = append(ratios, PowerRatio{
			Anchor:        key,
			ActualWatts:   p.Watts,
			ActualPercent: pct,
			ExpectedLow:   band.Low,
			ExpectedHigh:  band.High,
			Status:        ratioStatus(pct, band),
		})
	}
	return ratios
}

func ratioStatus(pct float64, band RatioBand) RatioStatus {
	switch {
	case pct > band.High:
		return StatusAbove
	case pct < band.Low:
		return StatusBelow
	default:
		return StatusWithin
	}
}

// Classify assigns a profile type from the ratio list. Rules are checked in
// order and the first match wins.
func Classify(ratios []PowerRatio) ProfileType {
	if len(ratios) < MinRatiosForProfile {
		return ProfileInsufficientData
	}

	var shortAbove, shortBelow, longAbove, longBelow, midBelow int
	for _, r := range ratios {
		switch {
		case shortAnchors[r.Anchor] && r.Status == StatusAbove:
			shortAbove++
		case shortAnchors[r.Anchor] && r.Status == StatusBelow:
			shortBelow++
		case longAnchors[r.Anchor] && r.Status == StatusAbove:
			longAbove++
		case longAnchors[r.Anchor] && r.Status == StatusBelow:
			longBelow++
		}
		if midAnchors[r.Anchor] && r.Status == StatusBelow {
			midBelow++
		}
	}

	switch {
	case shortAbove >= 2 && longBelow >= 2:
		return ProfileSprinter
	case longAbove >= 2 && shortBelow >= 2:
		return ProfileDiesel
	case midBelow >= 2 && (shortAbove >= 1 || longAbove >= 1):
		return ProfileThresholdGap
	default:
		return ProfileBalanced
	}
}

// detectGaps lists every non-2k anchor that has no point
func detectGaps(byAnchor map[AnchorKey]PowerCurvePoint) []ProfileGap {
	gaps := []ProfileGap{}
	for _, key := range Anchors {
		if key == Anchor2k {
			continue
		}
		if _, ok := byAnchor[key]; ok {
			continue
		}
		suggestion, ok := GapSuggestions[key]
		if !ok {
			suggestion = GenericGapSuggestion
		}
		gaps = append(gaps, ProfileGap{
			Anchor:     key,
			Label:      AnchorLabel(key),
			Suggestion: suggestion,
		})
	}
	return gaps
}

func dataCompleteness(byAnchor map[AnchorKey]PowerCurvePoint) float64 {
	filled := 0
	for _, key := range Anchors {
		if _, ok := byAnchor[key]; ok {
			filled++
		}
	}
	return float64(filled) / float64(len(Anchors))
}
