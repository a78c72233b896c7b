package analysis

// ZoneTesting marks a prescription of benchmark tests rather than training
const ZoneTesting Zone = "Testing"

// Prescription is a training recommendation for one zone
type Prescription struct {
	Zone      Zone
	Rationale string
	Workouts  []string
}

// GapTestingThreshold is the number of gaps that triggers a testing block
const GapTestingThreshold = 5

// maxGapTests caps how many gap tests the testing block lists
const maxGapTests = 3

var (
	prescriptionUT2 = Prescription{
		Zone:      ZoneUT2,
		Rationale: "Build the aerobic base that your long efforts are missing. Most of your weekly volume should be easy, conversational pace.",
		Workouts:  []string{"60:00 @ r18-20, 2k pace +20-22s", "3x20:00 / 2:00r @ r18-20", "15,000m steady @ r18"},
	}
	prescriptionUT1 = Prescription{
		Zone:      ZoneUT1,
		Rationale: "Bridge your aerobic base and your top-end power with sustained work just below threshold.",
		Workouts:  []string{"4x10:00 / 2:00r @ r20-22, 2k pace +14-16s", "2x5,000m / 4:00r @ r22"},
	}
	prescriptionAN = Prescription{
		Zone:      ZoneAN,
		Rationale: "Develop anaerobic power. Short maximal pieces with full recovery will lift your start and sprint.",
		Workouts:  []string{"8x250m / 2:00r all-out", "10x1:00 on / 2:00 off @ r32+", "20x10 strokes max / 50s easy"},
	}
	prescriptionTR = Prescription{
		Zone:      ZoneTR,
		Rationale: "Train at and slightly faster than 2k pace so your aerobic engine can carry race speed.",
		Workouts:  []string{"8x500m / 1:30r @ 2k pace", "4x1,000m / 3:00r @ 2k pace +2s", "3x(4x250m / 30s r) @ 2k pace -2s"},
	}
	prescriptionAT = Prescription{
		Zone:      ZoneAT,
		Rationale: "Raise your anaerobic threshold so the middle of your 2k stops costing you. Work at 2k pace +8-10s.",
		Workouts:  []string{"4x2,000m / 4:00r @ r24", "3x12:00 / 3:00r @ r24-26", "5x1,500m / 3:00r @ 2k pace +8s"},
	}
	prescriptionBaseline = Prescription{
		Zone:      ZoneTesting,
		Rationale: "Establish your benchmarks first. A 2k gives the reference power; a 6k and a 500m show how your curve bends either side of it.",
		Workouts:  []string{"2,000m test", "6,000m test", "500m test or 8x500m / 3:30r"},
	}
)

// anchorZones maps each anchor to the zone that trains it most directly
var anchorZones = map[AnchorKey]Zone{
	AnchorMaxWatts: ZoneAN,
	Anchor1Min:     ZoneAN,
	Anchor500m:     ZoneAN,
	Anchor1k:       ZoneTR,
	Anchor5k:       ZoneAT,
	Anchor6k:       ZoneAT,
	Anchor30Min:    ZoneUT1,
	Anchor10k:      ZoneUT1,
	AnchorHalf:     ZoneUT2,
	AnchorFull:     ZoneUT2,
}

var zonePrescriptions = map[Zone]Prescription{
	ZoneUT2: prescriptionUT2,
	ZoneUT1: prescriptionUT1,
	ZoneAT:  prescriptionAT,
	ZoneTR:  prescriptionTR,
	ZoneAN:  prescriptionAN,
}

// buildPrescriptions generates recommendations for a classified profile
func buildPrescriptions(pt ProfileType, ratios []PowerRatio, gaps []ProfileGap) []Prescription {
	var out []Prescription

	if len(gaps) >= GapTestingThreshold {
		out = append(out, gapTestingPrescription(gaps))
	}

	switch pt {
	case ProfileSprinter:
		out = append(out, clonePrescription(prescriptionUT2), clonePrescription(prescriptionUT1))
	case ProfileDiesel:
		out = append(out, clonePrescription(prescriptionAN), clonePrescription(prescriptionTR))
	case ProfileThresholdGap:
		out = append(out, clonePrescription(prescriptionAT))
	case ProfileBalanced:
		if p, ok := weakestAnchorPrescription(ratios); ok {
			out = append(out, p)
		}
	case ProfileInsufficientData:
		out = append(out, clonePrescription(prescriptionBaseline))
	}

	return out
}

func gapTestingPrescription(gaps []ProfileGap) Prescription {
	n := len(gaps)
	if n > maxGapTests {
		n = maxGapTests
	}
	tests := make([]string, 0, n)
	for _, g := range gaps[:n] {
		tests = append(tests, g.Suggestion)
	}
	return Prescription{
		Zone:      ZoneTesting,
		Rationale: "Your power curve has many gaps. Fill them in so the profile reflects your real strengths.",
		Workouts:  tests,
	}
}

// weakestAnchorPrescription targets the anchor furthest below the middle of
// its expected band. Ties go to the shorter anchor.
func weakestAnchorPrescription(ratios []PowerRatio) (Prescription, bool) {
	if len(ratios) == 0 {
		return Prescription{}, false
	}

	weakest := ratios[0]
	worst := deviation(weakest)
	for _, r := range ratios[1:] {
		if d := deviation(r); d < worst {
			weakest, worst = r, d
		}
	}

	zone, ok := anchorZones[weakest.Anchor]
	if !ok {
		return Prescription{}, false
	}
	p := clonePrescription(zonePrescriptions[zone])
	p.Rationale = "Your weakest point is " + AnchorLabel(weakest.Anchor) + ". " + p.Rationale
	return p, true
}

// deviation is the distance of a ratio from the middle of its band, in
// fractions of 2k watts
func deviation(r PowerRatio) float64 {
	return r.ActualPercent - RatioBand{r.ExpectedLow, r.ExpectedHigh}.Midpoint()
}

// clonePrescription copies the workouts slice so callers can't mutate the templates
func clonePrescription(p Prescription) Prescription {
	p.Workouts = append([]string(nil), p.Workouts...)
	return p
}
