package analysis

import (
	"math"
	"strings"
	"testing"
)

func point(key AnchorKey, watts float64) PowerCurvePoint {
	return PowerCurvePoint{
		Distance:          AnchorDistances[key],
		Watts:             watts,
		PaceSecondsPer500: PaceFromWatts(watts),
		SourceWorkoutID:   string(key),
		Provenance:        ProvenanceWholeWorkout,
		Label:             AnchorLabel(key),
		AnchorKey:         anchorPtr(key),
	}
}

func findRatio(ratios []PowerRatio, key AnchorKey) *PowerRatio {
	for i := range ratios {
		if ratios[i].Anchor == key {
			return &ratios[i]
		}
	}
	return nil
}

func hasGap(gaps []ProfileGap, key AnchorKey) bool {
	for _, g := range gaps {
		if g.Anchor == key {
			return true
		}
	}
	return false
}

func TestComputePowerProfile_InsufficientData(t *testing.T) {
	profile := ComputePowerProfile(nil, 0)

	if profile.ProfileType != ProfileInsufficientData {
		t.Errorf("ProfileType = %q, want %q", profile.ProfileType, ProfileInsufficientData)
	}
	if profile.Anchor2kWatts != nil {
		t.Errorf("Anchor2kWatts = %v, want nil", *profile.Anchor2kWatts)
	}
	if len(profile.Ratios) != 0 {
		t.Errorf("Expected no ratios, got %d", len(profile.Ratios))
	}
	if profile.DataCompleteness != 0 {
		t.Errorf("DataCompleteness = %v, want 0", profile.DataCompleteness)
	}
	if profile.ProfileDescription != NoReferenceDescription {
		t.Errorf("Unexpected description %q", profile.ProfileDescription)
	}
	if len(profile.Prescriptions) != 1 || profile.Prescriptions[0].Zone != ZoneTesting {
		t.Errorf("Expected a single testing prescription, got %+v", profile.Prescriptions)
	}
}

func TestComputePowerProfile_NoReferenceKeepsMaxWatts(t *testing.T) {
	mw := point(AnchorMaxWatts, 720)
	mw.Distance = 0
	profile := ComputePowerProfile([]PowerCurvePoint{mw, point(Anchor5k, 240)}, -5)

	if profile.ProfileType != ProfileInsufficientData {
		t.Errorf("ProfileType = %q, want %q", profile.ProfileType, ProfileInsufficientData)
	}
	if profile.MaxWatts == nil || *profile.MaxWatts != 720 {
		t.Errorf("MaxWatts = %v, want 720", profile.MaxWatts)
	}
	if profile.DataCompleteness != 0 {
		t.Errorf("DataCompleteness = %v, want 0", profile.DataCompleteness)
	}
}

func TestComputePowerProfile_FallbackReference(t *testing.T) {
	profile := ComputePowerProfile([]PowerCurvePoint{point(Anchor5k, 240)}, 300)

	if profile.Anchor2kWatts == nil || *profile.Anchor2kWatts != 300 {
		t.Fatalf("Anchor2kWatts = %v, want 300 from fallback", profile.Anchor2kWatts)
	}

	// A real 2k point takes priority over the fallback
	profile = ComputePowerProfile([]PowerCurvePoint{point(Anchor2k, 280), point(Anchor5k, 240)}, 300)
	if *profile.Anchor2kWatts != 280 {
		t.Errorf("Anchor2kWatts = %v, want 280 from the 2k point", *profile.Anchor2kWatts)
	}
}

func TestComputePowerProfile_RatioCorrectness(t *testing.T) {
	profile := ComputePowerProfile([]PowerCurvePoint{point(Anchor2k, 300), point(Anchor5k, 240)}, 0)

	r := findRatio(profile.Ratios, Anchor5k)
	if r == nil {
		t.Fatal("Expected a 5k ratio")
	}
	if math.Abs(r.ActualPercent-0.80) > 1e-9 {
		t.Errorf("ActualPercent = %v, want 0.80", r.ActualPercent)
	}
	if r.Status != StatusWithin {
		t.Errorf("Status = %q, want %q", r.Status, StatusWithin)
	}
	if r.ExpectedLow != 0.80 || r.ExpectedHigh != 0.85 {
		t.Errorf("Band = %v-%v, want 0.80-0.85", r.ExpectedLow, r.ExpectedHigh)
	}
	if findRatio(profile.Ratios, Anchor2k) != nil {
		t.Error("2k must never appear in ratios")
	}
}

func TestRatioStatus(t *testing.T) {
	band := ExpectedRatios[Anchor5k]
	tests := []struct {
		pct  float64
		want RatioStatus
	}{
		{0.79, StatusBelow},
		{0.80, StatusWithin},
		{0.85, StatusWithin},
		{0.86, StatusAbove},
	}
	for _, tt := range tests {
		if got := ratioStatus(tt.pct, band); got != tt.want {
			t.Errorf("ratioStatus(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestComputePowerProfile_Classification(t *testing.T) {
	tests := []struct {
		name   string
		points []PowerCurvePoint
		want   ProfileType
	}{
		{
			name: "sprinter",
			points: []PowerCurvePoint{
				point(Anchor500m, 420), point(Anchor1k, 360), point(Anchor2k, 300),
				point(Anchor5k, 230), point(Anchor6k, 220), point(Anchor10k, 195),
			},
			want: ProfileSprinter,
		},
		{
			name: "diesel",
			points: []PowerCurvePoint{
				point(Anchor500m, 360), point(Anchor1k, 320), point(Anchor2k, 300),
				point(Anchor5k, 260), point(Anchor6k, 250), point(Anchor10k, 230),
			},
			want: ProfileDiesel,
		},
		{
			name: "threshold gap",
			points: []PowerCurvePoint{
				point(Anchor1k, 360), point(Anchor2k, 300),
				point(Anchor5k, 230), point(Anchor6k, 220),
			},
			want: ProfileThresholdGap,
		},
		{
			name: "balanced",
			points: []PowerCurvePoint{
				point(Anchor1k, 339), point(Anchor2k, 300),
				point(Anchor5k, 247), point(Anchor6k, 237), point(Anchor10k, 200),
			},
			want: ProfileBalanced,
		},
		{
			name:   "too few ratios",
			points: []PowerCurvePoint{point(Anchor2k, 300), point(Anchor5k, 240), point(Anchor6k, 230)},
			want:   ProfileInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ComputePowerProfile(tt.points, 0)
			if profile.ProfileType != tt.want {
				t.Errorf("ProfileType = %q, want %q (ratios %+v)", profile.ProfileType, tt.want, profile.Ratios)
			}
			if profile.ProfileDescription != ProfileDescriptions[tt.want] {
				t.Errorf("Description does not match profile type %q", tt.want)
			}
			if profile.Anchor2kWatts == nil {
				t.Error("Anchor2kWatts should be set when a 2k point exists")
			}
		})
	}
}

func TestComputePowerProfile_Gaps(t *testing.T) {
	profile := ComputePowerProfile([]PowerCurvePoint{point(Anchor2k, 300), point(Anchor5k, 240)}, 0)

	for _, key := range []AnchorKey{Anchor500m, Anchor10k, AnchorHalf} {
		if !hasGap(profile.Gaps, key) {
			t.Errorf("Expected gap for %s", key)
		}
	}
	for _, key := range []AnchorKey{Anchor2k, Anchor5k} {
		if hasGap(profile.Gaps, key) {
			t.Errorf("Unexpected gap for %s", key)
		}
	}
	if len(profile.Gaps) != 9 {
		t.Errorf("Expected 9 gaps, got %d", len(profile.Gaps))
	}
	for _, g := range profile.Gaps {
		if g.Suggestion != GapSuggestions[g.Anchor] {
			t.Errorf("Gap %s has suggestion %q", g.Anchor, g.Suggestion)
		}
	}
}

func TestComputePowerProfile_Completeness(t *testing.T) {
	profile := ComputePowerProfile([]PowerCurvePoint{
		point(Anchor2k, 300), point(Anchor5k, 240), point(Anchor6k, 232),
	}, 0)

	if math.Abs(profile.DataCompleteness-3.0/11.0) > 1e-9 {
		t.Errorf("DataCompleteness = %v, want %v", profile.DataCompleteness, 3.0/11.0)
	}
}

func TestComputePowerProfile_Prescriptions(t *testing.T) {
	zones := func(ps []Prescription) []Zone {
		var out []Zone
		for _, p := range ps {
			out = append(out, p.Zone)
		}
		return out
	}

	full := func(extra ...PowerCurvePoint) []PowerCurvePoint {
		mw := point(AnchorMaxWatts, 690)
		mw.Distance = 0
		base := []PowerCurvePoint{
			mw, point(Anchor1Min, 450), point(Anchor30Min, 219),
			point(AnchorHalf, 195), point(AnchorFull, 174),
		}
		return append(base, extra...)
	}

	tests := []struct {
		name   string
		points []PowerCurvePoint
		want   []Zone
	}{
		{
			name: "sprinter gets aerobic work",
			points: full(point(Anchor500m, 420), point(Anchor1k, 360), point(Anchor2k, 300),
				point(Anchor5k, 230), point(Anchor6k, 220), point(Anchor10k, 195)),
			want: []Zone{ZoneUT2, ZoneUT1},
		},
		{
			name: "diesel gets anaerobic work",
			points: full(point(Anchor500m, 360), point(Anchor1k, 320), point(Anchor2k, 300),
				point(Anchor5k, 260), point(Anchor6k, 250), point(Anchor10k, 230)),
			want: []Zone{ZoneAN, ZoneTR},
		},
		{
			name: "threshold gap with many gaps gets testing first",
			points: []PowerCurvePoint{
				point(Anchor1k, 360), point(Anchor2k, 300), point(Anchor5k, 230), point(Anchor6k, 220),
			},
			want: []Zone{ZoneTesting, ZoneAT},
		},
		{
			name: "balanced targets weakest anchor",
			points: []PowerCurvePoint{
				point(Anchor1k, 339), point(Anchor2k, 300),
				point(Anchor5k, 247), point(Anchor6k, 237), point(Anchor10k, 200),
			},
			want: []Zone{ZoneTesting, ZoneUT1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ComputePowerProfile(tt.points, 0)
			got := zones(profile.Prescriptions)
			if len(got) != len(tt.want) {
				t.Fatalf("Zones = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Zones = %v, want %v", got, tt.want)
					break
				}
			}
			for _, p := range profile.Prescriptions {
				if p.Rationale == "" || len(p.Workouts) == 0 {
					t.Errorf("Prescription %s is missing rationale or workouts", p.Zone)
				}
			}
		})
	}
}

func TestComputePowerProfile_GapTestingListsThree(t *testing.T) {
	profile := ComputePowerProfile([]PowerCurvePoint{
		point(Anchor1k, 339), point(Anchor2k, 300),
		point(Anchor5k, 247), point(Anchor6k, 237), point(Anchor10k, 200),
	}, 0)

	tests := profile.Prescriptions[0]
	if tests.Zone != ZoneTesting {
		t.Fatalf("First prescription zone = %s, want Testing", tests.Zone)
	}
	if len(tests.Workouts) != 3 {
		t.Errorf("Expected 3 gap tests, got %d", len(tests.Workouts))
	}
	if tests.Workouts[0] != GapSuggestions[AnchorMaxWatts] {
		t.Errorf("First gap test = %q, want max watts suggestion", tests.Workouts[0])
	}
}

func TestComputePowerProfile_TooFewRatiosPrescribesTesting(t *testing.T) {
	profile := ComputePowerProfile([]PowerCurvePoint{point(Anchor2k, 300), point(Anchor5k, 240)}, 0)

	if profile.ProfileType != ProfileInsufficientData {
		t.Fatalf("ProfileType = %q, want insufficient_data", profile.ProfileType)
	}
	if len(profile.Prescriptions) != 2 {
		t.Fatalf("Expected gap tests then baseline tests, got %+v", profile.Prescriptions)
	}

	gapTests := profile.Prescriptions[0]
	if gapTests.Zone != ZoneTesting || len(gapTests.Workouts) != 3 {
		t.Errorf("First prescription should list 3 gap tests, got %+v", gapTests)
	}
	if gapTests.Workouts[0] != GapSuggestions[AnchorMaxWatts] {
		t.Errorf("First gap test = %q, want max watts suggestion", gapTests.Workouts[0])
	}

	baseline := profile.Prescriptions[1]
	if baseline.Zone != ZoneTesting || len(baseline.Workouts) != 3 {
		t.Errorf("Baseline testing should list 2k, 6k and 500m tests, got %+v", baseline)
	}
}

func TestComputePowerProfile_WeakestAnchorByBandDistance(t *testing.T) {
	// max watts is 0.20 under the middle of its band, the 5k 0.085
	mw := point(AnchorMaxWatts, 630)
	mw.Distance = 0
	profile := ComputePowerProfile([]PowerCurvePoint{
		mw, point(Anchor1k, 342), point(Anchor2k, 300), point(Anchor5k, 222),
	}, 0)

	if profile.ProfileType != ProfileBalanced {
		t.Fatalf("ProfileType = %q, want balanced", profile.ProfileType)
	}
	if len(profile.Prescriptions) != 2 {
		t.Fatalf("Expected testing and one targeted block, got %+v", profile.Prescriptions)
	}
	target := profile.Prescriptions[1]
	if target.Zone != ZoneAN {
		t.Errorf("Zone = %s, want AN", target.Zone)
	}
	if !strings.Contains(target.Rationale, "Max Watts") {
		t.Errorf("Rationale = %q, want it to name Max Watts", target.Rationale)
	}
}

func TestComputePowerProfile_PrescriptionsAreCopies(t *testing.T) {
	pts := []PowerCurvePoint{
		point(Anchor1k, 360), point(Anchor2k, 300), point(Anchor5k, 230), point(Anchor6k, 220),
	}
	first := ComputePowerProfile(pts, 0)
	first.Prescriptions[1].Workouts[0] = "mutated"

	second := ComputePowerProfile(pts, 0)
	if second.Prescriptions[1].Workouts[0] == "mutated" {
		t.Error("Mutating a returned prescription leaked into later results")
	}
}
