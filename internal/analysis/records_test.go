package analysis

import (
	"testing"
)

func TestDetectPersonalRecords_FirstRecords(t *testing.T) {
	points := []PowerCurvePoint{point(Anchor2k, 300), point(Anchor5k, 240)}

	updates := DetectPersonalRecords(nil, points)

	if len(updates) != 2 {
		t.Fatalf("Expected 2 updates, got %d", len(updates))
	}
	if updates[0].Record.Anchor != Anchor2k || updates[1].Record.Anchor != Anchor5k {
		t.Errorf("Updates out of anchor order: %s, %s", updates[0].Record.Anchor, updates[1].Record.Anchor)
	}
	if updates[0].Previous != nil || updates[0].Improvement != nil {
		t.Error("First record should have no previous value")
	}
}

func TestDetectPersonalRecords_OnlyImprovements(t *testing.T) {
	current := map[AnchorKey]PersonalRecord{
		Anchor2k: {Anchor: Anchor2k, Watts: 280, WorkoutID: "old2k"},
		Anchor5k: {Anchor: Anchor5k, Watts: 250, WorkoutID: "old5k"},
	}
	points := []PowerCurvePoint{point(Anchor2k, 308), point(Anchor5k, 240)}

	updates := DetectPersonalRecords(current, points)

	if len(updates) != 1 {
		t.Fatalf("Expected 1 update, got %d", len(updates))
	}
	u := updates[0]
	if u.Record.Anchor != Anchor2k || u.Record.Watts != 308 {
		t.Errorf("Unexpected update %+v", u.Record)
	}
	if u.Previous == nil || u.Previous.WorkoutID != "old2k" {
		t.Errorf("Previous = %+v, want old2k", u.Previous)
	}
	if u.Improvement == nil || *u.Improvement != 10 {
		t.Errorf("Improvement = %v, want 10", u.Improvement)
	}
}

func TestDetectPersonalRecords_EqualIsNotARecord(t *testing.T) {
	current := map[AnchorKey]PersonalRecord{Anchor2k: {Anchor: Anchor2k, Watts: 300}}

	updates := DetectPersonalRecords(current, []PowerCurvePoint{point(Anchor2k, 300)})
	if len(updates) != 0 {
		t.Errorf("Matching the record should not be an update, got %+v", updates)
	}
}

func TestDetectPersonalRecords_SkipsManualAndUnanchored(t *testing.T) {
	manual := point(AnchorMaxWatts, 900)
	manual.Provenance = ProvenanceManual
	bucket := PowerCurvePoint{Distance: 3000, Watts: 260, Label: "3,000m"}

	updates := DetectPersonalRecords(nil, []PowerCurvePoint{manual, bucket})
	if len(updates) != 0 {
		t.Errorf("Expected no updates, got %+v", updates)
	}
}
