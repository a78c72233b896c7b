package analysis

import (
	"math"
	"time"
)

// PersonalRecord is the best power ever recorded for an anchor
type PersonalRecord struct {
	Anchor            AnchorKey
	Watts             float64
	PaceSecondsPer500 float64
	Distance          float64
	WorkoutID         string
	AchievedAt        time.Time
	Provenance        Provenance
}

// RecordUpdate is a new personal record and what it replaced
type RecordUpdate struct {
	Record      PersonalRecord
	Previous    *PersonalRecord
	Improvement *float64 // percent watts gain over the previous record
}

// RecordFromPoint converts an anchored best-effort point into a record
func RecordFromPoint(p PowerCurvePoint) (PersonalRecord, bool) {
	key, ok := p.Anchor()
	if !ok || p.Provenance == ProvenanceManual || p.Watts <= 0 {
		return PersonalRecord{}, false
	}
	return PersonalRecord{
		Anchor:            key,
		Watts:             p.Watts,
		PaceSecondsPer500: p.PaceSecondsPer500,
		Distance:          p.Distance,
		WorkoutID:         p.SourceWorkoutID,
		AchievedAt:        p.Date,
		Provenance:        p.Provenance,
	}, true
}

// DetectPersonalRecords compares best-effort points against the current
// records and returns one update per anchor that was beaten, in anchor order.
// Manually entered points never count as records.
func DetectPersonalRecords(current map[AnchorKey]PersonalRecord, points []PowerCurvePoint) []RecordUpdate {
	candidates := make(map[AnchorKey]PersonalRecord)
	for _, p := range points {
		rec, ok := RecordFromPoint(p)
		if !ok {
			continue
		}
		if best, seen := candidates[rec.Anchor]; seen && best.Watts >= rec.Watts {
			continue
		}
		candidates[rec.Anchor] = rec
	}

	var updates []RecordUpdate
	for _, key := range Anchors {
		rec, ok := candidates[key]
		if !ok {
			continue
		}

		prev, hasPrev := current[key]
		if !hasPrev || prev.Watts <= 0 {
			updates = append(updates, RecordUpdate{Record: rec})
			continue
		}
		if rec.Watts <= prev.Watts {
			continue
		}

		p := prev
		improvement := math.Round((rec.Watts-prev.Watts)/prev.Watts*1000) / 10
		updates = append(updates, RecordUpdate{
			Record:      rec,
			Previous:    &p,
			Improvement: &improvement,
		})
	}

	return updates
}
