package analysis

// Zone is a rowing training intensity zone
type Zone string

const (
	ZoneUT2 Zone = "UT2"
	ZoneUT1 Zone = "UT1"
	ZoneAT  Zone = "AT"
	ZoneTR  Zone = "TR"
	ZoneAN  Zone = "AN"
)

// TrainingZone is a band of power as a fraction of 2k watts
type TrainingZone struct {
	Zone   Zone
	Name   string
	MinPct float64
	MaxPct float64 // exclusive; 0 means unbounded
}

// TrainingZones are ordered easiest to hardest
var TrainingZones = []TrainingZone{
	{ZoneUT2, "Utilisation 2", 0, 0.65},
	{ZoneUT1, "Utilisation 1", 0.65, 0.75},
	{ZoneAT, "Anaerobic Threshold", 0.75, 0.85},
	{ZoneTR, "Transport", 0.85, 1.00},
	{ZoneAN, "Anaerobic", 1.00, 0},
}

// MaxStrokeGap drops stroke intervals longer than this (paused monitor)
const MaxStrokeGap = 30.0

// Zone distribution sources
const (
	ZoneSourceStrokes   = "strokes"
	ZoneSourceIntervals = "intervals"
	ZoneSourceSummary   = "summary"
)

// ZoneDistribution is time spent per zone for one or more workouts
type ZoneDistribution struct {
	Source       string
	Seconds      map[Zone]float64
	TotalSeconds float64
}

// Percent returns the share of total time spent in a zone
func (d ZoneDistribution) Percent(z Zone) float64 {
	if d.TotalSeconds <= 0 {
		return 0
	}
	return d.Seconds[z] / d.TotalSeconds
}

// ZoneForWatts classifies a power output against the 2k reference
func ZoneForWatts(watts, ref2k float64) Zone {
	if ref2k <= 0 {
		return ZoneUT2
	}
	pct := watts / ref2k
	for _, tz := range TrainingZones {
		if pct >= tz.MinPct && (tz.MaxPct == 0 || pct < tz.MaxPct) {
			return tz.Zone
		}
	}
	return ZoneUT2
}

// TimeInZones buckets a workout's work time into training zones. Stroke
// data is preferred, then interval summaries, then the workout average.
func TimeInZones(w WorkoutRecord, ref2k float64) ZoneDistribution {
	dist := ZoneDistribution{Seconds: make(map[Zone]float64)}
	if ref2k <= 0 {
		return dist
	}

	if len(w.Strokes) > 1 {
		dist.Source = ZoneSourceStrokes
		for i := 1; i < len(w.Strokes); i++ {
			delta := w.Strokes[i].TimeSeconds - w.Strokes[i-1].TimeSeconds
			if delta <= 0 || delta > MaxStrokeGap {
				continue
			}
			dist.add(ZoneForWatts(w.Strokes[i].Watts, ref2k), delta)
		}
		if dist.TotalSeconds > 0 {
			return dist
		}
	}

	dist = ZoneDistribution{Seconds: make(map[Zone]float64)}
	for _, seg := range w.Segments {
		if seg.Kind == SegmentRest {
			continue
		}
		secs := seg.Seconds()
		pace := PaceFromDistanceTime(seg.Distance, secs)
		if pace <= 0 {
			continue
		}
		dist.Source = ZoneSourceIntervals
		dist.add(ZoneForWatts(WattsFromPace(pace), ref2k), secs)
	}
	if dist.TotalSeconds > 0 {
		return dist
	}

	pace := PaceFromDistanceTime(w.Distance, w.DurationSeconds)
	if pace <= 0 {
		return ZoneDistribution{Seconds: make(map[Zone]float64)}
	}
	dist.Source = ZoneSourceSummary
	dist.add(ZoneForWatts(WattsFromPace(pace), ref2k), w.DurationSeconds)
	return dist
}

// AggregateZones sums several distributions into one
func AggregateZones(dists []ZoneDistribution) ZoneDistribution {
	total := ZoneDistribution{Seconds: make(map[Zone]float64)}
	for _, d := range dists {
		for z, secs := range d.Seconds {
			total.add(z, secs)
		}
	}
	return total
}

func (d *ZoneDistribution) add(z Zone, secs float64) {
	d.Seconds[z] += secs
	d.TotalSeconds += secs
}
