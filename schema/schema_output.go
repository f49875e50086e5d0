package schema

// EnrichedInterval adds presentation data to an Interval.
type EnrichedInterval struct {
	Index int `json:"index"`
	Days  int `json:"days"`
	Interval
}

// EnrichedWorkerProgress adds presentation data to a WorkerProgress.
type EnrichedWorkerProgress struct {
	Label string `json:"label"`
	Gap   int    `json:"gap"` // Actual minus expected on the last point
	WorkerProgress
}

// GetPaceLabel returns a plain text label for a pace.
func GetPaceLabel(p Pace) string {
	switch p {
	case AheadPace:
		return "Ahead"
	case OnTrackPace:
		return "On track"
	case BehindPace:
		return "Behind"
	default:
		return "No data"
	}
}

// LastGap returns actual minus expected on the last point of a curve, or 0 without points.
func LastGap(points []ProgressPoint) int {
	if len(points) == 0 {
		return 0
	}
	last := points[len(points)-1]
	return last.Actual - last.Expected
}

// EnrichIntervals adds a 1-based index and the day count to a list of intervals.
func EnrichIntervals(intervals []Interval) []EnrichedInterval {
	output := make([]EnrichedInterval, len(intervals))
	for i, iv := range intervals {
		output[i] = EnrichedInterval{
			Index:    i + 1,
			Days:     iv.Days(),
			Interval: iv,
		}
	}
	return output
}

// EnrichProgress adds the pace label and final gap to a list of worker curves.
func EnrichProgress(progress []WorkerProgress) []EnrichedWorkerProgress {
	output := make([]EnrichedWorkerProgress, len(progress))
	for i, p := range progress {
		output[i] = EnrichedWorkerProgress{
			Label:          GetPaceLabel(p.Pace),
			Gap:            LastGap(p.Points),
			WorkerProgress: p,
		}
	}
	return output
}
