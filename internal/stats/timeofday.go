package stats

import "github.com/suykerbuyk/habit-hawk/internal/activity"

// Bucket is a fixed six-hour slice of the day.
type Bucket int

const (
	Night     Bucket = iota // 00:00-06:00
	Morning                 // 06:00-12:00
	Afternoon               // 12:00-18:00
	Evening                 // 18:00-24:00

	numBuckets
)

// Buckets lists every bucket in chronological order.
var Buckets = [numBuckets]Bucket{Night, Morning, Afternoon, Evening}

func (b Bucket) String() string {
	switch b {
	case Night:
		return "night"
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	default:
		return "unknown"
	}
}

// Label includes the hour range, e.g. "morning (6-12h)".
func (b Bucket) Label() string {
	switch b {
	case Night:
		return "night (0-6h)"
	case Morning:
		return "morning (6-12h)"
	case Afternoon:
		return "afternoon (12-18h)"
	case Evening:
		return "evening (18-24h)"
	default:
		return "unknown"
	}
}

// BucketFor maps an hour of day (0-23) to its bucket.
func BucketFor(hour int) Bucket {
	switch {
	case hour < 6:
		return Night
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// Histogram accumulates seconds per time-of-day bucket. It is a value type
// so two histograms compare with ==.
type Histogram [numBuckets]float64

// Seconds returns the accumulated seconds for b.
func (h Histogram) Seconds(b Bucket) float64 {
	return h[b]
}

// Total returns the sum over all buckets.
func (h Histogram) Total() float64 {
	var t float64
	for _, v := range h {
		t += v
	}
	return t
}

// TimeOfDay buckets each event's whole duration by the hour of its start.
func TimeOfDay(events []activity.Event) Histogram {
	var h Histogram
	for _, e := range events {
		h[BucketFor(e.Start.Hour())] += e.Seconds()
	}
	return h
}
