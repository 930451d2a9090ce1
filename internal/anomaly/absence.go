package anomaly

import (
	"sort"
	"strings"
	"time"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/canon"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
)

// DefaultThreshold is how long a cluster may go unrecorded before it is
// reported as long-absent.
const DefaultThreshold = 30 * day

const day = 24 * time.Hour

// Absences lists the clusters a report should call out.
type Absences struct {
	// LongAbsent clusters have history whose latest end is more than
	// Threshold ago counted in whole days, and no occurrence in the report
	// period. Sorted by name.
	LongAbsent []string
	// Missing clusters are configured but never recorded. Table order.
	Missing []string
}

// Detector finds absent clusters in the full event history.
type Detector struct {
	Canon     *canon.Canonicalizer
	Threshold time.Duration
}

// NewDetector returns a Detector using c. A non-positive threshold falls
// back to DefaultThreshold.
func NewDetector(c *canon.Canonicalizer, threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Canon: c, Threshold: threshold}
}

// Detect compares the whole history against the period summary. Elapsed
// time is truncated to whole days before it is compared with Threshold, so
// with the default a cluster needs 31 full days of silence. The result
// depends only on its inputs.
func (d *Detector) Detect(all []activity.Event, period stats.Summary, now time.Time) Absences {
	lastEnd := d.LastSeen(all)

	var a Absences
	for name, last := range lastEnd {
		if now.Sub(last).Truncate(day) > d.Threshold && !period.Has(name) {
			a.LongAbsent = append(a.LongAbsent, name)
		}
	}
	sort.Strings(a.LongAbsent)

	for _, name := range d.Canon.Table().Names() {
		if _, seen := lastEnd[name]; !seen {
			a.Missing = append(a.Missing, name)
		}
	}

	return a
}

// DetectAbsences runs Detect with the default threshold. The configured
// cluster names come from c's table.
func DetectAbsences(all []activity.Event, period stats.Summary, now time.Time, c *canon.Canonicalizer) Absences {
	return NewDetector(c, 0).Detect(all, period, now)
}

// LastSeen returns the latest end time per cluster across all events.
func (d *Detector) LastSeen(all []activity.Event) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, e := range all {
		name := d.Canon.Canonicalize(strings.TrimSpace(e.Label))
		if prev, ok := out[name]; !ok || e.End.After(prev) {
			out[name] = e.End
		}
	}
	return out
}
