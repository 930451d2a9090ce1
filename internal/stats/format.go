package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary and its time-of-day histogram as aligned
// terminal output.
func Format(heading string, s Summary, h Histogram) string {
	var b strings.Builder
	b.WriteString(heading + "\n")

	if s.TotalEvents == 0 {
		b.WriteString("\n  No activities recorded. Run `hawk record` or `hawk track` first.\n")
		return b.String()
	}

	// Overview
	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %d\n", "activities", s.TotalEvents)
	fmt.Fprintf(&b, "  %-20s %d\n", "clusters", len(s.Clusters))
	fmt.Fprintf(&b, "  %-20s %s\n", "total time", FormatHMS(s.TotalSeconds))

	// Clusters
	b.WriteString("\nClusters\n")
	for _, cs := range s.Sorted() {
		fmt.Fprintf(&b, "  %-24s %s  %3d times  %3d%%\n",
			cs.Cluster, FormatHMS(cs.TotalSeconds), cs.Count, int(s.Share(cs.Cluster)*100+0.5))
	}

	// Time of day
	b.WriteString("\nTime of Day\n")
	total := h.Total()
	for _, bk := range Buckets {
		pct := 0
		if total > 0 {
			pct = int(h.Seconds(bk)/total*100 + 0.5)
		}
		fmt.Fprintf(&b, "  %-20s %s  %3d%%  %s\n", bk.Label(), FormatHMS(h.Seconds(bk)), pct, bar(pct))
	}

	return b.String()
}

// FormatHMS renders seconds as HH:MM:SS, truncating fractions. Negative
// totals render as 00:00:00; hours are not capped at 99.
func FormatHMS(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// bar draws a 20-cell proportional bar for pct.
func bar(pct int) string {
	n := pct / 5
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("#", n)
}
