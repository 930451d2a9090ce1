package narrative

import (
	"fmt"
	"strings"

	"github.com/suykerbuyk/habit-hawk/internal/anomaly"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
)

// Compose builds the prompt for mode. Praise prompts reference the
// aggregate stats only; critique prompts add the numbered instructions,
// period deltas and the time-of-day histogram of the whole history.
func Compose(in Input, mode Mode) string {
	var b strings.Builder

	if mode == Praise {
		b.WriteString("Hawk Eye rarely enters praise mode, and this is one of those times.\n")
		b.WriteString("Based on the data below, objectively praise the user's effort.\n")
		b.WriteString("Avoid emotional wording and keep the third-person voice (\"Hawk analyses that ...\").\n\n")
		fmt.Fprintf(&b, "Period: %s\n\n", in.Period)
		writeActivityLog(&b, in.Stats)
		return b.String()
	}

	days := in.AbsenceDays
	if days <= 0 {
		days = 30
	}

	b.WriteString("The data below is the user's activity record.\n")
	b.WriteString("Based on it, Hawk points out the following in a strict, unemotional third-person tone.\n")
	b.WriteString("1. Score this period's productivity out of 100.\n")
	b.WriteString("2. Point out activities whose time decreased or stopped completely.\n")
	b.WriteString("3. Point out imbalance such as sudden increases or over-concentration on one activity.\n")
	if len(in.Absences.LongAbsent) > 0 {
		fmt.Fprintf(&b, "4. These activities have not been recorded for more than %d days; point this out: %s\n",
			days, strings.Join(in.Absences.LongAbsent, ", "))
	}
	if len(in.Absences.Missing) > 0 {
		fmt.Fprintf(&b, "5. These clusters have never been recorded; point this out: %s\n",
			strings.Join(in.Absences.Missing, ", "))
	}
	b.WriteString("6. From the time-of-day data, point out skew in the daily rhythm and how to improve it.\n\n")

	fmt.Fprintf(&b, "Period: %s\n\n", in.Period)
	writeActivityLog(&b, in.Stats)
	writeDeltas(&b, in.Deltas)
	writeTimeOfDay(&b, in.Histogram)

	return b.String()
}

func writeActivityLog(b *strings.Builder, s stats.Summary) {
	b.WriteString("### Activities Log\n")
	for _, cs := range s.Sorted() {
		fmt.Fprintf(b, "- %s: %.2f seconds (%d times)\n", cs.Cluster, cs.TotalSeconds, cs.Count)
	}
}

func writeDeltas(b *strings.Builder, deltas []anomaly.Delta) {
	notable := anomaly.Notable(deltas)
	if len(notable) == 0 {
		return
	}
	b.WriteString("\n### Change vs Previous Period\n")
	for _, d := range notable {
		switch d.Direction {
		case anomaly.New, anomaly.Stopped:
			fmt.Fprintf(b, "- %s: %.0f -> %.0f seconds (%s)\n", d.Cluster, d.PrevSeconds, d.CurSeconds, d.Direction)
		default:
			fmt.Fprintf(b, "- %s: %.0f -> %.0f seconds (%+.1f%%, %s)\n", d.Cluster, d.PrevSeconds, d.CurSeconds, d.DeltaPct, d.Direction)
		}
	}
}

func writeTimeOfDay(b *strings.Builder, h stats.Histogram) {
	b.WriteString("\n### Time of Day (all history)\n")
	for _, bk := range stats.Buckets {
		fmt.Fprintf(b, "- %s: %.2f seconds\n", bk.Label(), h.Seconds(bk))
	}
}
