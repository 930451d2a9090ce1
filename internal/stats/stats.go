package stats

import (
	"sort"
	"strings"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
)

// Canonicalizer maps a raw label to its cluster name.
type Canonicalizer interface {
	Canonicalize(raw string) string
}

// ClusterStat holds per-cluster totals for one aggregation run.
type ClusterStat struct {
	Cluster      string
	TotalSeconds float64
	Count        int
}

// Summary holds aggregate metrics computed from a set of events.
type Summary struct {
	Clusters     map[string]ClusterStat
	TotalSeconds float64
	TotalEvents  int
}

// Aggregate folds events into per-cluster totals. Durations are signed
// End-Start differences; inverted legacy rows reduce the total.
func Aggregate(events []activity.Event, c Canonicalizer) Summary {
	s := Summary{Clusters: make(map[string]ClusterStat)}

	for _, e := range events {
		name := c.Canonicalize(strings.TrimSpace(e.Label))
		secs := e.Seconds()

		cs := s.Clusters[name]
		cs.Cluster = name
		cs.TotalSeconds += secs
		cs.Count++
		s.Clusters[name] = cs

		s.TotalSeconds += secs
		s.TotalEvents++
	}

	return s
}

// Sorted returns the cluster stats ordered lexicographically by name.
func (s Summary) Sorted() []ClusterStat {
	out := make([]ClusterStat, 0, len(s.Clusters))
	for _, cs := range s.Clusters {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cluster < out[j].Cluster
	})
	return out
}

// Has reports whether the cluster occurred at least once.
func (s Summary) Has(cluster string) bool {
	_, ok := s.Clusters[cluster]
	return ok
}

// Share returns the cluster's fraction of the summed duration, 0 when the
// total is not positive.
func (s Summary) Share(cluster string) float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	return s.Clusters[cluster].TotalSeconds / s.TotalSeconds
}
