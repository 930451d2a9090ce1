package anomaly

import (
	"math"
	"sort"

	"github.com/suykerbuyk/habit-hawk/internal/stats"
)

// Direction classifies how a cluster moved between two periods.
type Direction string

const (
	New       Direction = "new"
	Stopped   Direction = "stopped"
	Increased Direction = "increased"
	Decreased Direction = "decreased"
	Stable    Direction = "stable"
)

// stableBand is the relative change (percent) below which a cluster is
// considered stable.
const stableBand = 10.0

// Delta is one cluster's change from the previous period to the current.
type Delta struct {
	Cluster     string
	PrevSeconds float64
	CurSeconds  float64
	DeltaPct    float64 // 0 for New and Stopped
	Direction   Direction
}

// Compare reports per-cluster movement between two period summaries,
// sorted by cluster name.
func Compare(prev, cur stats.Summary) []Delta {
	names := make(map[string]bool)
	for n := range prev.Clusters {
		names[n] = true
	}
	for n := range cur.Clusters {
		names[n] = true
	}

	deltas := make([]Delta, 0, len(names))
	for n := range names {
		p, inPrev := prev.Clusters[n]
		c, inCur := cur.Clusters[n]
		d := Delta{Cluster: n, PrevSeconds: p.TotalSeconds, CurSeconds: c.TotalSeconds}
		d.Direction, d.DeltaPct = direction(p.TotalSeconds, c.TotalSeconds, inPrev, inCur)
		deltas = append(deltas, d)
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Cluster < deltas[j].Cluster
	})
	return deltas
}

func direction(prev, cur float64, inPrev, inCur bool) (Direction, float64) {
	switch {
	case !inPrev:
		return New, 0
	case !inCur:
		return Stopped, 0
	case prev <= 0:
		return Stable, 0
	}

	delta := (cur - prev) / prev * 100
	if math.Abs(delta) < stableBand {
		return Stable, delta
	}
	if delta > 0 {
		return Increased, delta
	}
	return Decreased, delta
}

// Notable filters out stable clusters.
func Notable(deltas []Delta) []Delta {
	var out []Delta
	for _, d := range deltas {
		if d.Direction != Stable {
			out = append(out, d)
		}
	}
	return out
}
