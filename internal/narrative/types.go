package narrative

import (
	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/anomaly"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
)

// Mode selects the tone of the narrative.
type Mode int

const (
	Critique Mode = iota
	Praise
)

func (m Mode) String() string {
	if m == Praise {
		return "praise"
	}
	return "critique"
}

// Rand is the random source used to draw the mode. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// DefaultPraiseProbability is the chance that a report praises instead of
// critiques.
const DefaultPraiseProbability = 0.05

// Input is everything the prompt may reference.
type Input struct {
	Period      activity.Period
	Stats       stats.Summary
	Histogram   stats.Histogram // whole history up to the period end
	Absences    anomaly.Absences
	Deltas      []anomaly.Delta
	AbsenceDays int // threshold quoted in the long-absent instruction
}
