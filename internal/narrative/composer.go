// Package narrative drafts the report commentary: it draws praise or
// critique mode, builds the prompt and asks a generator for the text.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/suykerbuyk/habit-hawk/internal/generation"
	"github.com/suykerbuyk/habit-hawk/internal/sanitize"
)

// Placeholder markers start every narrative that did not come from the model.
const (
	NotConfiguredMarker = "[Hawk Eye unavailable]"
	FailedMarker        = "[Hawk Eye failed]"
)

// SelectMode draws praise with probability p, critique otherwise.
func SelectMode(rng Rand, p float64) Mode {
	if rng.Float64() < p {
		return Praise
	}
	return Critique
}

// Composer owns the random source and the generator for one process.
type Composer struct {
	gen  generation.Generator
	p    float64
	log  logrus.FieldLogger
	mu   sync.Mutex
	rand Rand
}

// NewComposer returns a Composer drawing praise with probability p.
func NewComposer(gen generation.Generator, rng Rand, p float64, log logrus.FieldLogger) *Composer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Composer{gen: gen, rand: rng, p: p, log: log}
}

// SelectMode draws the mode for one report.
func (c *Composer) SelectMode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SelectMode(c.rand, c.p)
}

// Narrate draws a mode, composes the prompt and generates the narrative.
// It never fails: generation problems become a marked placeholder text.
func (c *Composer) Narrate(ctx context.Context, in Input) (string, Mode) {
	mode := c.SelectMode()
	prompt := Compose(in, mode)

	text, err := c.gen.Generate(ctx, prompt)
	if err == nil {
		if text = sanitize.Narrative(text); text != "" {
			return text, mode
		}
		err = generation.ErrEmptyResponse
	}

	c.log.WithError(err).WithField("mode", mode.String()).Warn("narrative replaced by placeholder")
	return Placeholder(err), mode
}

// Placeholder returns the text substituted for a failed generation.
func Placeholder(err error) string {
	if errors.Is(err, generation.ErrNotConfigured) {
		return fmt.Sprintf("%s Warning: text generation is not configured (%v). "+
			"Set the API key in the environment or .env file to receive feedback.", NotConfiguredMarker, err)
	}
	return fmt.Sprintf("%s Could not obtain feedback from the language model: %v", FailedMarker, err)
}

// IsPlaceholder reports whether text was produced by Placeholder.
func IsPlaceholder(text string) bool {
	return strings.HasPrefix(text, NotConfiguredMarker) || strings.HasPrefix(text, FailedMarker)
}
