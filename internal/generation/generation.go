// Package generation wraps the language model that writes report narratives.
package generation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/suykerbuyk/habit-hawk/internal/config"
)

// ErrNotConfigured means no generator is available: generation is disabled
// or the API key is missing.
var ErrNotConfigured = errors.New("text generation not configured")

// ErrEmptyResponse means the model answered without any content.
var ErrEmptyResponse = errors.New("empty response")

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Error is a failed generation call. Status is the HTTP status when the
// service answered, 0 for transport failures and timeouts.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("generation failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Unavailable is the Generator used when generation cannot run. Every call
// fails with ErrNotConfigured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Generate(context.Context, string) (string, error) {
	if u.Reason == "" {
		return "", ErrNotConfigured
	}
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.Reason)
}

// New returns a Client when generation is enabled and the API key variable
// is set, and an Unavailable generator otherwise. It never fails: a missing
// key surfaces on the first Generate call.
func New(cfg config.GenerationConfig, language string) Generator {
	if !cfg.Enabled {
		return Unavailable{Reason: "generation disabled in config"}
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return Unavailable{Reason: fmt.Sprintf("%s is not set", cfg.APIKeyEnv)}
	}
	return NewClient(cfg, key, language)
}

// Configured reports whether g can actually reach a model.
func Configured(g Generator) bool {
	_, ok := g.(Unavailable)
	return !ok
}
