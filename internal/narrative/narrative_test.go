package narrative

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/anomaly"
	"github.com/suykerbuyk/habit-hawk/internal/generation"
	"github.com/suykerbuyk/habit-hawk/internal/logging"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func sampleInput() Input {
	today := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	var h stats.Histogram
	h[stats.Morning] = 3600
	h[stats.Evening] = 1800
	return Input{
		Period: activity.PeriodFor(activity.Weekly, today),
		Stats: stats.Summary{
			Clusters: map[string]stats.ClusterStat{
				"入浴":   {Cluster: "入浴", TotalSeconds: 3600, Count: 1},
				"音楽活動": {Cluster: "音楽活動", TotalSeconds: 1800, Count: 1},
			},
			TotalSeconds: 5400,
			TotalEvents:  2,
		},
		Histogram: h,
		Absences: anomaly.Absences{
			LongAbsent: []string{"Reading"},
			Missing:    []string{"運動", "配信業務"},
		},
		Deltas: []anomaly.Delta{
			{Cluster: "入浴", PrevSeconds: 7200, CurSeconds: 3600, DeltaPct: -50, Direction: anomaly.Decreased},
			{Cluster: "音楽活動", CurSeconds: 1800, Direction: anomaly.New},
		},
		AbsenceDays: 30,
	}
}

func TestSelectMode(t *testing.T) {
	tests := []struct {
		draw float64
		want Mode
	}{
		{0.0, Praise},
		{0.049, Praise},
		{0.05, Critique},
		{0.9, Critique},
	}
	for _, tt := range tests {
		if got := SelectMode(fixedRand(tt.draw), 0.05); got != tt.want {
			t.Errorf("SelectMode(%v) = %s, want %s", tt.draw, got, tt.want)
		}
	}
}

func TestSelectMode_Frequency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 20000
	praise := 0
	for i := 0; i < n; i++ {
		if SelectMode(rng, DefaultPraiseProbability) == Praise {
			praise++
		}
	}
	freq := float64(praise) / n
	if freq < 0.04 || freq > 0.06 {
		t.Errorf("praise frequency = %.4f, want about 0.05", freq)
	}
}

func TestCompose_Critique(t *testing.T) {
	prompt := Compose(sampleInput(), Critique)

	for _, want := range []string{
		"1. Score this period's productivity out of 100.",
		"2. ",
		"3. ",
		"4. These activities have not been recorded for more than 30 days; point this out: Reading",
		"5. These clusters have never been recorded; point this out: 運動, 配信業務",
		"6. ",
		"### Activities Log",
		"- 入浴: 3600.00 seconds (1 times)",
		"- 音楽活動: 1800.00 seconds (1 times)",
		"### Change vs Previous Period",
		"- 入浴: 7200 -> 3600 seconds (-50.0%, decreased)",
		"- 音楽活動: 0 -> 1800 seconds (new)",
		"### Time of Day",
		"- morning (6-12h): 3600.00 seconds",
		"- evening (18-24h): 1800.00 seconds",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("critique prompt missing %q\n%s", want, prompt)
		}
	}

	if strings.Index(prompt, "1. ") > strings.Index(prompt, "6. ") {
		t.Error("instructions out of order")
	}
}

func TestCompose_CritiqueOmitsEmptyLists(t *testing.T) {
	in := sampleInput()
	in.Absences = anomaly.Absences{}

	prompt := Compose(in, Critique)
	if strings.Contains(prompt, "4. ") {
		t.Error("long-absent instruction present with empty list")
	}
	if strings.Contains(prompt, "5. ") {
		t.Error("missing-cluster instruction present with empty list")
	}
	if !strings.Contains(prompt, "6. ") {
		t.Error("time-of-day instruction should always be present")
	}
}

func TestCompose_Praise(t *testing.T) {
	prompt := Compose(sampleInput(), Praise)

	if !strings.Contains(prompt, "praise") {
		t.Errorf("praise prompt does not ask for praise:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- 入浴: 3600.00 seconds (1 times)") {
		t.Error("praise prompt missing activity log")
	}
	for _, absent := range []string{"Time of Day", "Reading", "Change vs Previous Period", "out of 100"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("praise prompt should not contain %q", absent)
		}
	}
}

func TestCompose_Deterministic(t *testing.T) {
	in := sampleInput()
	first := Compose(in, Critique)
	for i := 0; i < 5; i++ {
		if Compose(in, Critique) != first {
			t.Fatal("Compose is not deterministic")
		}
	}
}

func TestNarrate_Success(t *testing.T) {
	var gotPrompt string
	gen := generation.Func(func(_ context.Context, p string) (string, error) {
		gotPrompt = p
		return "### Score\nHawk rates this week 70/100.", nil
	})

	c := NewComposer(gen, fixedRand(0.5), DefaultPraiseProbability, logging.Discard())
	text, mode := c.Narrate(context.Background(), sampleInput())

	if mode != Critique {
		t.Errorf("mode = %s", mode)
	}
	if text != "### Score\nHawk rates this week 70/100." {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(gotPrompt, "1. Score") {
		t.Error("generator did not receive the critique prompt")
	}
}

func TestNarrate_SanitizesOutput(t *testing.T) {
	gen := generation.Func(func(context.Context, string) (string, error) {
		return "```markdown\r\n### Score\r\n<b>70</b>/100\r\n```", nil
	})
	c := NewComposer(gen, fixedRand(0.5), DefaultPraiseProbability, logging.Discard())
	text, _ := c.Narrate(context.Background(), sampleInput())
	if text != "### Score\n70/100" {
		t.Errorf("text = %q", text)
	}
}

func TestNarrate_BlankOutputIsPlaceholder(t *testing.T) {
	gen := generation.Func(func(context.Context, string) (string, error) {
		return "```\n\n```", nil
	})
	c := NewComposer(gen, fixedRand(0.5), DefaultPraiseProbability, logging.Discard())
	text, _ := c.Narrate(context.Background(), sampleInput())
	if !IsPlaceholder(text) {
		t.Errorf("blank output not replaced: %q", text)
	}
}

func TestNarrate_PraiseBranch(t *testing.T) {
	var gotPrompt string
	gen := generation.Func(func(_ context.Context, p string) (string, error) {
		gotPrompt = p
		return "Hawk analyses steady effort.", nil
	})

	c := NewComposer(gen, fixedRand(0.01), DefaultPraiseProbability, logging.Discard())
	_, mode := c.Narrate(context.Background(), sampleInput())

	if mode != Praise {
		t.Errorf("mode = %s, want praise", mode)
	}
	if strings.Contains(gotPrompt, "1. Score") {
		t.Error("praise draw produced a critique prompt")
	}
}

func TestNarrate_NotConfigured(t *testing.T) {
	gen := generation.Unavailable{Reason: "GEMINI_API_KEY is not set"}
	c := NewComposer(gen, fixedRand(0.5), DefaultPraiseProbability, logging.Discard())

	text, _ := c.Narrate(context.Background(), sampleInput())

	if !strings.HasPrefix(text, NotConfiguredMarker) {
		t.Errorf("text = %q, want not-configured placeholder", text)
	}
	if !strings.Contains(text, "GEMINI_API_KEY") {
		t.Errorf("placeholder should name the missing key: %q", text)
	}
	if !IsPlaceholder(text) {
		t.Error("IsPlaceholder = false")
	}
}

func TestNarrate_GenerationError(t *testing.T) {
	gen := generation.Func(func(context.Context, string) (string, error) {
		return "", &generation.Error{Status: 503, Err: errors.New("service unavailable")}
	})
	c := NewComposer(gen, fixedRand(0.5), DefaultPraiseProbability, logging.Discard())

	text, _ := c.Narrate(context.Background(), sampleInput())

	if !strings.HasPrefix(text, FailedMarker) {
		t.Errorf("text = %q, want failure placeholder", text)
	}
	if !strings.Contains(text, "service unavailable") {
		t.Errorf("placeholder should embed the error: %q", text)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if IsPlaceholder("### Score\nHawk rates 80/100") {
		t.Error("model text reported as placeholder")
	}
	if !IsPlaceholder(Placeholder(errors.New("x"))) {
		t.Error("Placeholder output not recognised")
	}
}

func TestModeString(t *testing.T) {
	if Praise.String() != "praise" || Critique.String() != "critique" {
		t.Errorf("got %q, %q", Praise, Critique)
	}
}
