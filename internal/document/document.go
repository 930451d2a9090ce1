// Package document turns a report into renderer-neutral blocks and writes
// them out as PDF or Markdown.
package document

import (
	"fmt"
	"strings"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/narrative"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
)

// LogHeading introduces the per-cluster time table.
const LogHeading = "Hawk's Time Log"

// Spacer heights in points.
const (
	SectionGap   = 12
	ParagraphGap = 6
)

// BlockKind is the role of a block in the document.
type BlockKind int

const (
	Title BlockKind = iota
	Heading
	Paragraph
	Spacer
)

func (k BlockKind) String() string {
	switch k {
	case Title:
		return "title"
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case Spacer:
		return "spacer"
	default:
		return "unknown"
	}
}

// Block is one element of the rendered document. Height is only used by
// spacers.
type Block struct {
	Kind   BlockKind
	Text   string
	Height float64
}

// Report is the assembled result of one pipeline run.
type Report struct {
	Title     string
	Narrative string
	Stats     stats.Summary
	Mode      narrative.Mode
	Period    activity.Period
}

// Build lays out the report: title, the time log heading, one line per
// cluster sorted by name, a spacer, then the narrative. Narrative lines
// starting with "### " or "## " become headings; blank lines are dropped.
func Build(r Report) []Block {
	blocks := []Block{
		{Kind: Title, Text: r.Title},
		{Kind: Heading, Text: LogHeading},
	}

	for _, cs := range r.Stats.Sorted() {
		blocks = append(blocks, Block{
			Kind: Paragraph,
			Text: fmt.Sprintf("* %s: %s (%d times)", cs.Cluster, stats.FormatHMS(cs.TotalSeconds), cs.Count),
		})
	}
	blocks = append(blocks, Block{Kind: Spacer, Height: SectionGap})

	for _, line := range strings.Split(r.Narrative, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: Heading, Text: strings.TrimSpace(line[4:])})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: Heading, Text: strings.TrimSpace(line[3:])})
		default:
			blocks = append(blocks,
				Block{Kind: Paragraph, Text: line},
				Block{Kind: Spacer, Height: ParagraphGap},
			)
		}
	}

	return blocks
}
