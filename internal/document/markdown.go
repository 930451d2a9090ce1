package document

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Markdown renders blocks as a Markdown note with YAML frontmatter.
type Markdown struct {
	Now func() time.Time
}

// NewMarkdown returns a Markdown renderer stamping the current time.
func NewMarkdown() *Markdown {
	return &Markdown{Now: time.Now}
}

func (m *Markdown) Ext() string { return ".md" }

// Render writes the document to path.
func (m *Markdown) Render(title string, blocks []Block, path string) error {
	content := m.Format(title, blocks)
	return writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

// Format returns the Markdown text for blocks.
func (m *Markdown) Format(title string, blocks []Block) string {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", title)
	b.WriteString("type: report\n")
	fmt.Fprintf(&b, "generated: %s\n", now().Format(time.RFC3339))
	b.WriteString("---\n")

	for _, bl := range blocks {
		switch bl.Kind {
		case Title:
			fmt.Fprintf(&b, "\n# %s\n", bl.Text)
		case Heading:
			fmt.Fprintf(&b, "\n## %s\n\n", bl.Text)
		case Paragraph:
			fmt.Fprintf(&b, "%s\n", escapeList(bl.Text))
		case Spacer:
			b.WriteString("\n")
		}
	}

	return collapseBlankLines(b.String())
}

// escapeList keeps cluster lines ("* name: ...") as list items and leaves
// everything else untouched.
func escapeList(s string) string {
	if strings.HasPrefix(s, "* ") {
		return "- " + s[2:]
	}
	return s
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimRight(s, "\n") + "\n"
}
