package help

import (
	"fmt"
	"strings"
)

// row is one entry of an aligned two-column listing. An empty desc
// prints the name alone.
type row struct {
	name, desc string
}

// listing indents rows by two spaces and starts every description at
// width runes past the indent, keeping at least one space of gap.
func listing(rows []row, width int) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		if r.desc == "" {
			lines[i] = "  " + r.name
			continue
		}
		lines[i] = "  " + r.name + strings.Repeat(" ", max(width-len(r.name), 1)) + r.desc
	}
	return strings.Join(lines, "\n")
}

func widest(rows []row) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r.name))
	}
	return w
}

// FormatTerminal renders the --help text of one subcommand.
func FormatTerminal(c Command) string {
	args := make([]row, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, row{a.Name, a.Desc})
	}
	flags := make([]row, 0, len(c.Flags))
	for _, f := range c.Flags {
		flags = append(flags, row{f.Name, f.Desc})
	}

	// Arguments and flags share one description column.
	width := max(widest(args), widest(flags)) + 3
	if len(args) > 0 && len(flags) > 0 {
		width = max(width, 11)
	}

	sections := []string{
		fmt.Sprintf("hawk %s - %s", c.Name, c.Synopsis),
		"Usage: " + c.Usage,
	}
	if len(args) > 0 {
		sections = append(sections, "Arguments:\n"+listing(args, width))
	}
	if len(flags) > 0 {
		sections = append(sections, "Flags:\n"+listing(flags, width))
	}
	if c.Description != "" {
		sections = append(sections, c.Description)
	}
	if len(c.Examples) > 0 {
		examples := make([]row, len(c.Examples))
		for i, e := range c.Examples {
			examples[i] = row{name: e}
		}
		sections = append(sections, "Examples:\n"+listing(examples, 0))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level text printed by hawk help and on a
// bad invocation.
func FormatUsage(top Command, subs []Command) string {
	rows := make([]row, 0, len(subs)+1)
	for _, s := range subs {
		rows = append(rows, row{s.tableUsage(), s.Brief})
	}
	rows = append(rows, row{"hawk help [command]", "Show this help"})

	var b strings.Builder
	fmt.Fprintf(&b, "hawk v%s - %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")
	b.WriteString(listing(rows, widest(rows)+3))
	b.WriteString("\n")
	b.WriteString(`
Set GEMINI_API_KEY (or generation.api_key_env) in the environment or a
.env file to enable the Hawk Eye narrative.

Configuration: ~/.config/habit-hawk/config.toml
`)
	return b.String()
}
