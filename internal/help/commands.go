package help

// Version is the hawk release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--force" or "--kind <weekly|monthly>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes a hawk subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "init", "report", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// TopLevel is the top-level hawk command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "habit tracker with weekly and monthly Hawk Eye reports",
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config",
	Usage:    "hawk init [--data-dir <path>]",
	Flags: []Flag{
		{Name: "--data-dir <path>", Desc: "Data directory for the activity log and reports"},
	},
	Description: `Writes ~/.config/habit-hawk/config.toml with every setting at its
default, including the built-in cluster table. An existing config is
left untouched.`,
}

var CmdRecord = Command{
	Name:       "record",
	Synopsis:   "append a completed interval",
	Brief:      "Append a completed interval",
	Usage:      "hawk record <label> --start <time> --end <time>",
	TableUsage: "hawk record <label> ...",
	Args: []Arg{
		{Name: "label", Desc: "Activity label, free text"},
	},
	Flags: []Flag{
		{Name: "--start <time>", Desc: "Interval start, YYYY-MM-DD HH:MM:SS"},
		{Name: "--end <time>", Desc: "Interval end (default: now)"},
	},
	Description: `Appends one row to the activity log. Intervals that end before they
start and empty labels are rejected.`,
	Examples: []string{
		`hawk record guitar --start "2024-03-10 20:00:00" --end "2024-03-10 20:30:00"`,
	},
}

var CmdTrack = Command{
	Name:     "track",
	Synopsis: "time an activity until interrupted",
	Brief:    "Time an activity until Ctrl-C",
	Usage:    "hawk track <label>",
	Args: []Arg{
		{Name: "label", Desc: "Activity label, free text"},
	},
	Description: `Starts the clock now and blocks until SIGINT or SIGTERM, then appends
the interval to the activity log. Nothing is written if the label is
empty.`,
}

var CmdLog = Command{
	Name:     "log",
	Synopsis: "list recorded activities",
	Brief:    "List recorded activities",
	Usage:    "hawk log [--since <date>]",
	Flags: []Flag{
		{Name: "--since <date>", Desc: "Only list activities starting on or after this date"},
	},
}

var CmdStats = Command{
	Name:       "stats",
	Synopsis:   "show aggregated time per cluster",
	Brief:      "Show time per cluster",
	Usage:      "hawk stats [--kind <weekly|monthly>] [--all] [--date <date>]",
	TableUsage: "hawk stats [--kind ...] [--all]",
	Flags: []Flag{
		{Name: "--kind <weekly|monthly>", Desc: "Report period to aggregate (default: weekly)"},
		{Name: "--all", Desc: "Aggregate the whole history instead"},
		{Name: "--date <date>", Desc: "Period end day (default: today)"},
	},
	Description: `Canonicalizes every label through the cluster table and prints total
time, occurrence count and share per cluster, followed by the
time-of-day histogram.`,
}

var CmdCanon = Command{
	Name:     "canon",
	Synopsis: "show how labels map onto clusters",
	Brief:    "Explain label canonicalization",
	Usage:    "hawk canon <label>...",
	Args: []Arg{
		{Name: "label", Desc: "One or more raw labels"},
	},
	Description: `Prints the canonical cluster for each label, how it matched (exact,
fuzzy or ad-hoc) and the similarity ratio. Fuzzy matches need a ratio
strictly above 0.8.`,
	Examples: []string{
		"hawk canon Shower guiter reading",
	},
}

var CmdReport = Command{
	Name:       "report",
	Synopsis:   "generate a weekly or monthly report",
	Brief:      "Generate the due report",
	Usage:      "hawk report [--kind <weekly|monthly>] [--force] [--date <date>]",
	TableUsage: "hawk report [--kind ...] [--force]",
	Flags: []Flag{
		{Name: "--kind <weekly|monthly>", Desc: "Report to generate (default: whichever is due)"},
		{Name: "--force", Desc: "Generate even when no report is due"},
		{Name: "--date <date>", Desc: "Report day (default: today)"},
	},
	Description: `Reads the activity log, aggregates the period, detects long-absent and
never-recorded clusters and asks the language model for the Hawk Eye
narrative. The report is written under reports/{weekly,monthly}/.

Without --force, monthly reports run on the last day of the month and
weekly reports on Sunday; other days do nothing. When the model is not
configured or fails, the report is still written with a placeholder.`,
	Examples: []string{
		"hawk report                            Run whatever is due today",
		"hawk report --kind monthly --force     Monthly report for this month so far",
		"hawk report --force --date 2024-03-10  Backfill a weekly report",
	},
}

var CmdDaemon = Command{
	Name:     "daemon",
	Synopsis: "run due reports on schedule",
	Brief:    "Run due reports on schedule",
	Usage:    "hawk daemon",
	Description: `Checks every daemon.check_interval whether a report is due and, once
daemon.run_at has passed, writes it. Each report runs at most once per
day. Config changes are picked up without a restart. When
daemon.metrics_addr is set, Prometheus metrics are served at /metrics.`,
}

var CmdBackup = Command{
	Name:     "backup",
	Synopsis: "export the activity log",
	Brief:    "Export the activity log",
	Usage:    "hawk backup [--out <dir>]",
	Flags: []Flag{
		{Name: "--out <dir>", Desc: "Backup directory (default: <data_dir>/backups)"},
	},
	Description: `Writes every row of the activity log to a zstd-compressed JSONL file
named habit_log-YYYYMMDD-HHMMSS.jsonl.zst.`,
}

var CmdRestore = Command{
	Name:     "restore",
	Synopsis: "import a backup into an empty activity log",
	Brief:    "Restore a backup",
	Usage:    "hawk restore <file.jsonl.zst>",
	Args: []Arg{
		{Name: "file.jsonl.zst", Desc: "Backup written by hawk backup"},
	},
	Description: `Loads the backup into the activity log in one transaction. Refuses to
run when the log already has rows.`,
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, store and report setup",
	Brief:    "Validate setup",
	Usage:    "hawk check",
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location and validity
  - Data directory exists
  - Activity log readable, row count and malformed rows
  - Reports directory
  - PDF font present
  - Language model config and API key
  - Cluster table

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "hawk version",
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdInit,
	CmdRecord,
	CmdTrack,
	CmdLog,
	CmdStats,
	CmdCanon,
	CmdReport,
	CmdDaemon,
	CmdBackup,
	CmdRestore,
	CmdCheck,
	CmdVersion,
}

// Lookup returns the subcommand named name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
