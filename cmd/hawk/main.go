package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/suykerbuyk/habit-hawk/internal/check"
	"github.com/suykerbuyk/habit-hawk/internal/config"
	"github.com/suykerbuyk/habit-hawk/internal/help"
	"github.com/suykerbuyk/habit-hawk/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]

	if wantsHelp(args) {
		if c, ok := help.Lookup(cmd); ok {
			fmt.Print(help.FormatTerminal(c))
			return
		}
	}

	switch cmd {
	case "version":
		fmt.Printf("hawk v%s (habit-hawk)\n", help.Version)
		return
	case "help", "--help", "-h":
		if len(args) > 0 {
			if c, ok := help.Lookup(args[0]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
		}
		usage()
		return
	case "init":
		runInit(args)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fatal("%v", err)
	}
	ctx := context.Background()

	switch cmd {
	case "record":
		runRecord(ctx, cfg, log, args)
	case "track":
		runTrack(cfg, log, args)
	case "log":
		runLog(ctx, cfg, log, args)
	case "stats":
		runStats(ctx, cfg, log, args)
	case "canon":
		runCanon(cfg, args)
	case "report":
		runReport(ctx, cfg, log, args)
	case "daemon":
		runDaemon(cfg, log)
	case "backup":
		runBackup(ctx, cfg, log, args)
	case "restore":
		runRestore(ctx, cfg, log, args)
	case "check":
		runCheck(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func runInit(args []string) {
	dataDir := flagValue(args, "--data-dir")
	if dataDir == "" {
		dataDir = config.DefaultConfig().DataDir
	}
	path, created, err := config.WriteDefault(dataDir)
	if err != nil {
		fatal("init: %v", err)
	}
	if !created {
		fmt.Printf("config already exists: %s\n", config.CompressHome(path))
		return
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fatal("create data dir: %v", err)
	}
	fmt.Printf("wrote %s\n", config.CompressHome(path))
	fmt.Printf("data dir: %s\n", config.CompressHome(dataDir))
}

func runCheck(ctx context.Context, cfg config.Config) {
	report := check.Run(ctx, cfg)
	fmt.Print(report.Format())
	if report.HasFailures() {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, flag+"=") {
			return strings.TrimPrefix(a, flag+"=")
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// positional returns args with flags and their values removed. Flags
// listed in valued consume the following argument.
func positional(args []string, valued ...string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--") {
			for _, v := range valued {
				if a == v {
					i++
					break
				}
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "hawk: "+format+"\n", args...)
	os.Exit(1)
}
