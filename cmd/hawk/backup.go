package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/suykerbuyk/habit-hawk/internal/archive"
	"github.com/suykerbuyk/habit-hawk/internal/config"
	"github.com/suykerbuyk/habit-hawk/internal/store"
)

func runBackup(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string) {
	dir := flagValue(args, "--out")
	if dir == "" {
		dir = cfg.BackupDir()
	}

	events := readAll(ctx, cfg, log)
	path, size, err := archive.Export(events, dir, time.Now())
	if err != nil {
		fatal("backup: %v", err)
	}
	fmt.Printf("wrote %s\n", config.CompressHome(path))
	fmt.Printf("  %s activities, %s\n", humanize.Comma(int64(len(events))), humanize.Bytes(uint64(size)))
}

func runRestore(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string) {
	pos := positional(args)
	if len(pos) != 1 {
		fatal("usage: hawk restore <file.jsonl.zst>")
	}

	events, err := archive.Import(pos[0])
	if err != nil {
		fatal("restore: %v", err)
	}

	var n int
	err = store.WithStore(ctx, cfg.DBPath(), log, func(s *store.Store) error {
		var err error
		n, err = s.Restore(ctx, events)
		return err
	})
	if errors.Is(err, store.ErrNotEmpty) {
		fmt.Fprintf(os.Stderr, "hawk: restore: %s already has activities; move it aside first\n", config.CompressHome(cfg.DBPath()))
		os.Exit(1)
	}
	if err != nil {
		fatal("restore: %v", err)
	}
	fmt.Printf("restored %s activities into %s\n", humanize.Comma(int64(n)), config.CompressHome(cfg.DBPath()))
}
