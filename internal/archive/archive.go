// Package archive writes and reads zstd-compressed JSONL backups of the
// activity log.
package archive

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
)

const suffix = ".jsonl.zst"

// ErrNotBackup means the file name does not look like a backup.
var ErrNotBackup = errors.New("not a backup file")

// record is one JSONL line. Timestamps use the store's text layout so a
// backup is readable without this program.
type record struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// Export compresses events into archiveDir/habit_log-{stamp}.jsonl.zst.
// Returns the archive path and its size in bytes.
func Export(events []activity.Event, archiveDir string, now time.Time) (string, int64, error) {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create archive dir: %w", err)
	}

	destPath := ArchivePath(now, archiveDir)
	tmp, err := os.CreateTemp(archiveDir, ".backup-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := encode(tmp, events); err != nil {
		tmp.Close()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", 0, fmt.Errorf("rename archive: %w", err)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return "", 0, fmt.Errorf("stat archive: %w", err)
	}
	return destPath, info.Size(), nil
}

func encode(w io.Writer, events []activity.Event) error {
	encoder, err := zstd.NewWriter(w, zstd.WithZeroFrames(true))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	enc := json.NewEncoder(encoder)
	enc.SetEscapeHTML(false)
	for _, e := range events {
		rec := record{
			Start: activity.FormatTime(e.Start),
			End:   activity.FormatTime(e.End),
			Label: e.Label,
		}
		if err := enc.Encode(rec); err != nil {
			encoder.Close()
			return fmt.Errorf("compress: %w", err)
		}
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return nil
}

// Import reads every event from a backup written by Export.
func Import(archivePath string) ([]activity.Event, error) {
	if !strings.HasSuffix(archivePath, suffix) {
		return nil, fmt.Errorf("%s: %w", archivePath, ErrNotBackup)
	}

	src, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	var events []activity.Event
	scanner := bufio.NewScanner(decoder)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		st, err := activity.ParseTime(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		et, err := activity.ParseTime(rec.End)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, activity.Event{Start: st, End: et, Label: rec.Label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	return events, nil
}

// ArchivePath returns the deterministic backup path for a timestamp.
func ArchivePath(now time.Time, archiveDir string) string {
	return filepath.Join(archiveDir, "habit_log-"+now.Format("20060102-150405")+suffix)
}

// List returns the backups in archiveDir, oldest first.
func List(archiveDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(archiveDir, "habit_log-*"+suffix))
	if err != nil {
		return nil, err
	}
	return matches, nil // Glob sorts; the stamp format sorts chronologically
}
