package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Renderer writes blocks to path.
type Renderer interface {
	Render(title string, blocks []Block, path string) error
}

// Extension returns the file extension a renderer produces.
type Extension interface {
	Ext() string
}

// RenderError reports a document that could not be produced. No file is
// left at Path when it is returned.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// writeAtomic creates path's directory, streams write into a temp file next
// to path and renames it into place. The temp file is removed on failure.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &RenderError{Path: path, Err: fmt.Errorf("create directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, ".hawk-*.tmp")
	if err != nil {
		return &RenderError{Path: path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &RenderError{Path: path, Err: err}
	}

	if err := write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &RenderError{Path: path, Err: fmt.Errorf("close: %w", err)}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &RenderError{Path: path, Err: fmt.Errorf("chmod: %w", err)}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &RenderError{Path: path, Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}
