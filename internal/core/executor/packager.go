package executor

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Package writes the function source to a temp file under workDir and wraps
// it into a single-entry tar archive whose entry name is destFragment (the
// invocation-scoped path fragment, e.g. "<invocation-id>/main.py"). The
// returned bytes are ready for Engine.CopyTo against the sandbox root.
func Package(source, destFragment, workDir string) ([]byte, error) {
	srcPath := filepath.Join(workDir, filepath.Base(destFragment))
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("write source file: %w", err)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{
		Name:    destFragment,
		Mode:    0o644,
		Size:    fi.Size(),
		ModTime: time.Now().UTC(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, fmt.Errorf("write tar header: %w", err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return nil, fmt.Errorf("write tar body: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("finalize tar: %w", err)
	}

	return buf.Bytes(), nil
}
