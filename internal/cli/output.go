package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/motoruniversal-backend/internal/export"
)

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "ok: "+format+"\n", args...)
}

// PrintError writes the single failure line for err.
func PrintError(w io.Writer, err error) {
	msg := "unknown error"
	if err != nil {
		msg = strings.ReplaceAll(err.Error(), "\n", " ")
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}

func printExported(w io.Writer, res *export.Result) {
	printOK(w, "%s (%s)", res.ArchiveName, res.Report().Message)
}

// writeFileAtomic writes data to dir/name through a temp file in dir. The
// temp file is gone afterwards on every path.
func writeFileAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)

	tmpFile, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename archive: %w", err)
	}
	return path, nil
}
