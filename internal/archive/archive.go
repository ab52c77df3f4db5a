package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup copies a spreadsheet into an "archive" directory next to it and
// returns the path of the copy. The original stays in place.
func Backup(path string) (string, error) {
	// Check if the file exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot back up a directory: %s", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))
	}

	if err := copyFile(path, archivePath, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return archivePath, nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
