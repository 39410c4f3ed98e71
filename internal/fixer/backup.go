package fixer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// backupSuffix is appended to a file's path to form its backup sibling.
const backupSuffix = ".bak"

// BackupPath returns the sibling backup path for a file.
func BackupPath(path string) string {
	return path + backupSuffix
}

// RestoreFromBackup reverses one file from its backup sibling and deletes
// the backup. Restore-then-cleanup is a single operation: a lingering .bak
// after a restore would invite restoring stale content later.
func RestoreFromBackup(path string) error {
	backup := BackupPath(path)
	data, err := os.ReadFile(backup)
	if err != nil {
		return fmt.Errorf("reading backup for %s: %w", path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("removing backup %s: %w", backup, err)
	}
	return nil
}

// CleanupBackups removes every backup sibling under root, recursively.
// Returns the paths removed.
func CleanupBackups(root string) ([]string, error) {
	var removed []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, backupSuffix) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleaning backups under %s: %w", root, err)
	}
	return removed, nil
}

// writeFileAtomic writes through a temp sibling and renames into place, so
// a crash mid-write never leaves a half-written artifact.
func writeFileAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
