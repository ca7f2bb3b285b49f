package core

import (
	"bytes"
	"fmt"
	"os"
	"time"
)

// AtomicWriteConfig controls atomic writing behavior
type AtomicWriteConfig struct {
	UseFsync       bool   // Force fsync for durability
	TempSuffix     string // Suffix for temporary files
	BackupOriginal bool   // Create backup before writing
}

// DefaultAtomicConfig provides sensible defaults
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:       false,
		TempSuffix:     ".gold.tmp",
		BackupOriginal: false,
	}
}

// AtomicWriter replaces files through a temporary sibling and a rename.
type AtomicWriter struct {
	config AtomicWriteConfig
}

// NewAtomicWriter creates a new atomic writer
func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	if config.TempSuffix == "" {
		config.TempSuffix = DefaultAtomicConfig().TempSuffix
	}
	return &AtomicWriter{config: config}
}

// ReplaceFile writes content to path if the file still holds expected, the bytes the
// caller read before computing content. A mismatch fails with ErrWriteRace and leaves
// the file untouched.
func (aw *AtomicWriter) ReplaceFile(path string, expected, content []byte) error {
	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", path, err)
	}
	if !bytes.Equal(current, expected) {
		return fmt.Errorf("%s: %w", path, ErrWriteRace)
	}
	return aw.WriteFile(path, content)
}

// WriteFile atomically writes content to path, keeping its permissions.
func (aw *AtomicWriter) WriteFile(path string, content []byte) error {
	originalInfo, err := os.Stat(path)
	var fileMode os.FileMode = 0o644
	if err == nil {
		fileMode = originalInfo.Mode()
	}

	if aw.config.BackupOriginal && err == nil {
		if err := aw.createBackup(path, path+".bak"); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}

	return nil
}

// createBackup creates a backup copy with timestamp
func (aw *AtomicWriter) createBackup(originalPath, backupPath string) error {
	content, err := os.ReadFile(originalPath)
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102-150405")
	backupPath = fmt.Sprintf("%s.%s", backupPath, timestamp)

	return os.WriteFile(backupPath, content, 0o644)
}
