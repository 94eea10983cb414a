package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	// EncryptedExt is appended to a file when it is encrypted.
	EncryptedExt = ".enc"

	// DecryptedExt is appended to the default decryption output.
	DecryptedExt = ".dec"
)

// EncryptedPath returns the default output path for encrypting path.
func EncryptedPath(path string) string {
	return path + EncryptedExt
}

// DecryptedPath returns the default output path for decrypting path:
// report.txt.enc becomes report.txt.dec.
func DecryptedPath(path string) string {
	return strings.TrimSuffix(path, EncryptedExt) + DecryptedExt
}

// IsEncryptedFile reports whether path carries the encrypted extension.
func IsEncryptedFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), EncryptedExt)
}

// ResolveFiles expands file paths, directories and glob patterns (including **)
// relative to baseDir. With forEncryption set, .enc files are skipped;
// otherwise only .enc files are returned.
func ResolveFiles(patterns []string, baseDir string, forEncryption bool) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool) // Deduplicate.

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir, forEncryption)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	return files, nil
}

func resolvePattern(pattern string, baseDir string, forEncryption bool) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern, forEncryption)
	}

	if strings.ContainsAny(pattern, "*?[") {
		return expandGlob(absPattern, pattern, forEncryption)
	}

	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
	}
	if !wanted(absPattern, forEncryption) {
		if forEncryption {
			return nil, fmt.Errorf("%w: %s is already encrypted", kerrors.ErrInvalidInput, pattern)
		}
		return nil, fmt.Errorf("%w: %s is not a %s file", kerrors.ErrInvalidInput, pattern, EncryptedExt)
	}

	return []string{absPattern}, nil
}

func expandGlob(absPattern, pattern string, forEncryption bool) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid glob pattern %q: %v", kerrors.ErrInvalidInput, pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if wanted(m, forEncryption) {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

func findFilesInDir(dir string, forEncryption bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if wanted(path, forEncryption) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func wanted(path string, forEncryption bool) bool {
	if forEncryption {
		return !IsEncryptedFile(path)
	}
	return IsEncryptedFile(path)
}
