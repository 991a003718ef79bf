package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"cubby/internal/logging"
)

// Move renames src to dst, falling back to copy+delete when the rename
// crosses devices. The destination must not exist; callers resolve name
// collisions first.
func Move(logger *slog.Logger, src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		return CopyThenDelete(logger, src, dst)
	}
	return renameErr
}

// CopyThenDelete copies src to dst and removes the source afterwards. This
// is the cross-device path of Move and the only way bundle directories
// travel. A failed source removal leaves the copy in place and is logged
// rather than returned.
func CopyThenDelete(logger *slog.Logger, src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := CopyTree(src, dst); err != nil {
			_ = os.RemoveAll(dst)
			return err
		}
		if err := os.RemoveAll(src); err != nil {
			logger.Warn("source removal after copy failed; duplicate tree remains",
				logging.String("path", src),
				logging.Error(err),
			)
		}
		return nil
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		logger.Warn("source removal after copy failed; duplicate file remains",
			logging.String("path", src),
			logging.Error(err),
		)
	}
	return nil
}

// CopyTree mirrors the directory tree at src under dst, preserving file
// modes. Symlinks are recreated, not followed.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return CopyFileVerified(path, target)
		}
	})
}

// CopyFileVerified streams src to dst with SHA256 + size integrity
// verification, carrying over the source file mode. Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// NextFilePath returns path when nothing occupies it, otherwise the first
// free stem_<n>.ext variant.
func NextFilePath(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return nextAvailable(path, stem, ext)
}

// NextDirPath returns path when nothing occupies it, otherwise the first
// free path_<n> variant. Directory names keep their dots, so the counter
// always lands at the end.
func NextDirPath(path string) (string, error) {
	return nextAvailable(path, path, "")
}

func nextAvailable(path, stem, suffix string) (string, error) {
	const maxAttempts = 10000
	candidate := path
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		if attempt > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, attempt, suffix)
		}
		if _, err := os.Lstat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return candidate, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted rename slots for %s", path)
}
