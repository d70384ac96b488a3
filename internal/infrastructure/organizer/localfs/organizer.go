package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// Organizer moves classified files into outputRoot/<Category>/<Subcategory>/.
// Directory creation is idempotent and the move is atomic with respect to
// partial writes: either the file ends up complete at the destination and the
// source is gone, or the source is left untouched.
type Organizer struct {
	outputRoot string
}

func New(outputRoot string) (*Organizer, error) {
	if outputRoot == "" {
		return nil, fmt.Errorf("output root is required")
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	return &Organizer{outputRoot: outputRoot}, nil
}

func (o *Organizer) Root() string { return o.outputRoot }

// Place moves sourcePath into the slot's directory, resolving name collisions
// with a numeric suffix. Existing files are never overwritten.
func (o *Organizer) Place(ctx context.Context, sourcePath, category, subcategory string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.WrapError(domain.ErrMove, "place", err)
	}

	destDir := filepath.Join(o.outputRoot, sanitizeSegment(category), sanitizeSegment(subcategory))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", domain.WrapError(domain.ErrMove, "create category dir", err)
	}

	destPath, err := o.claimName(destDir, filepath.Base(sourcePath))
	if err != nil {
		return "", domain.WrapError(domain.ErrMove, "claim destination name", err)
	}

	if err := movePath(sourcePath, destPath); err != nil {
		_ = os.Remove(destPath)
		return "", domain.WrapError(domain.ErrMove, "move file", err)
	}
	return destPath, nil
}

// claimName reserves a collision-free destination name with O_EXCL so
// concurrent workers cannot claim the same name twice.
func (o *Organizer) claimName(destDir, filename string) (string, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for counter := 0; ; counter++ {
		name := filename
		if counter > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, counter, ext)
		}
		path := filepath.Join(destDir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", err
		}
		_ = f.Close()
		return path, nil
	}
}

// movePath renames source over the already-claimed destination, falling back
// to copy+rename when the rename crosses filesystems. The source is removed
// only after the destination is complete.
func movePath(sourcePath, destPath string) error {
	if err := os.Rename(sourcePath, destPath); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return err
	}

	tmpPath := destPath + ".part"
	if err := copyFile(sourcePath, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Remove(sourcePath); err != nil {
		// keep the source authoritative when it cannot be consumed
		_ = os.Remove(destPath)
		return err
	}
	return nil
}

func copyFile(sourcePath, destPath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return strings.Contains(linkErr.Err.Error(), "cross-device")
}

// sanitizeSegment keeps taxonomy names usable as directory names. Slashes in
// names like "College/Academics" become dashes instead of path separators.
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	name = strings.ReplaceAll(name, "/", "-")
	if name == "" {
		name = "Uncategorized"
	}
	return name
}
