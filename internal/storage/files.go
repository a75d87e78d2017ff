// Package storage writes uploaded survey files to disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/roadscan/internal/domain"
)

const sniffLen = 512

// FileManager stores uploads under baseDir/<kind>/<uuid><ext>, enforcing a
// byte limit per kind.
type FileManager struct {
	baseDir string
	limits  map[domain.UploadKind]int64
}

// NewFileManager creates the per-kind directories under baseDir. A limit of
// zero or less means unlimited for that kind.
func NewFileManager(baseDir string, limits map[domain.UploadKind]int64) (*FileManager, error) {
	fm := &FileManager{baseDir: baseDir, limits: limits}
	for _, kind := range []domain.UploadKind{domain.UploadData, domain.UploadVideo} {
		dir := fm.dir(kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage.NewFileManager: create dir %s: %w", dir, err)
		}
	}
	return fm, nil
}

// Limit returns the maximum size in bytes for kind, or 0 when unlimited.
func (fm *FileManager) Limit(kind domain.UploadKind) int64 {
	return max(fm.limits[kind], 0)
}

func (fm *FileManager) dir(kind domain.UploadKind) string {
	return filepath.Join(fm.baseDir, string(kind))
}

// Save streams r to a new file for kind, keeping the extension of fileName.
// progress, when non-nil, is called with the running byte count after each
// chunk. The first bytes are sniffed and rejected with
// domain.ErrUnsupportedFormat when they do not look like kind. Exceeding the
// limit fails with domain.ErrTooLarge, and a cancelled ctx with
// domain.ErrCancelled. On any error the partial file is removed.
func (fm *FileManager) Save(ctx context.Context, kind domain.UploadKind, fileName string, r io.Reader, progress func(written int64)) (string, int64, error) {
	sample := make([]byte, sniffLen)
	n, err := io.ReadFull(r, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", 0, fmt.Errorf("storage.FileManager.Save: read sample: %w", err)
	}
	sample = sample[:n]

	contentType := strings.ToLower(http.DetectContentType(sample))
	if !acceptsContentType(kind, contentType) {
		return "", 0, fmt.Errorf("storage.FileManager.Save: %w: content looks like %s, not %s", domain.ErrUnsupportedFormat, contentType, kind)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
	path := filepath.Join(fm.dir(kind), name)

	written, err := fm.writeWithLimit(ctx, path, fm.Limit(kind), sample, r, progress)
	if err != nil {
		return "", written, fmt.Errorf("storage.FileManager.Save: %w", err)
	}
	return path, written, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (fm *FileManager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage.FileManager.Remove: %w", err)
	}
	return nil
}

func (fm *FileManager) writeWithLimit(ctx context.Context, path string, limit int64, sample []byte, r io.Reader, progress func(int64)) (int64, error) {
	if limit > 0 && int64(len(sample)) > limit {
		return 0, domain.ErrTooLarge
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	total := int64(0)

	cleanup := func(err error) (int64, error) {
		out.Close()
		os.Remove(path)
		return total, err
	}

	report := func() {
		if progress != nil {
			progress(total)
		}
	}

	if len(sample) > 0 {
		if _, err := out.Write(sample); err != nil {
			return cleanup(fmt.Errorf("write sample: %w", err))
		}
		total += int64(len(sample))
		report()
	}

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return cleanup(fmt.Errorf("%w: %w", domain.ErrCancelled, err))
		}

		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if limit > 0 && total > limit {
				return cleanup(domain.ErrTooLarge)
			}
			if _, werr := out.Write(buf[:n]); werr != nil {
				return cleanup(fmt.Errorf("write file: %w", werr))
			}
			report()
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return cleanup(fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err()))
			}
			return cleanup(fmt.Errorf("read content: %w", err))
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return total, fmt.Errorf("close file: %w", err)
	}
	return total, nil
}

// acceptsContentType reports whether a sniffed type is plausible for kind.
// Undetectable content (application/octet-stream) is let through and left
// to the extension check and, for data, the parser.
func acceptsContentType(kind domain.UploadKind, contentType string) bool {
	if strings.HasPrefix(contentType, "application/octet-stream") {
		return true
	}
	switch kind {
	case domain.UploadData:
		return strings.HasPrefix(contentType, "text/") || strings.HasPrefix(contentType, "application/json")
	case domain.UploadVideo:
		return strings.HasPrefix(contentType, "video/")
	}
	return false
}
