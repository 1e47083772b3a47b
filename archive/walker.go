// Package archive reads source files packed into zip bundles.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrTooLarge is passed to VisitFunc for entries above the size limit.
var ErrTooLarge = errors.New("archive entry exceeds size limit")

// Entry is a regular file inside an archive.
type Entry struct {
	Archive  string // path of the archive itself
	Name     string // slash separated path inside archive
	Size     uint64
	Modified time.Time
}

// VisitFunc is called for every accepted entry. When content could not be
// read data is nil and err explains why, returning nil continues the walk.
// Any error returned stops it.
type VisitFunc func(e Entry, data []byte, err error) error

// Walk visits regular files under prefix in archive order. Accept is asked
// by name before anything is decompressed, nil accepts every entry. Entries
// with path traversal components (".." or absolute paths) make the whole
// archive unacceptable.
func Walk(archive, prefix string, limit int64, accept func(name string) bool, visit VisitFunc) error {
	r, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()
	}
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if accept != nil && !accept(f.Name) {
			continue
		}
		e := Entry{Archive: archive, Name: f.Name, Size: f.UncompressedSize64, Modified: f.Modified}
		data, err := read(f, limit)
		if err := visit(e, data, err); err != nil {
			return err
		}
	}
	return nil
}

func read(f *zip.File, limit int64) ([]byte, error) {
	if limit > 0 && f.UncompressedSize64 > uint64(limit) {
		return nil, ErrTooLarge
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var src io.Reader = rc
	if limit > 0 {
		// header sizes can lie
		src = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
