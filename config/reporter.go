package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"baseliner/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare opens the report archive. When destination cannot be created the
// report goes to a temporary file, Name tells where.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{items: make(map[string]item), file: f}, nil
}

// item is a single archive member: either bytes captured during the run or
// a file on disk read when the report is closed (logs are still being
// written until then).
type item struct {
	path  string
	data  []byte
	added time.Time
}

// Report collects troubleshooting material for a run: effective
// configuration, dataset, logs and per unit artefacts. Members are written
// into a zip archive on Close. Nil report accepts everything and does
// nothing, so callers do not have to check whether --debug was given.
// Not safe for concurrent use.
type Report struct {
	items map[string]item
	file  *os.File
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store schedules file at path to be put into archive as name. Storing the
// same path under the same name again is allowed.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if old, exists := r.items[name]; exists && old.path != path {
		panic(fmt.Sprintf("report member %q is already taken by %s, refusing %s", name, old.path, path))
	}
	r.items[name] = item{path: path, added: time.Now()}
}

// StoreData puts data into archive as name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.items[name]; exists {
		panic(fmt.Sprintf("report member %q is already taken", name))
	}
	r.items[name] = item{data: data, added: time.Now()}
}

// Close writes the archive. Files which disappeared by then are listed in
// MANIFEST as absent.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		if cerr := r.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	arc := zip.NewWriter(r.file)
	names := r.names()

	var manifest strings.Builder
	for _, name := range names {
		status, werr := r.write(arc, name, r.items[name])
		if werr != nil {
			arc.Close()
			return fmt.Errorf("unable to add %s to report: %w", name, werr)
		}
		it := r.items[name]
		source := it.path
		if len(source) == 0 {
			source = "(captured)"
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s\t%s\n", it.added.UTC().Format(time.RFC3339), status, name, source)
	}
	if err := addMember(arc, "MANIFEST", time.Now(), strings.NewReader(manifest.String())); err != nil {
		arc.Close()
		return err
	}
	return arc.Close()
}

// names returns member names in natural order, so units/card-2 comes before
// units/card-10.
func (r *Report) names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

func (r *Report) write(arc *zip.Writer, name string, it item) (string, error) {
	if len(it.path) == 0 {
		return "stored", addMember(arc, name, it.added, strings.NewReader(string(it.data)))
	}

	info, err := os.Stat(it.path)
	if err != nil || !info.Mode().IsRegular() {
		return "absent", nil
	}
	f, err := os.Open(it.path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return "stored", addMember(arc, name, info.ModTime(), f)
}

func addMember(arc *zip.Writer, name string, modified time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(name), Method: zip.Deflate, Modified: modified})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
