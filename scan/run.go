// Package scan implements the analyze command: it turns files, directories,
// zip bundles and manifests into units, evaluates them and exports results.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"baseliner/analyze"
	"baseliner/archive"
	"baseliner/baseline"
	"baseliner/config"
	"baseliner/css"
	"baseliner/extract"
	"baseliner/report"
	"baseliner/state"
	dbg "baseliner/utils/debug"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("scan")

	manifest := cmd.String("manifest")
	if cmd.Args().Len() == 0 && len(manifest) == 0 {
		return errors.New("no input source has been specified")
	}

	env.Format = env.Cfg.Export.Format
	if name := cmd.String("format"); len(name) > 0 {
		format, err := config.ParseExportFormat(strings.TrimSpace(name))
		if err != nil {
			log.Warn("Unknown export format requested, using configured one", zap.Stringer("format", env.Format), zap.Error(err))
		} else {
			env.Format = format
		}
	}

	env.Destination = cmd.String("destination")
	if len(env.Destination) == 0 {
		env.Destination = env.Cfg.Export.Destination
	}
	if len(env.Destination) > 0 {
		if env.Destination, err = filepath.Abs(env.Destination); err != nil {
			return err
		}
	}
	env.Overwrite = cmd.Bool("overwrite") || env.Cfg.Export.Overwrite

	datasetPath := cmd.String("dataset")
	if len(datasetPath) == 0 {
		datasetPath = env.Cfg.Analysis.DatasetPath
	}
	if err := env.LoadDataset(datasetPath); err != nil {
		return err
	}

	s := newScanner(env, log)

	// command line wins over manifest, manifest over configuration
	env.Target = strings.TrimSpace(cmd.String("target"))
	if len(manifest) > 0 {
		m, units, err := readManifest(manifest, s.ids)
		if err != nil {
			return err
		}
		if len(env.Target) == 0 {
			env.Target = strings.TrimSpace(m.Target)
		}
		s.units = append(s.units, units...)
		env.Rpt.Store("manifest.yaml", manifest)
	}
	if len(env.Target) == 0 {
		env.Target = env.Cfg.Analysis.Target
	}
	if !baseline.KnownTarget(env.Target) {
		log.Warn("Unknown baseline target, widely available threshold will be used", zap.String("target", env.Target))
	}

	log.Info("Analysis starting",
		zap.Strings("sources", cmd.Args().Slice()), zap.String("target", env.Target), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Analysis completed", zap.Duration("elapsed", time.Since(start)), zap.Int("units", len(s.units)))
	}(time.Now())

	for _, src := range cmd.Args().Slice() {
		if perr := s.process(ctx, src); perr != nil {
			if ctx.Err() != nil {
				return perr
			}
			log.Error("Unable to process source", zap.String("source", src), zap.Error(perr))
			err = multierr.Append(err, fmt.Errorf("%s: %w", src, perr))
		}
	}

	if len(s.units) == 0 {
		log.Warn("Nothing to analyze")
		return err
	}

	results := s.evaluate(ctx)
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	err = multierr.Append(err, s.export(cmd.Root().Writer, results))

	if cmd.Bool("fail-on-non-baseline") {
		failed := 0
		for _, d := range results {
			if d.NonCompliantFeatures > 0 {
				failed++
			}
		}
		if failed > 0 {
			err = multierr.Append(err, fmt.Errorf("%d of %d units use features outside of baseline %s", failed, len(results), env.Target))
		}
	}
	return err
}

type scanner struct {
	env   *state.LocalEnv
	cfg   *config.AnalysisConfig
	log   *zap.Logger
	orch  *analyze.Orchestrator
	ids   idSet
	units []Unit
	runID string
	now   func() time.Time
}

func newScanner(env *state.LocalEnv, log *zap.Logger) *scanner {
	return &scanner{
		env:   env,
		cfg:   &env.Cfg.Analysis,
		log:   log,
		orch:  analyze.New(env.Dataset, log),
		ids:   idSet{},
		runID: report.NewRunID(),
		now:   time.Now,
	}
}

// process determines the input type (directory, archive, path inside
// archive or single file) and collects units accordingly.
func (s *scanner) process(ctx context.Context, src string) error {
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return s.processDir(ctx, head)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			prefix := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			return s.processArchive(ctx, head, prefix, "")
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		if !s.processFile(head, filepath.Base(head)) {
			return fmt.Errorf("input was not recognized as style source (%s)", head)
		}
		return nil
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir collects files under dir in natural order, skipping
// configured directories, and processes them.
func (s *scanner) processDir(ctx context.Context, dir string) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			s.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if path != dir && slices.Contains(s.cfg.SkipDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(files))

	count := len(s.units)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			s.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			if err := s.processArchive(ctx, path, "", strings.TrimSuffix(rel, filepath.Ext(rel))); err != nil {
				s.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}
		s.processFile(path, rel)
	}
	if len(s.units) == count {
		s.log.Debug("Nothing to analyze", zap.String("dir", dir))
	}
	return nil
}

// processArchive collects sources under prefix inside archive. Unit ids
// are rooted at pathOut.
func (s *scanner) processArchive(ctx context.Context, path, prefix, pathOut string) error {
	count := len(s.units)

	accept := func(name string) bool {
		dir := filepath.ToSlash(filepath.Dir(name))
		for part := range strings.SplitSeq(dir, "/") {
			if slices.Contains(s.cfg.SkipDirs, part) {
				return false
			}
		}
		return true
	}

	err := archive.Walk(path, prefix, s.cfg.MaxFileSize, accept, func(e archive.Entry, data []byte, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			s.log.Warn("Skipping file in archive", zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		rel := filepath.Join(pathOut, filepath.FromSlash(strings.TrimPrefix(strings.TrimPrefix(e.Name, prefix), "/")))
		s.addSource(data, rel, e.Archive+":"+e.Name)
		return nil
	})
	if err != nil {
		return err
	}
	if len(s.units) == count {
		s.log.Debug("Nothing to analyze", zap.String("archive", path), zap.String("prefix", prefix))
	}
	return nil
}

// processFile reads single source file, returns false when it was skipped.
func (s *scanner) processFile(path, rel string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		s.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
		return false
	}
	if fi.Size() > s.cfg.MaxFileSize {
		s.log.Warn("Skipping file, too large", zap.String("file", path), zap.Int64("size", fi.Size()))
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
		return false
	}
	return s.addSource(data, rel, path)
}

// addSource turns source content into a unit when its kind is recognized
// and enabled.
func (s *scanner) addSource(data []byte, rel, origin string) bool {
	if isBinary(data[:min(len(data), sniffLen)]) {
		s.log.Debug("Skipping binary file", zap.String("file", origin))
		return false
	}
	data, enc, err := decodeSource(data)
	if err != nil {
		s.log.Warn("Skipping file", zap.String("file", origin), zap.Error(err))
		return false
	}
	kind, ok := extract.KindForPath(rel, data)
	if !ok {
		s.log.Debug("Skipping file, not recognized as style source", zap.String("file", origin))
		return false
	}
	if !wants(s.cfg, kind) {
		s.log.Debug("Skipping file, detection is disabled", zap.String("file", origin), zap.String("kind", string(kind)))
		return false
	}

	u := Unit{
		ID:     s.ids.assign(unitID(rel)),
		Origin: origin,
		Params: analyze.Parameters{SourcePath: filepath.ToSlash(rel)},
	}
	setSource(&u.Params, kind, string(data))
	s.units = append(s.units, u)

	s.log.Debug("Unit added", zap.String("id", u.ID), zap.String("kind", string(kind)),
		zap.String("file", origin), zap.Stringer("encoding", enc))
	return true
}

// evaluate runs every collected unit through the orchestrator.
func (s *scanner) evaluate(ctx context.Context) []report.ExportData {
	results := make([]report.ExportData, 0, len(s.units))
	for _, u := range s.units {
		if ctx.Err() != nil {
			break
		}
		d, err := s.evaluateUnit(ctx, u)
		if err != nil {
			s.log.Error("Unable to analyze unit", zap.String("unit", u.ID), zap.Error(err))
			continue
		}
		results = append(results, d)
	}
	return results
}

func (s *scanner) evaluateUnit(ctx context.Context, u Unit) (d report.ExportData, rerr error) {
	defer func() {
		// one broken unit should not stop the run
		if r := recover(); r != nil {
			s.log.Error("Analysis ended with panic",
				zap.String("unit", u.ID), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("analysis panic: %v", r)
		}
	}()

	applyDefaults(&u.Params, s.cfg)
	ev := s.orch.Evaluate(ctx, u.ID, u.Params, s.env.Target)
	for _, msg := range ev.Errors {
		s.log.Warn("Analysis problem", zap.String("unit", u.ID), zap.String("problem", msg))
	}
	s.store(u, &ev)

	return report.Prepare(ev.Payload, s.runID, s.now()), nil
}

// store puts unit artifacts into debug report.
func (s *scanner) store(u Unit, ev *analyze.Evaluation) {
	if s.env.Rpt == nil {
		return
	}
	prefix := "units/" + u.ID + "/"
	for name, text := range unitSources(&u.Params) {
		s.env.Rpt.StoreData(prefix+name, []byte(text))
	}
	if len(ev.CSS) > 0 {
		s.env.Rpt.StoreData(prefix+"combined.css", []byte(ev.CSS))
	}
	if len(ev.Nodes) > 0 {
		s.env.Rpt.StoreData(prefix+"nodes.txt", []byte(css.Dump(ev.Nodes)))
	}

	tw := dbg.NewTreeWriter()
	tw.Section("unit %s", u.ID)
	if len(u.Origin) > 0 {
		tw.TextBlock(1, "origin", u.Origin)
	}
	tw.Line(1, "target: %s", ev.Payload.Target)
	tw.Line(1, "source: %s", ev.Payload.Source)
	tw.Line(1, "features: %s", strings.Join(ev.Payload.Features, ", "))
	if len(ev.Fragments) > 0 {
		tw.Section("fragments")
		for _, f := range ev.Fragments {
			tw.Line(1, "%s (%s) at %s", f.Origin, f.Pattern, f.Loc)
			tw.TextBlock(2, "css", f.CSS)
		}
	}
	if len(ev.Errors) > 0 {
		tw.Section("problems")
		for _, msg := range ev.Errors {
			tw.TextBlock(1, "error", msg)
		}
	}
	s.env.Rpt.StoreData(prefix+"summary.txt", []byte(tw.String()))
}

// export writes results to w, or to one file per unit when destination
// directory is configured.
func (s *scanner) export(w io.Writer, results []report.ExportData) error {
	if len(results) == 0 {
		return nil
	}
	if len(s.env.Destination) == 0 {
		if w == nil {
			w = os.Stdout
		}
		return report.WriteAll(w, s.env.Format, results)
	}

	var errs error
	for _, d := range results {
		name := filepath.Join(s.env.Destination, d.StoryID+s.env.Format.Ext())
		if err := s.writeFile(name, d); err != nil {
			s.log.Error("Unable to export unit", zap.String("unit", d.StoryID), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		s.log.Debug("Unit exported", zap.String("unit", d.StoryID), zap.String("to", name))
	}
	return errs
}

func (s *scanner) writeFile(name string, d report.ExportData) (err error) {
	if _, err := os.Stat(name); err == nil {
		if !s.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		s.log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return report.Write(f, s.env.Format, d)
}
