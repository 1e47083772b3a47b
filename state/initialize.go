package state

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"baseliner/dataset"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// LoadDataset selects compatibility data for the run: file from path when
// given, embedded snapshot otherwise.
func (e *LocalEnv) LoadDataset(path string) error {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		e.Dataset = dataset.Default()
		log.Debug("Using embedded dataset", zap.Int("entries", e.Dataset.Len()))
		return nil
	}
	ds, err := dataset.Load(path, log)
	if err != nil {
		return fmt.Errorf("unable to load dataset from %q: %w", path, err)
	}
	e.Dataset = ds
	e.Rpt.Store("dataset"+filepath.Ext(path), path)
	return nil
}
