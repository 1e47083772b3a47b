// Package dataset holds the browser-compatibility table the analysis is
// checked against. The table is loaded once and never changes afterwards, so
// a *Dataset is safe for concurrent use.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"baseliner/common"
)

// KindFeature is the only entry kind eligible for analysis. Other kinds
// (moved, split) are redirects in the upstream data.
const KindFeature = "feature"

// Support is one browser with recorded support data.
type Support struct {
	Browser string `json:"browser" yaml:"browser"`
	Version string `json:"version" yaml:"version"`
}

// Status is the compatibility status of an entry.
type Status struct {
	Baseline common.BaselineStatus
	// Support keeps the order of the source document.
	Support []Support
}

// Entry describes a single web platform feature.
type Entry struct {
	Kind        string
	Name        string
	Description string
	Status      Status
}

// Browsers returns browser identifiers with support data, in dataset order.
func (e *Entry) Browsers() []string {
	out := make([]string, 0, len(e.Status.Support))
	for _, s := range e.Status.Support {
		out = append(out, s.Browser)
	}
	return out
}

// Lookup resolves feature identifiers. It is what the mapper and the
// aggregator depend on.
type Lookup interface {
	Lookup(id string) (*Entry, bool)
}

// Dataset is an immutable Lookup.
type Dataset struct {
	entries map[string]*Entry
	ids     []string
}

// New builds a dataset from already decoded entries.
func New(entries map[string]Entry) *Dataset {
	d := &Dataset{entries: make(map[string]*Entry, len(entries))}
	for id, e := range entries {
		d.entries[id] = &e
		d.ids = append(d.ids, id)
	}
	slices.Sort(d.ids)
	return d
}

// Lookup returns the entry for id.
func (d *Dataset) Lookup(id string) (*Entry, bool) {
	if d == nil {
		return nil, false
	}
	e, ok := d.entries[id]
	return e, ok
}

// Len returns number of entries.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// IDs returns all identifiers in lexical order.
func (d *Dataset) IDs() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.ids)
}

type rawEntry struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      struct {
		Baseline common.BaselineStatus `json:"baseline"`
		Support  json.RawMessage       `json:"support"`
	} `json:"status"`
}

// Parse decodes a web-features style document. Both the full distribution
// file ({"features": {...}, "browsers": ...}) and a bare id to entry object
// are accepted.
func Parse(data []byte) (*Dataset, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("unable to decode dataset: %w", err)
	}
	if features, ok := top["features"]; ok {
		top = nil
		if err := json.Unmarshal(features, &top); err != nil {
			return nil, fmt.Errorf("unable to decode dataset features: %w", err)
		}
	}

	entries := make(map[string]Entry, len(top))
	for id, raw := range top {
		var re rawEntry
		if err := json.Unmarshal(raw, &re); err != nil {
			return nil, fmt.Errorf("unable to decode dataset entry %q: %w", id, err)
		}
		support, err := orderedSupport(re.Status.Support)
		if err != nil {
			return nil, fmt.Errorf("unable to decode support of %q: %w", id, err)
		}
		name := re.Name
		if name == "" {
			name = id
		}
		entries[id] = Entry{
			Kind:        re.Kind,
			Name:        name,
			Description: re.Description,
			Status:      Status{Baseline: re.Status.Baseline, Support: support},
		}
	}
	return New(entries), nil
}

// orderedSupport walks the support object token by token, map decoding
// would lose the key order.
func orderedSupport(raw json.RawMessage) ([]Support, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("support is not an object")
	}

	var out []Support
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		browser, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		var version string
		switch vv := v.(type) {
		case nil:
			continue
		case string:
			version = vv
		default:
			version = fmt.Sprint(vv)
		}
		out = append(out, Support{Browser: browser, Version: version})
	}
	return out, nil
}

// Load reads a dataset from file. SQLite snapshots are recognized by
// extension, everything else is treated as JSON.
func Load(path string, log *zap.Logger) (*Dataset, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		ds  *Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db":
		ds, err = ReadSQLite(path)
	default:
		var data []byte
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("unable to read dataset: %w", err)
		}
		ds, err = Parse(data)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("Dataset loaded", zap.String("path", path), zap.Int("entries", ds.Len()))
	return ds, nil
}

//go:embed data/features.json
var defaultData []byte

var defaultDataset = sync.OnceValues(func() (*Dataset, error) {
	return Parse(defaultData)
})

// Default returns the dataset snapshot compiled into the program.
func Default() *Dataset {
	ds, err := defaultDataset()
	if err != nil {
		panic(fmt.Sprintf("embedded dataset is broken: %v", err))
	}
	return ds
}
