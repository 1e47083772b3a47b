package scan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"baseliner/analyze"
	"baseliner/extract"
)

// Manifest lists units with explicit parameters:
//
//	target: "2023"
//	units:
//	  - id: card--default
//	    file: src/Card.vue
//	    parameters:
//	      features: [grid]
type Manifest struct {
	Target string          `yaml:"target"`
	Units  []ManifestEntry `yaml:"units"`
}

type ManifestEntry struct {
	ID         string             `yaml:"id"`
	File       string             `yaml:"file"`
	Parameters analyze.Parameters `yaml:"parameters"`
}

// readManifest decodes manifest at path and turns its entries into units.
// Entry files are relative to the manifest and land in the source field of
// their kind unless the entry already sets it.
func readManifest(path string, ids idSet) (*Manifest, []Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read manifest: %w", err)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, nil, fmt.Errorf("unable to decode manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	units := make([]Unit, 0, len(m.Units))
	for i, e := range m.Units {
		if e.ID == "" && e.File == "" {
			return nil, nil, fmt.Errorf("manifest unit %d: either id or file is required", i+1)
		}
		u := Unit{Params: e.Parameters}
		if e.File != "" {
			u.Origin = filepath.Join(base, filepath.FromSlash(e.File))
			if err := attachFile(&u, e.File); err != nil {
				return nil, nil, fmt.Errorf("manifest unit %d: %w", i+1, err)
			}
		}
		if e.ID != "" {
			if !isPlainID(e.ID) {
				return nil, nil, fmt.Errorf("manifest unit %d: id %q must not contain path elements", i+1, e.ID)
			}
			u.ID = ids.assign(e.ID)
		} else {
			u.ID = ids.assign(unitID(e.File))
		}
		units = append(units, u)
	}
	return &m, units, nil
}

func attachFile(u *Unit, name string) error {
	data, err := os.ReadFile(u.Origin)
	if err != nil {
		return err
	}
	data, _, err = decodeSource(data)
	if err != nil {
		return err
	}
	kind, ok := extract.KindForPath(name, data)
	if !ok {
		return fmt.Errorf("unable to tell source kind of %s", name)
	}

	if u.Params.SourcePath == "" {
		u.Params.SourcePath = name
	}
	setSource(&u.Params, kind, string(data))
	return nil
}

// isPlainID reports whether id can name an export file inside the
// destination directory.
func isPlainID(id string) bool {
	return id != "." && id != ".." && !strings.ContainsAny(id, `/\`) && !strings.ContainsRune(id, 0)
}
