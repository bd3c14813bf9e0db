// Package dex holds the embedded data set the damage calculator reads:
// species, moves, items, natures and the type chart.
package dex

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// Generation bounds handled by the calculator.
const (
	MinGeneration = 5
	MaxGeneration = 9
)

//go:embed data/*.yaml
var dataFS embed.FS

// Dex is the parsed data set, shared read-only across generations.
type Dex struct {
	species map[string]Species
	moves   map[string]Move
	items   map[string]Item
	natures map[string]Nature
	types   map[string]TypeData
}

// bytesProvider feeds an in-memory document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("dex: bytesProvider does not support Read")
}

// Load parses the embedded data set.
func Load() (*Dex, error) {
	return LoadFS(dataFS, "data")
}

// LoadFS parses every *.yaml file under dir in fsys. Files are merged, so a
// table can be split across files.
func LoadFS(fsys fs.FS, dir string) (*Dex, error) {
	paths, err := fs.Glob(fsys, dir+"/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadData, err)
	}
	sort.Strings(paths)

	k := koanf.New(".")
	for _, p := range paths {
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrBadData, p, err)
		}
		if err := k.Load(bytesProvider(raw), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrBadData, p, err)
		}
	}

	d := &Dex{}
	conf := koanf.UnmarshalConf{Tag: "koanf"}
	for _, t := range []struct {
		path string
		out  any
	}{
		{"species", &d.species},
		{"moves", &d.moves},
		{"items", &d.items},
		{"natures", &d.natures},
		{"types", &d.types},
	} {
		if err := k.UnmarshalWithConf(t.path, t.out, conf); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadData, t.path, err)
		}
	}

	if err := d.index(); err != nil {
		return nil, err
	}
	return d, nil
}

// index stamps IDs on every entry and checks that keys match their names.
func (d *Dex) index() error {
	for id, s := range d.species {
		if ToID(s.Name) != id {
			return fmt.Errorf("%w: species key %q does not match name %q", ErrBadData, id, s.Name)
		}
		if len(s.Types) == 0 {
			return fmt.Errorf("%w: species %q has no types", ErrBadData, s.Name)
		}
		s.ID = id
		d.species[id] = s
	}
	for id, m := range d.moves {
		if ToID(m.Name) != id {
			return fmt.Errorf("%w: move key %q does not match name %q", ErrBadData, id, m.Name)
		}
		if _, ok := d.types[m.Type]; !ok {
			return fmt.Errorf("%w: move %q has unknown type %q", ErrBadData, m.Name, m.Type)
		}
		m.ID = id
		d.moves[id] = m
	}
	for id, it := range d.items {
		if ToID(it.Name) != id {
			return fmt.Errorf("%w: item key %q does not match name %q", ErrBadData, id, it.Name)
		}
		it.ID = id
		d.items[id] = it
	}
	for id, n := range d.natures {
		if ToID(n.Name) != id {
			return fmt.Errorf("%w: nature key %q does not match name %q", ErrBadData, id, n.Name)
		}
		n.ID = id
		d.natures[id] = n
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultDex  *Dex
	defaultErr  error
)

// Default returns the embedded data set, parsing it on first use.
func Default() (*Dex, error) {
	defaultOnce.Do(func() {
		defaultDex, defaultErr = Load()
	})
	return defaultDex, defaultErr
}

// Gen returns the view of the data set for ruleset version n.
func (d *Dex) Gen(n int) (Generation, error) {
	if n < MinGeneration || n > MaxGeneration {
		return Generation{}, fmt.Errorf("%w: %d (supported %d-%d)", ErrUnsupportedGeneration, n, MinGeneration, MaxGeneration)
	}
	return Generation{num: n, dex: d}, nil
}

// Counts reports the table sizes.
func (d *Dex) Counts() map[string]int {
	return map[string]int{
		"species": len(d.species),
		"moves":   len(d.moves),
		"items":   len(d.items),
		"natures": len(d.natures),
		"types":   len(d.types),
	}
}
