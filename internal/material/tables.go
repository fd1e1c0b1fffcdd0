package material

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables is the read-only reference data of one canonicalizer generation.
type Tables struct {
	Overrides map[string]map[string]string
	External  map[string]string
	Builtin   map[string]string
	Keywords  []KeywordRule

	// fuzzyKeys is the sorted union of External and Builtin keys.
	fuzzyKeys []string
}

// NewTables combines the loaded tables with the built-in dictionary and
// keyword rules. Keys are expected in lower case.
func NewTables(external map[string]string, overrides map[string]map[string]string) *Tables {
	if external == nil {
		external = map[string]string{}
	}
	if overrides == nil {
		overrides = map[string]map[string]string{}
	}
	t := &Tables{
		Overrides: overrides,
		External:  external,
		Builtin:   builtin,
		Keywords:  keywordRules,
	}
	seen := make(map[string]struct{}, len(external)+len(builtin))
	for k := range builtin {
		seen[k] = struct{}{}
	}
	for k := range external {
		seen[k] = struct{}{}
	}
	t.fuzzyKeys = make([]string, 0, len(seen))
	for k := range seen {
		t.fuzzyKeys = append(t.fuzzyKeys, k)
	}
	sort.Strings(t.fuzzyKeys)
	return t
}

// LoadTables reads the external mapping CSV and the override YAML. A
// missing file yields an empty table.
func LoadTables(mappingPath, overridesPath string) (*Tables, error) {
	external := map[string]string{}
	if err := readOptional(mappingPath, func(r io.Reader) error {
		m, err := ParseExternal(r)
		external = m
		return err
	}); err != nil {
		return nil, fmt.Errorf("material: load mapping %s: %w", mappingPath, err)
	}

	overrides := map[string]map[string]string{}
	if err := readOptional(overridesPath, func(r io.Reader) error {
		m, err := ParseOverrides(r)
		overrides = m
		return err
	}); err != nil {
		return nil, fmt.Errorf("material: load overrides %s: %w", overridesPath, err)
	}
	return NewTables(external, overrides), nil
}

func readOptional(path string, parse func(io.Reader) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return parse(f)
}

// ParseExternal reads "source,canonical" rows. The header row is optional
// and rows missing either column are ignored.
func ParseExternal(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := map[string]string{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		src := strings.ToLower(strings.TrimSpace(row[0]))
		if src == "source" {
			continue
		}
		canonical := ""
		if len(row) > 1 {
			canonical = strings.TrimSpace(row[1])
		}
		if src != "" && canonical != "" {
			out[src] = canonical
		}
	}
}

// ParseOverrides reads a YAML document of the form
//
//	mervis:
//	  ferrous sale clips: Clips
//
// Customer names and sources are lower-cased.
func ParseOverrides(r io.Reader) (map[string]map[string]string, error) {
	var raw map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	out := make(map[string]map[string]string, len(raw))
	for customer, entries := range raw {
		ck := strings.ToLower(strings.TrimSpace(customer))
		m := make(map[string]string, len(entries))
		for src, canonical := range entries {
			if s, c := strings.ToLower(strings.TrimSpace(src)), strings.TrimSpace(canonical); s != "" && c != "" {
				m[s] = c
			}
		}
		out[ck] = m
	}
	return out, nil
}
