// Package catalog loads the reference tables used by the scoring engine from
// the built-in defaults, a YAML file or Postgres.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

type fileEntry struct {
	Name     string                `yaml:"name"`
	Label    string                `yaml:"label"`
	Question string                `yaml:"question"`
	Stats    scoring.VariableStats `yaml:"stats"`
	Advice   map[string]string     `yaml:"advice"`
}

type fileDocument struct {
	Version   int         `yaml:"version"`
	Variables []fileEntry `yaml:"variables"`
}

const fileVersion = 1

// Decode reads a YAML catalog and validates it.
func Decode(r io.Reader) (*scoring.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty catalog document", scoring.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Version != 0 && doc.Version != fileVersion {
		return nil, fmt.Errorf("unsupported catalog version %d", doc.Version)
	}

	c := scoring.NewCatalog()
	for _, e := range doc.Variables {
		v := scoring.Variable(e.Name)
		if !v.IsKnown() {
			return nil, fmt.Errorf("%w: unknown variable %q", scoring.ErrInvalidCatalog, e.Name)
		}
		if _, dup := c.Stats[v]; dup {
			return nil, fmt.Errorf("%w: variable %q listed twice", scoring.ErrInvalidCatalog, e.Name)
		}

		c.Stats[v] = e.Stats
		c.Labels[v] = e.Label
		c.Questions[v] = e.Question
		for tier, text := range e.Advice {
			if !isTier(tier) {
				return nil, fmt.Errorf("%w: %s has unknown advice tier %q", scoring.ErrInvalidCatalog, e.Name, tier)
			}
			c.SetAdvice(v, scoring.Tier(tier), text)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads and validates the catalog at path.
func LoadFile(path string) (*scoring.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Encode writes c as YAML in canonical variable order.
func Encode(w io.Writer, c *scoring.Catalog) error {
	doc := fileDocument{Version: fileVersion}
	for _, v := range scoring.Variables {
		advice := make(map[string]string, len(scoring.Tiers))
		for _, tier := range scoring.Tiers {
			advice[string(tier)] = c.Advice[v][tier]
		}
		doc.Variables = append(doc.Variables, fileEntry{
			Name:     string(v),
			Label:    c.Labels[v],
			Question: c.Questions[v],
			Stats:    c.Stats[v],
			Advice:   advice,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// WriteFile validates c and writes it to path.
func WriteFile(path string, c *scoring.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func isTier(name string) bool {
	for _, t := range scoring.Tiers {
		if string(t) == name {
			return true
		}
	}
	return false
}
