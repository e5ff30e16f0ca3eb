package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a YAML catalog. Unknown fields are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}

	return FromSnapshot(s)
}

// Encode writes the catalog as YAML.
func (c *Catalog) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Snapshot()); err != nil {
		return fmt.Errorf("encode catalog yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode catalog yaml: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
