// Package seed reads a YAML contact list used to pre-fill the address book.
// The file is only read; changes made during a session are not written back.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/addressbook/internal/contact"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrDuplicate = errors.New("seed: duplicate contact")
	ErrNoName    = errors.New("seed: contact without name")
)

// File is the on-disk seed layout.
type File struct {
	Contacts []Entry `yaml:"contacts"`
}

// Entry is one contact in a seed file.
type Entry struct {
	Name     string   `yaml:"name"`
	Phones   []string `yaml:"phones"`
	Birthday string   `yaml:"birthday"`
}

// Load reads path and returns its contacts as validated records, in file order.
// An empty path yields no records.
func Load(path string) ([]*contact.Record, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: reading %s: %w", path, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return records, nil
}

// Parse decodes seed YAML. Unknown fields, invalid phones or birthdays and
// repeated names are rejected.
func Parse(data []byte) ([]*contact.Record, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("seed: parsing: %w", err)
	}

	seen := make(map[string]bool, len(f.Contacts))
	records := make([]*contact.Record, 0, len(f.Contacts))
	for i, e := range f.Contacts {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: contacts[%d]", ErrNoName, i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, e.Name)
		}
		seen[e.Name] = true

		r := contact.NewRecord(e.Name)
		for _, p := range e.Phones {
			if err := r.AddPhone(p); err != nil {
				return nil, fmt.Errorf("seed: contacts[%d] %s: %w", i, e.Name, err)
			}
		}
		if e.Birthday != "" {
			if err := r.AddBirthday(e.Birthday); err != nil {
				return nil, fmt.Errorf("seed: contacts[%d] %s: %w", i, e.Name, err)
			}
		}
		records = append(records, r)
	}
	return records, nil
}
