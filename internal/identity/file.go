// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// manufacturerFile is the on-disk YAML document.
type manufacturerFile struct {
	Manufacturers []types.ManufacturerIdentity `yaml:"manufacturers"`
}

// FileStore keeps the identity list in a single YAML file. A missing
// file reads as an empty list; writes create parent directories.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the YAML file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// List loads all identities, sorted by display order with file order
// breaking ties.
func (s *FileStore) List() ([]types.ManufacturerIdentity, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]types.ManufacturerIdentity, len(doc.Manufacturers))
	copy(out, doc.Manufacturers)
	sortByDisplayOrder(out)
	return out, nil
}

// Put inserts or replaces the identity keyed by canonical name
// (case-insensitive). New identities with no display order go to the end.
func (s *FileStore) Put(m types.ManufacturerIdentity) error {
	if err := m.Validate(); err != nil {
		return err
	}

	doc, err := s.load()
	if err != nil {
		return err
	}

	maxOrder := 0
	replaced := false
	for i, existing := range doc.Manufacturers {
		if existing.DisplayOrder > maxOrder {
			maxOrder = existing.DisplayOrder
		}
		if strings.EqualFold(existing.Name, m.Name) {
			if m.DisplayOrder == 0 {
				m.DisplayOrder = existing.DisplayOrder
			}
			doc.Manufacturers[i] = m
			replaced = true
		}
	}
	if !replaced {
		if m.DisplayOrder == 0 {
			m.DisplayOrder = maxOrder + 1
		}
		doc.Manufacturers = append(doc.Manufacturers, m)
	}
	return s.save(doc)
}

// Delete removes the identity by canonical name.
func (s *FileStore) Delete(name string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	for i, existing := range doc.Manufacturers {
		if strings.EqualFold(existing.Name, name) {
			doc.Manufacturers = append(doc.Manufacturers[:i], doc.Manufacturers[i+1:]...)
			return s.save(doc)
		}
	}
	return errors.Mark(errors.Newf("%q", name), ErrNotFound)
}

// Reorder assigns display order 1..n following names. Identities not
// named keep their relative order after the reordered ones.
func (s *FileStore) Reorder(names []string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	position := make(map[string]int, len(names))
	for i, n := range names {
		position[strings.ToLower(strings.TrimSpace(n))] = i + 1
	}

	next := len(names) + 1
	sortByDisplayOrder(doc.Manufacturers)
	for i := range doc.Manufacturers {
		if pos, ok := position[strings.ToLower(doc.Manufacturers[i].Name)]; ok {
			doc.Manufacturers[i].DisplayOrder = pos
		} else {
			doc.Manufacturers[i].DisplayOrder = next
			next++
		}
	}
	return s.save(doc)
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() (manufacturerFile, error) {
	var doc manufacturerFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, errors.Wrapf(err, "reading %s", s.path)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, errors.Wrapf(err, "parsing %s", s.path)
	}
	return doc, nil
}

func (s *FileStore) save(doc manufacturerFile) error {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrap(err, "marshaling manufacturer file")
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
