// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity persists manufacturer identity configuration. Two
// backends share one interface: a YAML file for small hand-edited setups
// and SQLite for larger ones. The engine only ever reads; mutation
// happens through management commands.
package identity

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// ErrNotFound is returned when a named manufacturer does not exist.
var ErrNotFound = errors.New("manufacturer not found")

// Store is the identity persistence interface. List returns identities
// sorted by display order, ties broken by insertion order; the engine
// treats the returned slice as a read-only snapshot.
type Store interface {
	List() ([]types.ManufacturerIdentity, error)
	Put(m types.ManufacturerIdentity) error
	Delete(name string) error
	Reorder(names []string) error
	Close() error
}

// Open dispatches on the configured backend ("yaml" or "sqlite";
// default yaml).
func Open(cfg types.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "yaml":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return NewSQLStore(cfg.Path)
	default:
		return nil, errors.Newf("unknown store backend %q", cfg.Backend)
	}
}

// Select picks the named identities from a listing, preserving the
// listing's display order. Unknown names are reported so a typo does not
// silently drop a manufacturer from the results.
func Select(identities []types.ManufacturerIdentity, names []string) ([]types.ManufacturerIdentity, error) {
	if len(names) == 0 {
		return identities, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}

	var out []types.ManufacturerIdentity
	for _, m := range identities {
		key := strings.ToLower(m.Name)
		if wanted[key] {
			out = append(out, m)
			delete(wanted, key)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for n := range wanted {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return out, errors.Mark(
			errors.Newf("unknown manufacturers: %s", strings.Join(missing, ", ")),
			ErrNotFound)
	}
	return out, nil
}

// sortByDisplayOrder orders identities by DisplayOrder ascending, stable
// so insertion order breaks ties.
func sortByDisplayOrder(identities []types.ManufacturerIdentity) {
	sort.SliceStable(identities, func(i, j int) bool {
		return identities[i].DisplayOrder < identities[j].DisplayOrder
	})
}
