// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a manufacturer's name-variation and acquisition
// history into the set of time-bounded query terms valid for a requested
// year range.
package resolve

import (
	"sort"
	"strings"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// namedWindow pairs a searchable name with one candidate window and its
// declaration position, used for tie-breaking.
type namedWindow struct {
	name   string
	window types.TimeWindow
	order  int
}

// Resolve computes the ordered, non-overlapping term set for one identity
// within the requested range:
//
//  1. The canonical name counts as a variation valid over the full open
//     window unless it is literally declared among the variations. This
//     makes an identity with no history searchable by its own name and
//     keeps the canonical term spanning the whole requested range when
//     only acquired names carry explicit windows.
//  2. Acquisitions contribute a pre-acquisition alias term for the
//     acquired name, open-started and ending the year before the event.
//     Post-acquisition attribution rides on the canonical term; an
//     acquisition never modifies the acquirer's own terms.
//  3. Windows sharing a name are merged by union when they overlap or
//     touch, so one name never emits twice for the same year.
//  4. Each merged window is intersected with the requested range; empty
//     intersections contribute nothing.
//
// Output is ascending by window start (open start first), stable by
// declaration order on ties. A misconfigured identity returns an error
// marked types.ErrBadConfig.
func Resolve(m types.ManufacturerIdentity, requested types.TimeWindow) ([]types.ResolvedTerm, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var candidates []namedWindow
	order := 0

	canonicalDeclared := false
	for _, v := range m.Variations {
		if sameName(v.Name, m.Name) {
			canonicalDeclared = true
		}
		candidates = append(candidates, namedWindow{
			name:   v.Name,
			window: types.Window(v.StartYear, v.EndYear),
			order:  order,
		})
		order++
	}

	if !canonicalDeclared {
		candidates = append(candidates, namedWindow{name: m.Name, order: order})
		order++
	}

	for _, a := range m.Acquisitions {
		candidates = append(candidates, namedWindow{
			name:   a.Name,
			window: types.TimeWindow{End: a.Year - 1},
			order:  order,
		})
		order++
	}

	merged := mergeByName(candidates)

	var terms []namedWindow
	for _, c := range merged {
		w, ok := c.window.Intersect(requested)
		if !ok {
			continue
		}
		terms = append(terms, namedWindow{name: c.name, window: w, order: c.order})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		si, sj := terms[i].window.Start, terms[j].window.Start
		if si != sj {
			// Start 0 is an open lower bound and sorts first.
			if si == 0 || sj == 0 {
				return si == 0
			}
			return si < sj
		}
		return terms[i].order < terms[j].order
	})

	out := make([]types.ResolvedTerm, 0, len(terms))
	for _, t := range terms {
		out = append(out, types.ResolvedTerm{Name: t.name, Window: t.window})
	}
	return out, nil
}

// mergeByName unions overlapping or adjacent windows that share a name.
// Each merged group keeps the earliest declaration order of its members.
func mergeByName(candidates []namedWindow) []namedWindow {
	groups := make(map[string][]namedWindow)
	var names []string
	for _, c := range candidates {
		key := strings.ToLower(c.name)
		if _, ok := groups[key]; !ok {
			names = append(names, key)
		}
		groups[key] = append(groups[key], c)
	}

	var out []namedWindow
	for _, key := range names {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			si, sj := group[i].window.Start, group[j].window.Start
			if si != sj {
				if si == 0 || sj == 0 {
					return si == 0
				}
				return si < sj
			}
			return group[i].order < group[j].order
		})

		cur := group[0]
		for _, next := range group[1:] {
			if cur.window.Overlaps(next.window) || cur.window.Adjacent(next.window) {
				cur.window = cur.window.Union(next.window)
				cur.order = min(cur.order, next.order)
				continue
			}
			out = append(out, cur)
			cur = next
		}
		out = append(out, cur)
	}
	return out
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
