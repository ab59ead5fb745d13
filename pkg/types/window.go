// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// TimeWindow is a closed interval of years. A zero Start means the window
// is open on the lower side; a zero End means open on the upper side. The
// zero value is the fully open window.
type TimeWindow struct {
	Start int `json:"start,omitempty" yaml:"start,omitempty"`
	End   int `json:"end,omitempty" yaml:"end,omitempty"`
}

// Window returns a window bounded on both sides.
func Window(start, end int) TimeWindow {
	return TimeWindow{Start: start, End: end}
}

// IsOpen reports whether the window is unbounded on both sides.
func (w TimeWindow) IsOpen() bool {
	return w.Start == 0 && w.End == 0
}

// Contains reports whether year falls inside the window.
func (w TimeWindow) Contains(year int) bool {
	if w.Start != 0 && year < w.Start {
		return false
	}
	if w.End != 0 && year > w.End {
		return false
	}
	return true
}

// Overlaps reports whether the two windows share at least one year.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	_, ok := w.Intersect(o)
	return ok
}

// Adjacent reports whether the windows touch without overlapping, e.g.
// [1990,1999] and [2000,2010]. Union of adjacent windows is still a
// single interval.
func (w TimeWindow) Adjacent(o TimeWindow) bool {
	if w.End != 0 && o.Start != 0 && w.End+1 == o.Start {
		return true
	}
	if o.End != 0 && w.Start != 0 && o.End+1 == w.Start {
		return true
	}
	return false
}

// Intersect returns the overlap of the two windows. ok is false when the
// windows are disjoint.
func (w TimeWindow) Intersect(o TimeWindow) (TimeWindow, bool) {
	out := TimeWindow{Start: maxBound(w.Start, o.Start), End: minBound(w.End, o.End)}
	if out.Start != 0 && out.End != 0 && out.Start > out.End {
		return TimeWindow{}, false
	}
	return out, true
}

// Union returns the smallest window covering both inputs. It is only
// meaningful for overlapping or adjacent windows; the caller checks that.
func (w TimeWindow) Union(o TimeWindow) TimeWindow {
	out := TimeWindow{}
	if w.Start != 0 && o.Start != 0 {
		out.Start = min(w.Start, o.Start)
	}
	if w.End != 0 && o.End != 0 {
		out.End = max(w.End, o.End)
	}
	return out
}

// String renders the window for display and logs, e.g. "[1990,2020]",
// "[..,2020]", "[1990,..]", or "[..]" for fully open.
func (w TimeWindow) String() string {
	switch {
	case w.Start == 0 && w.End == 0:
		return "[..]"
	case w.Start == 0:
		return fmt.Sprintf("[..,%d]", w.End)
	case w.End == 0:
		return fmt.Sprintf("[%d,..]", w.Start)
	default:
		return fmt.Sprintf("[%d,%d]", w.Start, w.End)
	}
}

// maxBound treats 0 as -infinity for lower bounds.
func maxBound(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return max(a, b)
}

// minBound treats 0 as +infinity for upper bounds.
func minBound(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return min(a, b)
}
