// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window TimeWindow
		year   int
		want   bool
	}{
		{"inside bounded", Window(1990, 2020), 2000, true},
		{"at lower bound", Window(1990, 2020), 1990, true},
		{"at upper bound", Window(1990, 2020), 2020, true},
		{"before bounded", Window(1990, 2020), 1989, false},
		{"after bounded", Window(1990, 2020), 2021, false},
		{"open start", TimeWindow{End: 2020}, 1500, true},
		{"open start past end", TimeWindow{End: 2020}, 2021, false},
		{"open end", TimeWindow{Start: 1990}, 2500, true},
		{"open end before start", TimeWindow{Start: 1990}, 1989, false},
		{"fully open", TimeWindow{}, 1234, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(tt.year))
		})
	}
}

func TestWindowIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   TimeWindow
		want   TimeWindow
		wantOK bool
	}{
		{"overlapping", Window(1990, 2010), Window(2000, 2020), Window(2000, 2010), true},
		{"contained", Window(1990, 2020), Window(2000, 2005), Window(2000, 2005), true},
		{"disjoint", Window(1990, 1999), Window(2005, 2020), TimeWindow{}, false},
		{"touching at one year", Window(1990, 2000), Window(2000, 2010), Window(2000, 2000), true},
		{"open start vs bounded", TimeWindow{End: 2020}, Window(2018, 2023), Window(2018, 2020), true},
		{"open end vs bounded", TimeWindow{Start: 1990}, Window(1980, 1995), Window(1990, 1995), true},
		{"fully open vs bounded", TimeWindow{}, Window(2018, 2023), Window(2018, 2023), true},
		{"both open", TimeWindow{}, TimeWindow{}, TimeWindow{}, true},
		{"open start disjoint", TimeWindow{End: 1999}, Window(2005, 2020), TimeWindow{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}

			// Intersection commutes.
			got2, ok2 := tt.b.Intersect(tt.a)
			assert.Equal(t, ok, ok2)
			assert.Equal(t, got, got2)
		})
	}
}

func TestWindowAdjacent(t *testing.T) {
	assert.True(t, Window(1990, 1999).Adjacent(Window(2000, 2010)))
	assert.True(t, Window(2000, 2010).Adjacent(Window(1990, 1999)))
	assert.False(t, Window(1990, 1999).Adjacent(Window(2001, 2010)), "one year gap")
	assert.False(t, Window(1990, 2000).Adjacent(Window(2000, 2010)), "overlapping, not adjacent")
	assert.False(t, TimeWindow{End: 1999}.Adjacent(TimeWindow{Start: 0, End: 2010}))
	assert.True(t, TimeWindow{End: 1999}.Adjacent(Window(2000, 2010)))
}

func TestWindowUnion(t *testing.T) {
	assert.Equal(t, Window(1990, 2020), Window(1990, 2010).Union(Window(2000, 2020)))
	assert.Equal(t, Window(1990, 2010), Window(1990, 1999).Union(Window(2000, 2010)))
	// An open bound absorbs the finite one.
	assert.Equal(t, TimeWindow{End: 2020}, TimeWindow{End: 2010}.Union(Window(1990, 2020)))
	assert.Equal(t, TimeWindow{Start: 1990}, Window(1990, 2010).Union(TimeWindow{Start: 2000}))
	assert.Equal(t, TimeWindow{}, TimeWindow{End: 2010}.Union(TimeWindow{Start: 2000}))
}

func TestWindowString(t *testing.T) {
	assert.Equal(t, "[1990,2020]", Window(1990, 2020).String())
	assert.Equal(t, "[..,2020]", TimeWindow{End: 2020}.String())
	assert.Equal(t, "[1990,..]", TimeWindow{Start: 1990}.String())
	assert.Equal(t, "[..]", TimeWindow{}.String())
}
