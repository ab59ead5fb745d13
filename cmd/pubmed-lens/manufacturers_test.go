// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

func TestParseVariation(t *testing.T) {
	v, err := parseVariation("Siemens Medical Solutions:1999:2008")
	require.NoError(t, err)
	assert.Equal(t, types.NameVariation{
		Name: "Siemens Medical Solutions", StartYear: 1999, EndYear: 2008,
	}, v)

	// The name may itself contain colons; years come from the end.
	v, err = parseVariation("Odd:Name:2000:2010")
	require.NoError(t, err)
	assert.Equal(t, types.NameVariation{Name: "Odd:Name", StartYear: 2000, EndYear: 2010}, v)

	_, err = parseVariation("NoYears")
	require.Error(t, err)

	_, err = parseVariation("Name:abc:2010")
	require.Error(t, err)
}

func TestParseAcquisition(t *testing.T) {
	a, err := parseAcquisition("Varian:2021")
	require.NoError(t, err)
	assert.Equal(t, types.Acquisition{Name: "Varian", Year: 2021}, a)

	a, err = parseAcquisition("Some:Company:2021")
	require.NoError(t, err)
	assert.Equal(t, types.Acquisition{Name: "Some:Company", Year: 2021}, a)

	_, err = parseAcquisition("NoYear")
	require.Error(t, err)

	_, err = parseAcquisition("Varian:soon")
	require.Error(t, err)
}
