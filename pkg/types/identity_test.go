// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       ManufacturerIdentity
		wantErr bool
	}{
		{
			name: "minimal valid identity",
			m:    ManufacturerIdentity{Name: "Siemens"},
		},
		{
			name: "full valid identity",
			m: ManufacturerIdentity{
				Name: "Siemens",
				Variations: []NameVariation{
					{Name: "Siemens Medical Solutions", StartYear: 1999, EndYear: 2008},
				},
				Acquisitions: []Acquisition{{Name: "Varian", Year: 2021}},
			},
		},
		{
			name: "open ended variation",
			m: ManufacturerIdentity{
				Name:       "GE",
				Variations: []NameVariation{{Name: "GE HealthCare", StartYear: 2023}},
			},
		},
		{
			name:    "empty canonical name",
			m:       ManufacturerIdentity{},
			wantErr: true,
		},
		{
			name: "empty variation name",
			m: ManufacturerIdentity{
				Name:       "Siemens",
				Variations: []NameVariation{{StartYear: 1999, EndYear: 2008}},
			},
			wantErr: true,
		},
		{
			name: "inverted variation window",
			m: ManufacturerIdentity{
				Name:       "Siemens",
				Variations: []NameVariation{{Name: "X", StartYear: 2010, EndYear: 2000}},
			},
			wantErr: true,
		},
		{
			name: "empty acquisition name",
			m: ManufacturerIdentity{
				Name:         "Siemens",
				Acquisitions: []Acquisition{{Year: 2021}},
			},
			wantErr: true,
		},
		{
			name: "acquisition without year",
			m: ManufacturerIdentity{
				Name:         "Siemens",
				Acquisitions: []Acquisition{{Name: "Varian"}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadConfig))
		})
	}
}

func TestGrantLabel(t *testing.T) {
	assert.Equal(t, "R01 CA123456 (NCI)", Grant{ID: "R01 CA123456", Agency: "NCI"}.Label())
	assert.Equal(t, "R01 CA123456", Grant{ID: "R01 CA123456"}.Label())
	assert.Equal(t, "NCI", Grant{Agency: "NCI"}.Label())
}
