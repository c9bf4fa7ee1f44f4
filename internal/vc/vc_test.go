package vc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_EmbeddedList(t *testing.T) {
	t.Parallel()

	all := All()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, Version)
	assert.Equal(t, "yc", all[0].ID)

	ids := make(map[string]bool, len(all))
	for _, r := range all {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		assert.NotEmpty(t, r.Name)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	t.Parallel()

	first := All()
	first[0].Name = "changed"
	first[0].Focus[0] = "changed"

	second := All()
	assert.NotEqual(t, "changed", second[0].Name)
	assert.NotEqual(t, "changed", second[0].Focus[0])
}

func TestParse(t *testing.T) {
	t.Parallel()

	recs, version, err := Parse([]byte("version: 3\nvcs:\n  - id: x\n    name: X Ventures\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	require.Len(t, recs, 1)
	assert.Equal(t, "X Ventures", recs[0].Name)

	tests := []struct {
		name string
		data string
	}{
		{"missing id", "vcs:\n  - name: X\n"},
		{"missing name", "vcs:\n  - id: x\n"},
		{"duplicate id", "vcs:\n  - id: x\n    name: X\n  - id: x\n    name: Y\n"},
		{"not yaml", "vcs: [\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestMatchInvestors(t *testing.T) {
	t.Parallel()

	vcs := []Record{
		{ID: "yc", Name: "Y Combinator", ShortName: "YC"},
		{ID: "sequoia", Name: "Sequoia Capital", ShortName: "Sequoia"},
		{ID: "a16z", Name: "Andreessen Horowitz", ShortName: "a16z"},
	}

	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"Led by Sequoia with participation from a16z", []string{"sequoia", "a16z"}},
		{"backed by y combinator", []string{"yc"}},
		{"A YC W24 company", []string{"yc"}},
		{"Recycling startup", nil},
		{"sequoia led the round", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchInvestors(vcs, tt.text), tt.text)
	}
}
