package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseRate(t *testing.T) {
	tests := map[string][]string{
		"18":                                   {"18"},
		"18%":                                  {"18"},
		"0.28":                                 {"28"},
		"Exempt":                               {"0"},
		"12%-18%":                              {"12", "18"},
		"1% (without ITC) or 5% (without ITC)": {"1", "5"},
		"":                                     nil,
		"see notes":                            nil,
	}
	for in, want := range tests {
		got := parseRate(in)
		var strs []string
		for _, r := range got {
			strs = append(strs, r.String())
		}
		assert.Equal(t, want, strs, in)
	}
}

func TestParseSheet(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"HSN", "Description", "Rate"},
		{"8708", "Parts of motor vehicles", "28%"},
		{"Chapter 73", "heading row", ""},
		{"7318", "Screws, bolts", "18"},
		{"9983", "Other professional services", "12%-18%"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	entries, err := parseSheet(f, "")

	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "8708", entries[0].Code)
	assert.Equal(t, "28", entries[0].GSTRate.String())
	assert.Equal(t, "Screws, bolts", entries[1].Description)
	assert.Equal(t, "9983", entries[3].Code)
	assert.Equal(t, "18", entries[3].GSTRate.String())
}
