package nwis

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	_, block, err := SplitHeader(sampleIV)
	require.NoError(t, err)
	table, err := ParseTable(block, '\t')
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "usgs.csv")
	require.NoError(t, Save(table, path))

	got, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, table.Len(), got.Len())
	require.Len(t, got.Columns, len(table.Columns))
	for i, c := range table.Columns {
		assert.Equal(t, c.Name, got.Columns[i].Name)
	}
	for i := range table.Index {
		assert.True(t, table.Index[i].Equal(got.Index[i]), "row %d index", i)
	}

	// The sentinel row survives the round trip as a missing value.
	assert.Equal(t, Missing, got.Rows[2][4])
	assert.Equal(t, Numeric(120.5), got.Rows[0][4])
}

func TestSaveLoadRoundTrip_SynthesizedIndex(t *testing.T) {
	block := "site_no\tsample_dt\tsample_tm\tp80154\n" +
		"15s\t10d\t5d\t14n\n" +
		"15565447\t2022-06-01\t08:30\t154\n"

	table, err := ParseTable(block, '\t')
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wq.csv")
	require.NoError(t, Save(table, path))

	got, err := Load(path)
	require.NoError(t, err)

	// The synthesized timestamp is materialized as a leading datetime
	// column on save.
	require.Equal(t, "datetime", got.Columns[0].Name)
	require.Equal(t, 1, got.Len())
	assert.True(t, table.Index[0].Equal(got.Index[0]))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_NoDatetimeColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSaveHeader(t *testing.T) {
	head := Header{"# line one", "# line two"}
	path := filepath.Join(t.TempDir(), "head.txt")
	require.NoError(t, SaveHeader(head, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# line one\n# line two\n", string(raw))
}
