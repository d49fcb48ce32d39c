package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.csv", []byte(csvData))
	a := writeFile(t, dir, "a.csv", []byte(csvData))

	paths, err := Expand([]string{filepath.Join(dir, "*.csv"), a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)

	_, err = Expand([]string{filepath.Join(dir, "*.zst")})
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", []byte(csvData))
	b := writeFile(t, dir, "b.csv.zst", compress(t, csvData))

	f := OpenFiles([]string{a, b})
	lines := collect(t, f.Next)
	require.NoError(t, f.Err())
	require.Len(t, lines, 4)

	assert.Equal(t, a, lines[0].Source)
	assert.Equal(t, b, lines[3].Source)
	assert.Equal(t, 2, lines[2].Number)
	assert.Equal(t, 2, f.FilesDone())
	assert.NoError(t, f.Close())
}

func TestFiles_MissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", []byte(csvData))

	f := OpenFiles([]string{a, filepath.Join(dir, "missing.csv")})
	lines := collect(t, f.Next)
	assert.Len(t, lines, 2)
	assert.Error(t, f.Err())
	assert.NoError(t, f.Close())
}
