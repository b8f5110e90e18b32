package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "caenergy/internal/errors"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv")
	writeFile(t, dir, "a.CSV")
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "~$a.csv")

	d := NewDiscovery(dir)
	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
}

func TestResolveDataFile_PrefersKnownNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aaa_first_alphabetically.csv")
	writeFile(t, dir, "Net_generation_for_California.csv")

	d := NewDiscovery(dir)
	file, err := d.ResolveDataFile(".")
	require.NoError(t, err)
	assert.Equal(t, "Net_generation_for_California.csv", file.Name)
}

func TestResolveDataFile_FallsBackToFirstCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zz_export.csv")
	writeFile(t, dir, "monthly_dump.csv")

	d := NewDiscovery(dir)
	file, err := d.ResolveDataFile(".")
	require.NoError(t, err)
	assert.Equal(t, "monthly_dump.csv", file.Name)
}

func TestResolveDataFile_FallsBackToWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "generation.xlsx")

	d := NewDiscovery(dir)
	file, err := d.ResolveDataFile(".")
	require.NoError(t, err)
	assert.Equal(t, "generation.xlsx", file.Name)
}

func TestResolveDataFile_NothingFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md")

	d := NewDiscovery(dir)
	_, err := d.ResolveDataFile(".")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
