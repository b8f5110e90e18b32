package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "caenergy/internal/errors"
)

// PreferredDataFiles are the EIA export names the locator looks for before
// falling back to any CSV in the data directory. Order matters.
var PreferredDataFiles = []string{
	"Net_generation_for_California.csv",
	"eia_california_generation_annual.csv",
}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory, sorted by name
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.findByExtension(dir, ".csv")
}

// FindWorkbookFiles finds all Excel workbooks in the specified directory,
// sorted by name
func (d *Discovery) FindWorkbookFiles(dir string) ([]FileInfo, error) {
	xlsx, err := d.findByExtension(dir, ".xlsx")
	if err != nil {
		return nil, err
	}
	xls, err := d.findByExtension(dir, ".xls")
	if err != nil {
		return nil, err
	}
	files := append(xlsx, xls...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (d *Discovery) findByExtension(dir, ext string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ResolveDataFile picks the input export for a run: a preferred EIA file
// name when present, otherwise the first CSV in the directory, otherwise the
// first Excel workbook. Returns a NOT_FOUND error when the directory holds
// no usable export.
func (d *Discovery) ResolveDataFile(dir string) (FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	for _, name := range PreferredDataFiles {
		path := filepath.Join(fullPath, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return FileInfo{Path: path, Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
		}
	}

	csvs, err := d.FindCSVFiles(dir)
	if err != nil {
		return FileInfo{}, err
	}
	if len(csvs) > 0 {
		return csvs[0], nil
	}

	workbooks, err := d.FindWorkbookFiles(dir)
	if err != nil {
		return FileInfo{}, err
	}
	if len(workbooks) > 0 {
		return workbooks[0], nil
	}

	return FileInfo{}, apperrors.NewNotFoundError(
		fmt.Sprintf("data file (no CSV or Excel export in %s)", fullPath))
}
