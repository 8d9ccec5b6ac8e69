// Package inbox finds report files dropped into <home>/import and files them
// under import/processed once imported.
package inbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes a CSV file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
	Mod  time.Time
}

// Dir is the subdirectory for files waiting to be imported.
const Dir = "import"

// ProcessedDir is the subdirectory for imported files.
const ProcessedDir = "import/processed"

// Scan returns CSV files in <home>/import/, sorted by name.
func Scan(home string) ([]FileInfo, error) {
	dir := filepath.Join(home, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
			Mod:  info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Latest returns the most recently modified file, the one an import without
// an explicit path picks up. Ties go to the later name. ok is false when the
// inbox is empty.
func Latest(home string) (FileInfo, bool, error) {
	files, err := Scan(home)
	if err != nil || len(files) == 0 {
		return FileInfo{}, false, err
	}
	latest := files[0]
	for _, f := range files[1:] {
		if !f.Mod.Before(latest.Mod) {
			latest = f
		}
	}
	return latest, true, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(home, fileName string) error {
	src := filepath.Join(home, Dir, fileName)
	dstDir := filepath.Join(home, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
