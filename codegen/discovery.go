package codegen

import (
	"fmt"
	"go/build"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedSuffix ends the name of every generated file.
const GeneratedSuffix = "_codec_gen.go"

// DiscoverPackages finds the Go packages in dir, and in its
// subdirectories when recursive is set. Hidden directories, vendor and
// testdata are skipped.
func DiscoverPackages(dir string, recursive bool) ([]*PackageInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", dir, err)
	}

	var pkgs []*PackageInfo
	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if path != absDir && (strings.HasPrefix(base, ".") || base == "vendor" || base == "testdata") {
			return filepath.SkipDir
		}
		if !recursive && path != absDir {
			return filepath.SkipDir
		}

		bp, err := build.ImportDir(path, 0)
		if err != nil || len(bp.GoFiles) == 0 {
			return nil
		}
		files := make([]string, 0, len(bp.GoFiles))
		for _, f := range bp.GoFiles {
			if strings.HasSuffix(f, GeneratedSuffix) {
				continue
			}
			files = append(files, filepath.Join(path, f))
		}
		pkgs = append(pkgs, &PackageInfo{
			Path:  bp.ImportPath,
			Dir:   path,
			Name:  bp.Name,
			Files: files,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", dir, err)
	}
	return pkgs, nil
}
