package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Run generates a descriptor file for every package under cfg.Dir that
// declares marked structs. It returns the files written.
func Run(cfg Config, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	pkgs, err := DiscoverPackages(dir, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in %q", dir)
	}
	if cfg.OutputFile != "" && len(pkgs) > 1 {
		return nil, fmt.Errorf("output file set for %d packages", len(pkgs))
	}
	var loader *PackageLoader
	if cfg.Check {
		loader = NewPackageLoader()
	}
	var written []string
	for _, pkg := range pkgs {
		out, err := processPackage(cfg, pkg, loader, log)
		if err != nil {
			return written, fmt.Errorf("package %s: %w", pkg.Path, err)
		}
		if out != "" {
			written = append(written, out)
		}
	}
	return written, nil
}

func processPackage(cfg Config, pkg *PackageInfo, loader *PackageLoader, log *zap.Logger) (string, error) {
	var structs []*StructInfo
	for _, path := range pkg.Files {
		file, _, err := ParseFile(path)
		if err != nil {
			return "", err
		}
		ss, err := ExtractStructs(file, path)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		structs = append(structs, ss...)
	}
	if len(structs) == 0 {
		log.Debug("no marked structs", zap.String("package", pkg.Path))
		return "", nil
	}
	if loader != nil {
		if err := loader.Check(pkg.Dir, structs); err != nil {
			return "", err
		}
	}
	code, err := GenerateCode(pkg.Name, structs)
	if err != nil {
		return "", err
	}
	out := cfg.OutputFile
	if out == "" {
		out = filepath.Join(pkg.Dir, pkg.Name+GeneratedSuffix)
	}
	if err := os.WriteFile(out, code, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file %q: %w", out, err)
	}
	log.Info("generated", zap.String("package", pkg.Path), zap.String("file", out), zap.Int("types", len(structs)))
	return out, nil
}
