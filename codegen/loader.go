package codegen

import (
	"errors"
	"fmt"
	"go/types"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"
)

// ErrTypeCheck reports that a package does not type-check.
var ErrTypeCheck = errors.New("type check failed")

// PackageLoader loads and caches type-checked packages by directory.
type PackageLoader struct {
	mu    sync.Mutex
	cache map[string]*packages.Package
}

func NewPackageLoader() *PackageLoader {
	return &PackageLoader{cache: make(map[string]*packages.Package)}
}

// Load loads the package in dir.
func (l *PackageLoader) Load(dir string) (*packages.Package, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pkg, ok := l.cache[dir]; ok {
		return pkg, nil
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %q: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package in %q", dir)
	}
	pkg := pkgs[0]
	l.cache[dir] = pkg
	return pkg, nil
}

// Check loads the package in dir and verifies that every struct in
// structs is a struct type there. Package errors are aggregated, except
// those in previously generated files, which are about to be replaced.
func (l *PackageLoader) Check(dir string, structs []*StructInfo) error {
	pkg, err := l.Load(dir)
	if err != nil {
		return err
	}
	var errs error
	for _, e := range pkg.Errors {
		if strings.Contains(e.Pos, GeneratedSuffix) {
			continue
		}
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrTypeCheck, e))
	}
	if pkg.Types == nil {
		return errs
	}
	for _, s := range structs {
		obj := pkg.Types.Scope().Lookup(s.Name)
		tn, ok := obj.(*types.TypeName)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s is not a type in %s", ErrTypeCheck, s.Name, pkg.PkgPath))
			continue
		}
		if _, ok := tn.Type().Underlying().(*types.Struct); !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s is not a struct", ErrTypeCheck, s.Name))
		}
	}
	return errs
}
