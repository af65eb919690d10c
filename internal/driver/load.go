package driver

import (
	"context"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"idlint/internal/diag"
	"idlint/internal/source"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedModule

func load(ctx context.Context, opts Options, fset *token.FileSet) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   opts.Tests,
		Fset:    fset,

		ParseFile: parseFile(externalRoots()),
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	return pkgs, nil
}

// externalRoots lists directories whose packages are only ever imported:
// the standard library and the module cache.
func externalRoots() []string {
	var dirs []string
	if root := build.Default.GOROOT; root != "" {
		dirs = append(dirs, filepath.Join(root, "src"))
	}
	cache := os.Getenv("GOMODCACHE")
	if cache == "" {
		if gopath := filepath.SplitList(build.Default.GOPATH); len(gopath) > 0 {
			cache = filepath.Join(gopath[0], "pkg", "mod")
		}
	}
	if cache != "" {
		dirs = append(dirs, cache)
	}
	return dirs
}

// parseFile drops function bodies from files under external roots.
// Directives live on declarations, so the index still sees them, and the
// type checker skips the bulk of dependency code.
func parseFile(external []string) func(*token.FileSet, string, []byte) (*ast.File, error) {
	return func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
		f, err := parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments|parser.SkipObjectResolution)
		if f == nil || !underAny(filename, external) {
			return f, err
		}
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			if fd.Recv == nil && fd.Name.Name == "init" {
				// init must keep a body
				fd.Body = &ast.BlockStmt{Lbrace: fd.Body.Lbrace, Rbrace: fd.Body.Rbrace}
				continue
			}
			fd.Body = nil
		}
		return f, err
	}
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// isTestMain reports the synthesized "pkg.test" main package.
func isTestMain(p *packages.Package) bool {
	return p.Name == "main" && strings.HasSuffix(p.ID, ".test")
}

// reportLoadErrors turns package errors into diagnostics. Type errors are
// summarized into a single info diagnostic since checking continues.
func reportLoadErrors(p *packages.Package, fset *token.FileSet, r diag.Reporter) {
	var typeErrs []packages.Error
	for _, e := range p.Errors {
		if e.Kind == packages.TypeError {
			typeErrs = append(typeErrs, e)
			continue
		}
		r.Report(diag.IOLoadPackageError, diag.SevError, errorSpan(fset, e.Pos),
			fmt.Sprintf("%s: %s", p.PkgPath, e.Msg), nil)
	}
	if len(typeErrs) > 0 {
		first := typeErrs[0]
		msg := fmt.Sprintf("%s has %d type error(s), checking best effort; first: %s", p.PkgPath, len(typeErrs), first.Msg)
		r.Report(diag.IOTypeErrors, diag.SevInfo, errorSpan(fset, first.Pos), msg, nil)
	}
}

// errorSpan maps a "file:line:col" position back into fset.
func errorSpan(fset *token.FileSet, pos string) source.Span {
	if pos == "" || pos == "-" {
		return source.Span{}
	}
	file, line, col := splitPos(pos)
	if file == "" || line <= 0 {
		return source.Span{}
	}
	var sp source.Span
	fset.Iterate(func(f *token.File) bool {
		if f.Name() != file {
			return true
		}
		if line > f.LineCount() {
			return false
		}
		start := f.LineStart(line)
		if col > 1 && int(start)-f.Base()+col-1 <= f.Size() {
			start += token.Pos(col - 1)
		}
		sp = source.At(start, 1)
		return false
	})
	return sp
}

func splitPos(pos string) (string, int, int) {
	// file:line:col or file:line; the file may itself contain ':'
	parts := strings.Split(pos, ":")
	nums := make([]int, 0, 2)
	for len(parts) > 1 && len(nums) < 2 {
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			break
		}
		nums = append([]int{n}, nums...)
		parts = parts[:len(parts)-1]
	}
	if len(nums) == 0 {
		return "", 0, 0
	}
	col := 0
	if len(nums) == 2 {
		col = nums[1]
	}
	return strings.Join(parts, ":"), nums[0], col
}
