// Package driver loads Go packages and runs the identifier checks over them
// in parallel.
package driver

import (
	"context"
	"fmt"
	"go/token"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"idlint/internal/check"
	"idlint/internal/diag"
	"idlint/internal/gohost"
	"idlint/internal/observ"
	"idlint/internal/trace"
	"idlint/internal/validate"
)

type Options struct {
	Patterns       []string
	Dir            string
	Tests          bool
	Jobs           int // 0 = GOMAXPROCS
	Registry       *validate.Registry
	Notes          bool
	MaxDiagnostics int // 0 = unlimited
	Progress       ProgressSink
	Timer          *observ.Timer
}

// PackageResult is the outcome for one root package.
type PackageResult struct {
	Path       string
	Dir        string
	Files      []string
	Bag        *diag.Bag
	Suppressed int
	Elapsed    time.Duration
}

type Result struct {
	Fset     *token.FileSet
	Bag      *diag.Bag
	Packages []PackageResult
	// Suppressed counts diagnostics silenced by //idlint:ignore.
	Suppressed int
}

// Check loads the packages matching opts.Patterns and checks every root
// package. Diagnostics in the result are sorted and de-duplicated.
func Check(ctx context.Context, opts Options) (*Result, error) {
	tr := trace.FromContext(ctx)
	root := trace.Begin(tr, trace.ScopeDriver, "check", trace.ParentID(ctx))
	defer root.End("")
	ctx = trace.WithSpan(ctx, root)

	fset := token.NewFileSet()
	emit(opts.Progress, Event{Stage: StageLoad, Status: StatusWorking})

	var pkgs []*packages.Package
	err := opts.Timer.Track("load", func() (string, error) {
		span := trace.Begin(tr, trace.ScopePass, "load", root.ID())
		var err error
		pkgs, err = load(ctx, opts, fset)
		span.WithExtra("roots", strconv.Itoa(len(pkgs))).End("")
		return fmt.Sprintf("%d packages", len(pkgs)), err
	})
	if err != nil {
		emit(opts.Progress, Event{Stage: StageLoad, Status: StatusError, Err: err})
		return nil, err
	}

	roots := make([]*packages.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if !isTestMain(p) {
			roots = append(roots, p)
		}
	}
	for _, p := range roots {
		emit(opts.Progress, Event{Package: p.PkgPath, Stage: StageLoad, Status: StatusQueued})
	}

	emit(opts.Progress, Event{Stage: StageIndex, Status: StatusWorking})
	var index gohost.DirectiveIndex
	_ = opts.Timer.Track("index", func() (string, error) {
		span := trace.Begin(tr, trace.ScopePass, "index", root.ID())
		index = indexGraph(pkgs)
		span.WithExtra("funcs", strconv.Itoa(len(index))).End("")
		return fmt.Sprintf("%d tagged functions", len(index)), nil
	})

	results := make([]PackageResult, len(roots))
	emit(opts.Progress, Event{Stage: StageCheck, Status: StatusWorking})
	err = opts.Timer.Track("check", func() (string, error) {
		span := trace.Begin(tr, trace.ScopePass, "check", root.ID())
		defer span.End("")
		return fmt.Sprintf("%d packages", len(roots)), checkAll(ctx, opts, fset, roots, index, results, span.ID())
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Fset: fset, Bag: diag.NewBag(opts.MaxDiagnostics), Packages: results}
	merged := diag.NewBag(0)
	for _, pr := range results {
		merged.Merge(pr.Bag)
		res.Suppressed += pr.Suppressed
	}
	dedupByPosition(merged, fset)
	merged.Sort()
	res.Bag.Merge(merged)
	return res, nil
}

func jobsFor(opts Options, n int) int {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

func checkAll(ctx context.Context, opts Options, fset *token.FileSet, roots []*packages.Package,
	index gohost.DirectiveIndex, results []PackageResult, parent uint64) error {
	if len(roots) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts, len(roots)))
	for i, p := range roots {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = checkPackage(gctx, opts, fset, p, index, parent)
			return nil
		})
	}
	return g.Wait()
}

func checkPackage(ctx context.Context, opts Options, fset *token.FileSet, p *packages.Package,
	index gohost.DirectiveIndex, parent uint64) PackageResult {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePackage, "package:"+p.PkgPath, parent)
	start := time.Now()
	emit(opts.Progress, Event{Package: p.PkgPath, Stage: StageCheck, Status: StatusWorking})

	res := PackageResult{Path: p.PkgPath, Files: p.CompiledGoFiles, Bag: diag.NewBag(0)}
	if p.Module != nil {
		res.Dir = p.Module.Dir
	}
	sink := diag.BagReporter{Bag: res.Bag}
	reportLoadErrors(p, fset, sink)

	if p.Types != nil && p.TypesInfo != nil && len(p.Syntax) > 0 {
		h := gohost.New(&gohost.Package{
			Fset:       fset,
			Files:      p.Syntax,
			Types:      p.Types,
			Info:       p.TypesInfo,
			Directives: index,
		})
		sup := gohost.NewSuppressor(fset, p.Syntax, diag.NewDedupReporter(sink))
		c := check.New(h, opts.Registry, check.Options{Notes: opts.Notes})
		for _, d := range h.Declarations() {
			ds := trace.Begin(tr, trace.ScopeDecl, "decl:"+d.Name(), span.ID())
			c.Check(d, sup)
			ds.End("")
		}
		res.Suppressed = sup.Suppressed()
	}

	res.Elapsed = time.Since(start)
	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{Package: p.PkgPath, Stage: StageCheck, Status: status, Issues: res.Bag.Len(), Elapsed: res.Elapsed})
	span.WithExtra("diags", strconv.Itoa(res.Bag.Len())).End("")
	return res
}

// indexGraph collects resolve directives from every package in the import
// graph so calls into dependencies see their tags.
func indexGraph(pkgs []*packages.Package) gohost.DirectiveIndex {
	index := make(gohost.DirectiveIndex)
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.TypesInfo == nil || len(p.Syntax) == 0 {
			return
		}
		index.Merge(gohost.IndexDirectives(p.Syntax, p.TypesInfo))
	})
	return index
}

type posKey struct {
	file   string
	offset int
	code   diag.Code
	msg    string
}

// dedupByPosition drops diagnostics reported twice for the same source
// position; test variants parse the same files again under new positions.
func dedupByPosition(b *diag.Bag, fset *token.FileSet) {
	seen := make(map[posKey]struct{}, b.Len())
	b.Filter(func(d *diag.Diagnostic) bool {
		k := posKey{code: d.Code, msg: d.Message}
		if d.Primary.IsValid() {
			pos := fset.Position(d.Primary.Start)
			k.file, k.offset = pos.Filename, pos.Offset
		}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}
