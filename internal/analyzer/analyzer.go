// Package analyzer exposes the identifier checks as a go/analysis pass so
// they run under go vet, gopls and multichecker drivers.
package analyzer

import (
	"fmt"
	"go/types"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"

	"idlint/internal/check"
	"idlint/internal/config"
	"idlint/internal/diag"
	"idlint/internal/gohost"
	"idlint/internal/source"
	"idlint/internal/validate"
)

const doc = `check string arguments bound to idlint-tagged parameters

Parameters are tagged with directives on the function's doc comment:

	//idlint:resolve id PluginId
	func Register(id string)

and struct fields with an idlint struct tag. Constant string arguments bound
to a tagged parameter are validated against the tag's rules.`

var Analyzer = &analysis.Analyzer{
	Name:      "idlint",
	Doc:       doc,
	Run:       run,
	FactTypes: []analysis.Fact{new(paramDirectives)},
}

var (
	configPath string
	withNotes  bool
)

func init() {
	Analyzer.Flags.StringVar(&configPath, "config", "", "path to idlint.toml or .idlint.yaml (default: discovered from the working directory)")
	Analyzer.Flags.BoolVar(&withNotes, "notes", false, "attach the tagged parameter to each diagnostic")
}

// paramDirectives is exported for every function carrying resolve directives
// so calls from other packages see the tags.
type paramDirectives struct {
	Params gohost.ParamDirectives
}

func (*paramDirectives) AFact() {}

func (f *paramDirectives) String() string {
	names := make([]string, 0, len(f.Params))
	for name := range f.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		for _, a := range f.Params[name] {
			if v, ok := a.First(); ok {
				parts = append(parts, name+"="+v.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// factLookup answers from the package's own directives first, then from
// facts exported by dependencies.
type factLookup struct {
	pass  *analysis.Pass
	local gohost.DirectiveIndex
}

func (l factLookup) Directives(fn *types.Func) gohost.ParamDirectives {
	if p := l.local.Directives(fn); p != nil {
		return p
	}
	fn = fn.Origin()
	if fn.Pkg() == nil || fn.Pkg() == l.pass.Pkg {
		return nil
	}
	var fact paramDirectives
	if l.pass.ImportObjectFact(fn, &fact) {
		return fact.Params
	}
	return nil
}

var loadRegistry = sync.OnceValues(func() (*validate.Registry, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}
	return cfg.Registry()
})

func run(pass *analysis.Pass) (any, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, fmt.Errorf("idlint config: %w", err)
	}

	local := gohost.IndexDirectives(pass.Files, pass.TypesInfo)
	for fn, params := range local {
		if fn.Pkg() == pass.Pkg {
			pass.ExportObjectFact(fn, &paramDirectives{Params: params})
		}
	}

	h := gohost.New(&gohost.Package{
		Fset:       pass.Fset,
		Files:      pass.Files,
		Types:      pass.Pkg,
		Info:       pass.TypesInfo,
		Directives: factLookup{pass: pass, local: local},
	})
	rep := gohost.NewSuppressor(pass.Fset, pass.Files, diag.NewDedupReporter(passReporter{pass}))
	c := check.New(h, reg, check.Options{Notes: withNotes})
	for _, d := range h.Declarations() {
		c.Check(d, rep)
	}
	return nil, nil
}

// passReporter forwards diagnostics to the analysis pass.
type passReporter struct {
	pass *analysis.Pass
}

func (r passReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	d := analysis.Diagnostic{
		Pos:      primary.Start,
		End:      primary.End,
		Category: code.ID(),
		Message:  fmt.Sprintf("%s: %s", code.ID(), msg),
	}
	if sev < diag.SevError {
		d.Message = fmt.Sprintf("%s (%s)", d.Message, strings.ToLower(sev.String()))
	}
	for _, n := range notes {
		d.Related = append(d.Related, analysis.RelatedInformation{Pos: n.Span.Start, End: n.Span.End, Message: n.Msg})
	}
	r.pass.Report(d)
}
