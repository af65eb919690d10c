// Package check drives tag resolution, argument binding, constant evaluation
// and validation for one declaration at a time.
package check

import (
	"fmt"

	"idlint/internal/annot"
	"idlint/internal/binder"
	"idlint/internal/consteval"
	"idlint/internal/diag"
	"idlint/internal/host"
	"idlint/internal/semantic"
	"idlint/internal/source"
	"idlint/internal/validate"
)

// Options tune what a Checker reports.
type Options struct {
	// Notes attaches "parameter X is tagged Y" to every diagnostic.
	Notes bool
}

// Checker is stateless between Check calls; it may be shared by goroutines
// as long as the host is.
type Checker struct {
	host host.Host
	reg  *validate.Registry
	eval *consteval.Evaluator
	opts Options
}

// New returns a checker. A nil registry means validate.Default.
func New(h host.Host, reg *validate.Registry, opts ...Options) *Checker {
	if reg == nil {
		reg = validate.Default
	}
	c := &Checker{host: h, reg: reg, eval: consteval.New(h)}
	if len(opts) > 0 {
		c.opts = opts[0]
	}
	return c
}

type siteKey struct {
	arg source.Span
	tag semantic.Tag
}

// site is one argument position with a tag; params keeps every tagged
// parameter seen for it, values the union of constant values.
type site struct {
	key    siteKey
	params []host.Parameter
	values []string
	seen   map[string]struct{}
}

func (s *site) add(vals []string) {
	for _, v := range vals {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.values = append(s.values, v)
	}
}

func (s *site) addParam(p host.Parameter) {
	for _, q := range s.params {
		if q == p {
			return
		}
	}
	s.params = append(s.params, p)
}

// Check reports every violation found in decl to r.
func (c *Checker) Check(decl host.Declaration, r diag.Reporter) {
	if c == nil || c.host == nil || decl == nil || r == nil {
		return
	}
	for _, s := range c.collect(decl) {
		validator, ok := c.reg.ValidatorFor(s.key.tag)
		if !ok {
			continue
		}
		for _, v := range s.values {
			d, bad := validator(s.key.arg, v)
			if !bad {
				continue
			}
			if c.opts.Notes {
				for _, p := range s.params {
					d = d.WithNote(p.Span(), fmt.Sprintf("parameter %q is tagged %s", p.Name(), s.key.tag))
				}
			}
			diag.Emit(r, d)
		}
	}
}

// collect groups bound arguments by (argument span, tag) in discovery order.
func (c *Checker) collect(decl host.Declaration) []*site {
	var (
		order []*site
		index map[siteKey]*site
	)
	for _, b := range binder.Bind(c.host, decl) {
		for _, pa := range b.Args {
			tag, ok := annot.ResolveTag(pa.Param)
			if !ok {
				continue
			}
			if _, ok := c.reg.ValidatorFor(tag); !ok {
				continue
			}
			key := siteKey{arg: pa.Arg.Span(), tag: tag}
			s := index[key]
			if s == nil {
				if index == nil {
					index = make(map[siteKey]*site)
				}
				s = &site{key: key, seen: make(map[string]struct{})}
				index[key] = s
				order = append(order, s)
			}
			s.addParam(pa.Param)
			s.add(c.eval.Evaluate(pa.Arg))
		}
	}
	return order
}
