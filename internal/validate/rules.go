package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/mod/semver"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"idlint/internal/diag"
	"idlint/internal/source"
)

// DefaultForbidden lists names that cannot be used as a plugin id or name.
var DefaultForbidden = []string{"main", "console", "plugin", "config", "data"}

var (
	// group(.group)*.name
	pluginIDPattern = regexp.MustCompile(`^[a-zA-Z]+(?:\.[a-zA-Z]+)*\.[a-zA-Z]+(?:-[a-zA-Z0-9]+)*$`)
	// MAJOR.MINOR.PATCH followed by nothing, a pre-release or build metadata.
	// semver.IsValid accepts "v1" and "v1.2" too, so the shape is checked first.
	versionCorePattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(?:[-+]|$)`)
)

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set[fold(w)] = struct{}{}
	}
	return set
}

func (s wordSet) has(v string) bool {
	_, ok := s[fold(v)]
	return ok
}

// fold lowercases v. A cases.Caser keeps state, so one is made per call.
func fold(v string) string {
	return cases.Lower(language.Und).String(v)
}

func isBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

func hasSpace(v string) bool {
	return strings.IndexFunc(v, unicode.IsSpace) >= 0
}

func report(code diag.Code, anchor source.Span, format string, args ...any) (diag.Diagnostic, bool) {
	return diag.NewError(code, anchor, fmt.Sprintf(format, args...)), true
}

func checkPluginID(forbidden wordSet) Func {
	return func(anchor source.Span, v string) (diag.Diagnostic, bool) {
		switch {
		case isBlank(v):
			return report(diag.PluginIDBlank, anchor, "plugin id must not be blank")
		case forbidden.has(v):
			return report(diag.PluginIDReserved, anchor, "reserved word %q not allowed as plugin id", v)
		case !strings.Contains(v, "."):
			return report(diag.PluginIDNoSeparator, anchor,
				"plugin id %q must contain a group segment and a name segment separated by '.'", v)
		case !pluginIDPattern.MatchString(v):
			return report(diag.PluginIDPattern, anchor,
				"plugin id %q does not match required pattern groupId.name (letters, '-' only in name)", v)
		}
		return diag.Diagnostic{}, false
	}
}

func checkPluginName(forbidden wordSet) Func {
	return func(anchor source.Span, v string) (diag.Diagnostic, bool) {
		switch {
		case isBlank(v):
			return report(diag.PluginNameBlank, anchor, "plugin name must not be blank")
		case forbidden.has(v):
			return report(diag.PluginNameReserved, anchor, "reserved word %q not allowed as plugin name", v)
		}
		return diag.Diagnostic{}, false
	}
}

func checkPluginVersion(anchor source.Span, v string) (diag.Diagnostic, bool) {
	if versionCorePattern.MatchString(v) && semver.IsValid("v"+v) {
		return diag.Diagnostic{}, false
	}
	return report(diag.PluginVersionInvalid, anchor, "invalid version string %q, expected semantic version like 1.0.0", v)
}

func checkCommandName(anchor source.Span, v string) (diag.Diagnostic, bool) {
	switch {
	case isBlank(v):
		return report(diag.CommandNameBlank, anchor, "command name must not be blank")
	case hasSpace(v):
		return report(diag.CommandNameWhitespace, anchor, "whitespace not allowed in command name %q", v)
	case strings.Contains(v, ":"):
		return report(diag.CommandNameColon, anchor, "':' not allowed in command name %q", v)
	case strings.Contains(v, "."):
		return report(diag.CommandNameDot, anchor, "'.' not allowed in command name %q", v)
	}
	return diag.Diagnostic{}, false
}

// segmentRule checks a single permission segment (namespace or name).
type segmentRule struct {
	what                string
	blank, space, colon diag.Code
}

func (r segmentRule) check(anchor source.Span, v string) (diag.Diagnostic, bool) {
	switch {
	case isBlank(v):
		return report(r.blank, anchor, "%s must not be blank", r.what)
	case hasSpace(v):
		return report(r.space, anchor, "whitespace not allowed in %s %q", r.what, v)
	case strings.Contains(v, ":"):
		return report(r.colon, anchor, "':' not allowed in %s %q", r.what, v)
	}
	return diag.Diagnostic{}, false
}

var (
	permNamespaceRule = segmentRule{
		what:  "permission namespace",
		blank: diag.PermNamespaceBlank, space: diag.PermNamespaceWhitespace, colon: diag.PermNamespaceColon,
	}
	permNameRule = segmentRule{
		what:  "permission name",
		blank: diag.PermNameBlank, space: diag.PermNameWhitespace, colon: diag.PermNameColon,
	}
)

func checkPermissionID(anchor source.Span, v string) (diag.Diagnostic, bool) {
	switch {
	case isBlank(v):
		return report(diag.PermIDBlank, anchor, "permission id must not be blank")
	case hasSpace(v):
		return report(diag.PermIDWhitespace, anchor, "whitespace not allowed in permission id %q", v)
	case strings.Count(v, ":") != 1:
		return report(diag.PermIDSeparator, anchor,
			"permission id %q must have the form namespace:name (exactly one ':', found %d)", v, strings.Count(v, ":"))
	}
	return diag.Diagnostic{}, false
}
