package diagfmt

import (
	"encoding/json"
	"go/token"
	"io"

	"github.com/google/uuid"

	"idlint/internal/diag"
	"idlint/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool           `json:"tool"`
	AutomationDetails sarifAutomation     `json:"automationDetails"`
	Invocations       []sarifInvocation   `json:"invocations,omitempty"`
	Results           []sarifResult       `json:"results"`
	OriginalURIBase   map[string]sarifURI `json:"originalUriBaseIds,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifURI struct {
	URI string `json:"uri"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif writes the diagnostics as a single-run SARIF 2.1.0 log. Every known
// code is listed as a rule so results can refer to it by index.
func Sarif(w io.Writer, bag *diag.Bag, fset *token.FileSet, meta SarifRunMeta) error {
	name := meta.ToolName
	if name == "" {
		name = "idlint"
	}
	guid := meta.RunID
	if guid == "" {
		guid = uuid.NewString()
	}

	codes := diag.Codes()
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, 0, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules = append(rules, sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}})
	}

	mode := PathModeAbsolute
	var bases map[string]sarifURI
	baseID := ""
	if meta.BaseDir != "" {
		mode = PathModeRelative
		baseID = "SRCROOT"
		bases = map[string]sarifURI{baseID: {URI: "file://" + source.FormatPath(meta.BaseDir, "absolute", "") + "/"}}
	}

	run := sarifRun{
		Tool:              sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
		AutomationDetails: sarifAutomation{GUID: guid},
		Results:           []sarifResult{},
		OriginalURIBase:   bases,
	}
	run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}

	if bag != nil {
		for _, d := range bag.Items() {
			res := sarifResult{
				RuleID:  d.Code.ID(),
				Level:   sarifLevel(d.Severity),
				Message: sarifMessage{Text: d.Message},
			}
			if idx, ok := ruleIndex[d.Code]; ok {
				res.RuleIndex = idx
			} else {
				res.RuleIndex = -1
			}
			if loc, ok := sarifLocationOf(d.Primary, fset, mode, meta.BaseDir, baseID); ok {
				res.Locations = []sarifLocation{loc}
			}
			for i, note := range d.Notes {
				loc, ok := sarifLocationOf(note.Span, fset, mode, meta.BaseDir, baseID)
				if !ok {
					continue
				}
				loc.ID = i + 1
				loc.Message = &sarifMessage{Text: note.Msg}
				res.RelatedLocations = append(res.RelatedLocations, loc)
			}
			run.Results = append(run.Results, res)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifLocationOf(sp source.Span, fset *token.FileSet, mode PathMode, baseDir, baseID string) (sarifLocation, bool) {
	loc, ok := source.Resolve(fset, sp)
	if !ok {
		return sarifLocation{}, false
	}
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifact{
				URI:       source.FormatPath(loc.Path, mode.String(), baseDir),
				URIBaseID: baseID,
			},
			Region: sarifRegion{
				StartLine:   loc.Start.Line,
				StartColumn: loc.Start.Col,
				EndLine:     loc.End.Line,
				EndColumn:   loc.End.Col,
			},
		},
	}, true
}
