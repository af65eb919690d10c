package analyzer

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "plugins", "consumer")
}

func TestFactString(t *testing.T) {
	f := &paramDirectives{}
	if got := f.String(); got != "" {
		t.Errorf("empty fact = %q", got)
	}
}
