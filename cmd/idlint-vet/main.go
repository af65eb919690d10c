// Command idlint-vet runs the idlint analyzer standalone or as a vet tool:
//
//	go vet -vettool=$(which idlint-vet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"idlint/internal/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
