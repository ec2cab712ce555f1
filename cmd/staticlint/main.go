// Command staticlint runs the analyzers the profile client is checked with:
// a set of go vet passes, ineffassign, nilerr, the project's nopasswordlog
// check and the staticcheck suites selected in staticlint.json.
//
// staticlint.json lives next to the binary and lists staticcheck, simple and
// stylecheck analyzers by name ("SA1000") or by prefix ("SA4", "S1"). Without
// the file only the always-on analyzers run.
package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/patric-chuzhbe/wordprofile/cmd/staticlint/nopasswordlog"
)

// Config is the name of the JSON file selecting the staticcheck analyzers.
const Config = `staticlint.json`

// ConfigData describes the structure of the configuration file.
type ConfigData struct {
	Staticcheck []string `json:"staticcheck"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		nopasswordlog.Analyzer,
	}

	multichecker.Main(append(checks, selectAnalyzers(cfg.Staticcheck)...)...)
}

func loadConfig() (ConfigData, error) {
	var cfg ConfigData
	appfile, err := os.Executable()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), Config))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)

	return cfg, err
}

// selectAnalyzers picks the honnef analyzers whose names start with one of
// the configured names.
func selectAnalyzers(names []string) []*analysis.Analyzer {
	var selected []*analysis.Analyzer
	for _, suite := range [][]*lint.Analyzer{staticcheck.Analyzers, simple.Analyzers, stylecheck.Analyzers} {
		for _, v := range suite {
			for _, name := range names {
				if strings.HasPrefix(v.Analyzer.Name, name) {
					selected = append(selected, v.Analyzer)
					break
				}
			}
		}
	}

	return selected
}
