// Package nopasswordlog reports logger calls that are handed a Password
// field, so credentials typed into the profile never reach the logs.
package nopasswordlog

import (
	"go/ast"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports a Password selector passed as an argument to a logging
// method of the zap sugared logger.
var Analyzer = &analysis.Analyzer{
	Name: "nopasswordlog",
	Doc:  "prohibits passing a Password field to logger calls",
	Run:  run,
}

var logMethods = map[string]bool{
	"Debug": true, "Debugf": true, "Debugln": true, "Debugw": true,
	"Info": true, "Infof": true, "Infoln": true, "Infow": true,
	"Warn": true, "Warnf": true, "Warnln": true, "Warnw": true,
	"Error": true, "Errorf": true, "Errorln": true, "Errorw": true,
	"Fatal": true, "Fatalf": true, "Fatalln": true, "Fatalw": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		// Exclude go-build cache files
		filename := pass.Fset.File(file.Pos()).Name()
		if isGoBuildCacheFile(filename) {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || !logMethods[sel.Sel.Name] {
				return true
			}

			for _, arg := range call.Args {
				if hasPasswordSelector(arg) {
					pass.Reportf(arg.Pos(), "do not log a Password field")
				}
			}

			return true
		})
	}
	return nil, nil
}

// hasPasswordSelector looks through the argument, so zap.String("p",
// profile.Password) is caught as well.
func hasPasswordSelector(expr ast.Expr) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if ok && sel.Sel.Name == "Password" {
			found = true
		}
		return !found
	})

	return found
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/") || strings.Contains(path, `\go-build\`)
}
