// Package semantic is the documented hand-off point for the semantic
// analyzer: out of scope for this front end, present only so downstream
// stages and the driver's --stop-after flags have something real to call.
package semantic

import (
	"github.com/aledsdavies/glavnac/pkg/ast"
	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/target"
)

// Result is the zero value this stub returns; a real semantic analyzer
// would return the same Program with type_info slots filled and a
// symbol table alongside it.
type Result struct {
	Program *ast.Program
}

// Analyze reports that semantic analysis is not implemented and returns
// the input Program unannotated.
func Analyze(prog *ast.Program, diags *diag.Registry, tgt target.Info) Result {
	diags.Report(diag.Internal, diag.Fatal, "<semantic>", 0, 0,
		"semantic analysis is not implemented in this front end", "", "semantic.go", 0)
	return Result{Program: prog}
}
