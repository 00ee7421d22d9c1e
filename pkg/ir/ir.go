// Package ir is the documented hand-off point for IR generation and
// optimization: out of scope for this front end, present only so
// downstream stages and the driver's --stop-after flags have something
// real to call.
package ir

import (
	"github.com/aledsdavies/glavnac/pkg/ast"
	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/target"
)

// Module is the zero value this stub returns.
type Module struct{}

// Lower reports that IR generation is not implemented.
func Lower(prog *ast.Program, diags *diag.Registry, tgt target.Info) Module {
	diags.Report(diag.Internal, diag.Fatal, "<ir>", 0, 0,
		"IR generation is not implemented in this front end", "", "ir.go", 0)
	return Module{}
}
