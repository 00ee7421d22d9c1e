// Package codegen is the documented hand-off point for assembly
// emission: out of scope for this front end, present only so the
// driver's --stop-after flags have something real to call.
package codegen

import (
	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/ir"
	"github.com/aledsdavies/glavnac/pkg/target"
)

// Emit reports that code generation is not implemented.
func Emit(mod ir.Module, diags *diag.Registry, tgt target.Info) []byte {
	diags.Report(diag.Internal, diag.Fatal, "<codegen>", 0, 0,
		"code generation is not implemented in this front end", "", "codegen.go", 0)
	return nil
}
