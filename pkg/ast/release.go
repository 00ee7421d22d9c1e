package ast

// ReleaseType releases a TypeInfo's owned children in post-order. Go's
// garbage collector reclaims the memory; Release exists so the
// ownership contract (children first, then the node itself) is explicit
// and testable, and so a node can be safely released twice.
func ReleaseType(t *TypeInfo) {
	if t == nil {
		return
	}
	ReleaseType(t.Element)
	ReleaseType(t.Return)
	for _, p := range t.Params {
		ReleaseType(p)
	}
	t.Element = nil
	t.Return = nil
	t.Params = nil
}

// Release walks n post-order — children first, then the node's own
// owned strings and TypeInfo, then the node slot itself — severing
// every reference so a second Release on the same node (or its clone)
// is a safe no-op.
func Release(n Node) {
	switch v := n.(type) {
	case nil:
		return
	case *Program:
		for _, d := range v.Declarations {
			Release(d)
		}
		v.Declarations = nil
	case *FunctionDecl:
		for _, p := range v.Parameters {
			Release(p)
		}
		if v.Body != nil {
			Release(v.Body)
		}
		ReleaseType(v.ReturnType)
		v.Parameters, v.Body, v.ReturnType = nil, nil, nil
	case *VarDecl:
		Release(v.Initializer)
		ReleaseType(v.VarType)
		v.Initializer, v.VarType = nil, nil
	case *ArrayDecl:
		for _, e := range v.Initializers {
			Release(e)
		}
		ReleaseType(v.ElementType)
		v.Initializers, v.ElementType = nil, nil
	case *Block:
		for _, s := range v.Statements {
			Release(s)
		}
		v.Statements = nil
	case *If:
		Release(v.Condition)
		Release(v.Then)
		Release(v.Else)
		v.Condition, v.Then, v.Else = nil, nil, nil
	case *While:
		Release(v.Condition)
		Release(v.Body)
		v.Condition, v.Body = nil, nil
	case *DoWhile:
		Release(v.Body)
		Release(v.Condition)
		v.Body, v.Condition = nil, nil
	case *For:
		Release(v.Init)
		Release(v.Cond)
		Release(v.Incr)
		Release(v.Body)
		v.Init, v.Cond, v.Incr, v.Body = nil, nil, nil, nil
	case *Return:
		Release(v.Value)
		v.Value = nil
	case *Break:
		// no owned children
	case *ExprStmt:
		Release(v.Expression)
		v.Expression = nil
	case *BinaryExpr:
		Release(v.Left)
		Release(v.Right)
		ReleaseType(v.Type)
		v.Left, v.Right, v.Type = nil, nil, nil
	case *UnaryExpr:
		Release(v.Operand)
		ReleaseType(v.Type)
		v.Operand, v.Type = nil, nil
	case *LiteralInt, *LiteralChar, *LiteralBool:
		// no owned children
	case *LiteralString:
		v.Value = ""
	case *Identifier:
		ReleaseType(v.Type)
		v.Type = nil
	case *ArrayAccess:
		Release(v.Array)
		Release(v.Index)
		v.Array, v.Index = nil, nil
	case *Call:
		Release(v.Callee)
		for _, a := range v.Arguments {
			Release(a)
		}
		v.Callee, v.Arguments = nil, nil
	case *Assignment:
		Release(v.Target)
		Release(v.Value)
		v.Target, v.Value = nil, nil
	case *TypeNode:
		ReleaseType(v.TypeData)
		v.TypeData = nil
	default:
		panic("ast.Release: unhandled node variant")
	}
}
