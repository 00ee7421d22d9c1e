package ast

// Action is returned by a visitor callback to control traversal: Stop
// aborts the walk immediately, Continue descends into the node's
// children.
type Action int

const (
	Continue Action = iota
	Stop
)

// Visitor is a record of optional callbacks, one per node variant. A nil
// callback is treated as Continue with no side effect. The visitor is
// read-only with respect to tree topology: callbacks may mutate payloads
// (e.g. Type slots) but must not re-parent nodes.
type Visitor struct {
	Program      func(*Program) Action
	FunctionDecl func(*FunctionDecl) Action
	VarDecl      func(*VarDecl) Action
	ArrayDecl    func(*ArrayDecl) Action
	Block        func(*Block) Action
	If           func(*If) Action
	While        func(*While) Action
	DoWhile      func(*DoWhile) Action
	For          func(*For) Action
	Return       func(*Return) Action
	Break        func(*Break) Action
	ExprStmt     func(*ExprStmt) Action
	BinaryExpr   func(*BinaryExpr) Action
	UnaryExpr    func(*UnaryExpr) Action
	LiteralInt   func(*LiteralInt) Action
	LiteralChar  func(*LiteralChar) Action
	LiteralString func(*LiteralString) Action
	LiteralBool  func(*LiteralBool) Action
	Identifier   func(*Identifier) Action
	ArrayAccess  func(*ArrayAccess) Action
	Call         func(*Call) Action
	Assignment   func(*Assignment) Action
	TypeNode     func(*TypeNode) Action
}

// Accept invokes the variant's callback (if present), then — unless the
// callback returned Stop — recursively accepts each child in source
// order. It returns Stop if the walk was aborted anywhere in the subtree.
func Accept(n Node, v *Visitor) Action {
	if n == nil {
		return Continue
	}
	switch node := n.(type) {
	case *Program:
		if v.Program != nil && v.Program(node) == Stop {
			return Stop
		}
		for _, d := range node.Declarations {
			if Accept(d, v) == Stop {
				return Stop
			}
		}
	case *FunctionDecl:
		if v.FunctionDecl != nil && v.FunctionDecl(node) == Stop {
			return Stop
		}
		for _, p := range node.Parameters {
			if Accept(p, v) == Stop {
				return Stop
			}
		}
		if node.Body != nil && Accept(node.Body, v) == Stop {
			return Stop
		}
	case *VarDecl:
		if v.VarDecl != nil && v.VarDecl(node) == Stop {
			return Stop
		}
		if Accept(node.Initializer, v) == Stop {
			return Stop
		}
	case *ArrayDecl:
		if v.ArrayDecl != nil && v.ArrayDecl(node) == Stop {
			return Stop
		}
		for _, e := range node.Initializers {
			if Accept(e, v) == Stop {
				return Stop
			}
		}
	case *Block:
		if v.Block != nil && v.Block(node) == Stop {
			return Stop
		}
		for _, s := range node.Statements {
			if Accept(s, v) == Stop {
				return Stop
			}
		}
	case *If:
		if v.If != nil && v.If(node) == Stop {
			return Stop
		}
		if Accept(node.Condition, v) == Stop {
			return Stop
		}
		if Accept(node.Then, v) == Stop {
			return Stop
		}
		if Accept(node.Else, v) == Stop {
			return Stop
		}
	case *While:
		if v.While != nil && v.While(node) == Stop {
			return Stop
		}
		if Accept(node.Condition, v) == Stop {
			return Stop
		}
		if Accept(node.Body, v) == Stop {
			return Stop
		}
	case *DoWhile:
		if v.DoWhile != nil && v.DoWhile(node) == Stop {
			return Stop
		}
		if Accept(node.Body, v) == Stop {
			return Stop
		}
		if Accept(node.Condition, v) == Stop {
			return Stop
		}
	case *For:
		if v.For != nil && v.For(node) == Stop {
			return Stop
		}
		if Accept(node.Init, v) == Stop {
			return Stop
		}
		if Accept(node.Cond, v) == Stop {
			return Stop
		}
		if Accept(node.Incr, v) == Stop {
			return Stop
		}
		if Accept(node.Body, v) == Stop {
			return Stop
		}
	case *Return:
		if v.Return != nil && v.Return(node) == Stop {
			return Stop
		}
		if Accept(node.Value, v) == Stop {
			return Stop
		}
	case *Break:
		if v.Break != nil && v.Break(node) == Stop {
			return Stop
		}
	case *ExprStmt:
		if v.ExprStmt != nil && v.ExprStmt(node) == Stop {
			return Stop
		}
		if Accept(node.Expression, v) == Stop {
			return Stop
		}
	case *BinaryExpr:
		if v.BinaryExpr != nil && v.BinaryExpr(node) == Stop {
			return Stop
		}
		if Accept(node.Left, v) == Stop {
			return Stop
		}
		if Accept(node.Right, v) == Stop {
			return Stop
		}
	case *UnaryExpr:
		if v.UnaryExpr != nil && v.UnaryExpr(node) == Stop {
			return Stop
		}
		if Accept(node.Operand, v) == Stop {
			return Stop
		}
	case *LiteralInt:
		if v.LiteralInt != nil {
			return v.LiteralInt(node)
		}
	case *LiteralChar:
		if v.LiteralChar != nil {
			return v.LiteralChar(node)
		}
	case *LiteralString:
		if v.LiteralString != nil {
			return v.LiteralString(node)
		}
	case *LiteralBool:
		if v.LiteralBool != nil {
			return v.LiteralBool(node)
		}
	case *Identifier:
		if v.Identifier != nil {
			return v.Identifier(node)
		}
	case *ArrayAccess:
		if v.ArrayAccess != nil && v.ArrayAccess(node) == Stop {
			return Stop
		}
		if Accept(node.Array, v) == Stop {
			return Stop
		}
		if Accept(node.Index, v) == Stop {
			return Stop
		}
	case *Call:
		if v.Call != nil && v.Call(node) == Stop {
			return Stop
		}
		if Accept(node.Callee, v) == Stop {
			return Stop
		}
		for _, a := range node.Arguments {
			if Accept(a, v) == Stop {
				return Stop
			}
		}
	case *Assignment:
		if v.Assignment != nil && v.Assignment(node) == Stop {
			return Stop
		}
		if Accept(node.Target, v) == Stop {
			return Stop
		}
		if Accept(node.Value, v) == Stop {
			return Stop
		}
	case *TypeNode:
		if v.TypeNode != nil {
			return v.TypeNode(node)
		}
	default:
		panic("ast.Accept: unhandled node variant")
	}
	return Continue
}

// CountNodes returns the number of nodes visited in n's subtree,
// including n itself — a convenience built directly on Accept, mirroring
// the teacher's Walk-based Find*/Validate* helpers.
func CountNodes(n Node) int {
	count := 0
	v := &Visitor{
		Program:       func(*Program) Action { count++; return Continue },
		FunctionDecl:  func(*FunctionDecl) Action { count++; return Continue },
		VarDecl:       func(*VarDecl) Action { count++; return Continue },
		ArrayDecl:     func(*ArrayDecl) Action { count++; return Continue },
		Block:         func(*Block) Action { count++; return Continue },
		If:            func(*If) Action { count++; return Continue },
		While:         func(*While) Action { count++; return Continue },
		DoWhile:       func(*DoWhile) Action { count++; return Continue },
		For:           func(*For) Action { count++; return Continue },
		Return:        func(*Return) Action { count++; return Continue },
		Break:         func(*Break) Action { count++; return Continue },
		ExprStmt:      func(*ExprStmt) Action { count++; return Continue },
		BinaryExpr:    func(*BinaryExpr) Action { count++; return Continue },
		UnaryExpr:     func(*UnaryExpr) Action { count++; return Continue },
		LiteralInt:    func(*LiteralInt) Action { count++; return Continue },
		LiteralChar:   func(*LiteralChar) Action { count++; return Continue },
		LiteralString: func(*LiteralString) Action { count++; return Continue },
		LiteralBool:   func(*LiteralBool) Action { count++; return Continue },
		Identifier:    func(*Identifier) Action { count++; return Continue },
		ArrayAccess:   func(*ArrayAccess) Action { count++; return Continue },
		Call:          func(*Call) Action { count++; return Continue },
		Assignment:    func(*Assignment) Action { count++; return Continue },
		TypeNode:      func(*TypeNode) Action { count++; return Continue },
	}
	Accept(n, v)
	return count
}
