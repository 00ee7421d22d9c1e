package ast

// CloneType produces a structurally equal but independent TypeInfo, or
// nil if t is nil.
func CloneType(t *TypeInfo) *TypeInfo {
	if t == nil {
		return nil
	}
	clone := &TypeInfo{Kind: t.Kind, Size: t.Size}
	clone.Element = CloneType(t.Element)
	clone.Return = CloneType(t.Return)
	if t.Params != nil {
		clone.Params = make([]*TypeInfo, len(t.Params))
		for i, p := range t.Params {
			clone.Params[i] = CloneType(p)
		}
	}
	return clone
}

// Clone produces a structurally equal, independent copy of any AST node,
// recursing into every owned child. It is the only way to produce a
// second independent subtree; sharing is otherwise forbidden.
func Clone(n Node) Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *Program:
		decls := make([]Decl, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = Clone(d).(Decl)
		}
		return &Program{Position: v.Position, Declarations: decls}
	case *FunctionDecl:
		params := make([]*VarDecl, len(v.Parameters))
		for i, p := range v.Parameters {
			params[i] = Clone(p).(*VarDecl)
		}
		var body *Block
		if v.Body != nil {
			body = Clone(v.Body).(*Block)
		}
		return &FunctionDecl{
			Position: v.Position, Name: v.Name, Parameters: params,
			Body: body, ReturnType: CloneType(v.ReturnType), IsExternal: v.IsExternal,
		}
	case *VarDecl:
		return &VarDecl{
			Position: v.Position, Name: v.Name, Initializer: cloneExpr(v.Initializer),
			VarType: CloneType(v.VarType), IsArrayParam: v.IsArrayParam,
		}
	case *ArrayDecl:
		inits := make([]Expr, len(v.Initializers))
		for i, e := range v.Initializers {
			inits[i] = cloneExpr(e)
		}
		return &ArrayDecl{
			Position: v.Position, Name: v.Name, Size: v.Size,
			Initializers: inits, ElementType: CloneType(v.ElementType),
		}
	case *Block:
		stmts := make([]Stmt, len(v.Statements))
		for i, s := range v.Statements {
			stmts[i] = Clone(s).(Stmt)
		}
		return &Block{Position: v.Position, Statements: stmts}
	case *If:
		return &If{
			Position: v.Position, Condition: cloneExpr(v.Condition),
			Then: cloneStmt(v.Then), Else: cloneStmt(v.Else),
		}
	case *While:
		return &While{Position: v.Position, Condition: cloneExpr(v.Condition), Body: cloneStmt(v.Body)}
	case *DoWhile:
		return &DoWhile{Position: v.Position, Body: cloneStmt(v.Body), Condition: cloneExpr(v.Condition)}
	case *For:
		return &For{
			Position: v.Position, Init: cloneStmt(v.Init), Cond: cloneExpr(v.Cond),
			Incr: cloneExpr(v.Incr), Body: cloneStmt(v.Body),
		}
	case *Return:
		return &Return{Position: v.Position, Value: cloneExpr(v.Value)}
	case *Break:
		return &Break{Position: v.Position}
	case *ExprStmt:
		return &ExprStmt{Position: v.Position, Expression: cloneExpr(v.Expression)}
	case *BinaryExpr:
		return &BinaryExpr{
			Position: v.Position, Left: cloneExpr(v.Left), Operator: v.Operator,
			Right: cloneExpr(v.Right), Type: CloneType(v.Type),
		}
	case *UnaryExpr:
		return &UnaryExpr{
			Position: v.Position, Operand: cloneExpr(v.Operand), Operator: v.Operator,
			IsPrefix: v.IsPrefix, Type: CloneType(v.Type),
		}
	case *LiteralInt:
		return &LiteralInt{Position: v.Position, Value: v.Value}
	case *LiteralChar:
		return &LiteralChar{Position: v.Position, Value: v.Value}
	case *LiteralString:
		return &LiteralString{Position: v.Position, Value: v.Value}
	case *LiteralBool:
		return &LiteralBool{Position: v.Position, Value: v.Value}
	case *Identifier:
		return &Identifier{Position: v.Position, Name: v.Name, Type: CloneType(v.Type)}
	case *ArrayAccess:
		return &ArrayAccess{Position: v.Position, Array: cloneExpr(v.Array), Index: cloneExpr(v.Index)}
	case *Call:
		args := make([]Expr, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = cloneExpr(a)
		}
		return &Call{Position: v.Position, Callee: cloneExpr(v.Callee), Arguments: args}
	case *Assignment:
		return &Assignment{Position: v.Position, Target: cloneExpr(v.Target), Value: cloneExpr(v.Value)}
	case *TypeNode:
		return &TypeNode{Position: v.Position, TypeData: CloneType(v.TypeData)}
	default:
		panic("ast.Clone: unhandled node variant")
	}
}

func cloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	return Clone(e).(Expr)
}

func cloneStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	return Clone(s).(Stmt)
}
