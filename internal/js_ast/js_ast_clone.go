package js_ast

// Deep copies of tree fragments. Every node in the copy is a new pointer, so
// the copy can be inserted elsewhere in the tree without aliasing the
// original. Leading comments are copied too, which is how annotation
// comments such as "#__DISPOSE__" survive a copy.

func cloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	return append([]Comment{}, comments...)
}

func cloneUTF16(text []uint16) []uint16 {
	if text == nil {
		return nil
	}
	return append([]uint16{}, text...)
}

func cloneLocName(name *LocName) *LocName {
	if name == nil {
		return nil
	}
	clone := *name
	return &clone
}

func CloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	clone := make([]Expr, len(exprs))
	for i, expr := range exprs {
		clone[i] = CloneExpr(expr)
	}
	return clone
}

func CloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	clone := make([]Stmt, len(stmts))
	for i, stmt := range stmts {
		clone[i] = CloneStmt(stmt)
	}
	return clone
}

func CloneProperties(properties []Property) []Property {
	if properties == nil {
		return nil
	}
	clone := make([]Property, len(properties))
	for i, property := range properties {
		clone[i] = CloneProperty(property)
	}
	return clone
}

func CloneProperty(property Property) Property {
	property.Key = CloneExpr(property.Key)
	property.ValueOrNil = CloneExpr(property.ValueOrNil)
	property.InitializerOrNil = CloneExpr(property.InitializerOrNil)
	return property
}

func CloneFn(fn Fn) Fn {
	fn.Name = cloneLocName(fn.Name)
	fn.Args = cloneArgs(fn.Args)
	fn.Body.Stmts = CloneStmts(fn.Body.Stmts)
	return fn
}

func cloneArgs(args []Arg) []Arg {
	if args == nil {
		return nil
	}
	clone := make([]Arg, len(args))
	for i, arg := range args {
		clone[i] = Arg{Binding: CloneBinding(arg.Binding), DefaultOrNil: CloneExpr(arg.DefaultOrNil)}
	}
	return clone
}

func cloneClass(class Class) Class {
	class.Name = cloneLocName(class.Name)
	class.ExtendsOrNil = CloneExpr(class.ExtendsOrNil)
	class.Properties = CloneProperties(class.Properties)
	return class
}

func CloneExpr(expr Expr) Expr {
	clone := Expr{Loc: expr.Loc, Comments: cloneComments(expr.Comments)}

	switch e := expr.Data.(type) {
	case nil:
		return Expr{}

	case *EArray:
		clone.Data = &EArray{Items: CloneExprs(e.Items), IsSingleLine: e.IsSingleLine}

	case *EUnary:
		clone.Data = &EUnary{Op: e.Op, Value: CloneExpr(e.Value)}

	case *EBinary:
		clone.Data = &EBinary{Op: e.Op, Left: CloneExpr(e.Left), Right: CloneExpr(e.Right)}

	case *EBoolean:
		clone.Data = &EBoolean{Value: e.Value}

	case *ESuper:
		clone.Data = &ESuper{}

	case *ENull:
		clone.Data = &ENull{}

	case *EUndefined:
		clone.Data = &EUndefined{}

	case *EThis:
		clone.Data = &EThis{}

	case *ENew:
		clone.Data = &ENew{Target: CloneExpr(e.Target), Args: CloneExprs(e.Args), HasNoArgs: e.HasNoArgs}

	case *ENewTarget:
		clone.Data = &ENewTarget{}

	case *EImportMeta:
		clone.Data = &EImportMeta{}

	case *ECall:
		clone.Data = &ECall{Target: CloneExpr(e.Target), Args: CloneExprs(e.Args), OptionalChain: e.OptionalChain}

	case *EDot:
		clone.Data = &EDot{Target: CloneExpr(e.Target), Name: e.Name, NameLoc: e.NameLoc, OptionalChain: e.OptionalChain}

	case *EIndex:
		clone.Data = &EIndex{Target: CloneExpr(e.Target), Index: CloneExpr(e.Index), OptionalChain: e.OptionalChain}

	case *EArrow:
		clone.Data = &EArrow{
			Args:       cloneArgs(e.Args),
			Body:       FnBody{Loc: e.Body.Loc, Stmts: CloneStmts(e.Body.Stmts)},
			IsAsync:    e.IsAsync,
			HasRestArg: e.HasRestArg,
			PreferExpr: e.PreferExpr,
		}

	case *EFunction:
		clone.Data = &EFunction{Fn: CloneFn(e.Fn)}

	case *EClass:
		clone.Data = &EClass{Class: cloneClass(e.Class)}

	case *EIdentifier:
		clone.Data = &EIdentifier{Name: e.Name}

	case *EPrivateIdentifier:
		clone.Data = &EPrivateIdentifier{Name: e.Name}

	case *EMissing:
		clone.Data = &EMissing{}

	case *ENumber:
		clone.Data = &ENumber{Value: e.Value}

	case *EBigInt:
		clone.Data = &EBigInt{Value: e.Value}

	case *EObject:
		clone.Data = &EObject{Properties: CloneProperties(e.Properties), IsSingleLine: e.IsSingleLine}

	case *ESpread:
		clone.Data = &ESpread{Value: CloneExpr(e.Value)}

	case *EString:
		clone.Data = &EString{Value: cloneUTF16(e.Value)}

	case *ETemplate:
		parts := make([]TemplatePart, len(e.Parts))
		for i, part := range e.Parts {
			parts[i] = TemplatePart{
				Value:      CloneExpr(part.Value),
				TailLoc:    part.TailLoc,
				TailCooked: cloneUTF16(part.TailCooked),
				TailRaw:    part.TailRaw,
			}
		}
		clone.Data = &ETemplate{
			TagOrNil:   CloneExpr(e.TagOrNil),
			HeadLoc:    e.HeadLoc,
			HeadCooked: cloneUTF16(e.HeadCooked),
			HeadRaw:    e.HeadRaw,
			Parts:      parts,
		}

	case *ERegExp:
		clone.Data = &ERegExp{Value: e.Value}

	case *EAwait:
		clone.Data = &EAwait{Value: CloneExpr(e.Value)}

	case *EYield:
		clone.Data = &EYield{ValueOrNil: CloneExpr(e.ValueOrNil), IsStar: e.IsStar}

	case *EIf:
		clone.Data = &EIf{Test: CloneExpr(e.Test), Yes: CloneExpr(e.Yes), No: CloneExpr(e.No)}

	case *EImportCall:
		clone.Data = &EImportCall{Expr: CloneExpr(e.Expr)}

	default:
		panic("Internal error")
	}

	return clone
}

func CloneBinding(binding Binding) Binding {
	clone := Binding{Loc: binding.Loc}

	switch b := binding.Data.(type) {
	case nil:
		return Binding{}

	case *BMissing:
		clone.Data = &BMissing{}

	case *BIdentifier:
		clone.Data = &BIdentifier{Name: b.Name}

	case *BArray:
		items := make([]ArrayBinding, len(b.Items))
		for i, item := range b.Items {
			items[i] = ArrayBinding{
				Binding:           CloneBinding(item.Binding),
				DefaultValueOrNil: CloneExpr(item.DefaultValueOrNil),
				Loc:               item.Loc,
			}
		}
		clone.Data = &BArray{Items: items, HasSpread: b.HasSpread, IsSingleLine: b.IsSingleLine}

	case *BObject:
		properties := make([]PropertyBinding, len(b.Properties))
		for i, property := range b.Properties {
			properties[i] = PropertyBinding{
				Key:               CloneExpr(property.Key),
				Value:             CloneBinding(property.Value),
				DefaultValueOrNil: CloneExpr(property.DefaultValueOrNil),
				Loc:               property.Loc,
				IsComputed:        property.IsComputed,
				IsSpread:          property.IsSpread,
			}
		}
		clone.Data = &BObject{Properties: properties, IsSingleLine: b.IsSingleLine}

	default:
		panic("Internal error")
	}

	return clone
}

func cloneClauseItems(items []ClauseItem) []ClauseItem {
	if items == nil {
		return nil
	}
	return append([]ClauseItem{}, items...)
}

func CloneStmt(stmt Stmt) Stmt {
	clone := Stmt{Loc: stmt.Loc, Comments: cloneComments(stmt.Comments)}

	switch s := stmt.Data.(type) {
	case nil:
		return Stmt{}

	case *SBlock:
		clone.Data = &SBlock{Stmts: CloneStmts(s.Stmts)}

	case *SEmpty:
		clone.Data = &SEmpty{}

	case *SComment:
		clone.Data = &SComment{Text: s.Text}

	case *SDebugger:
		clone.Data = &SDebugger{}

	case *SDirective:
		clone.Data = &SDirective{Value: cloneUTF16(s.Value)}

	case *SExportClause:
		clone.Data = &SExportClause{Items: cloneClauseItems(s.Items), IsSingleLine: s.IsSingleLine}

	case *SExportFrom:
		clone.Data = &SExportFrom{Items: cloneClauseItems(s.Items), Path: cloneUTF16(s.Path), IsSingleLine: s.IsSingleLine}

	case *SExportDefault:
		clone.Data = &SExportDefault{Value: CloneStmt(s.Value)}

	case *SExportStar:
		clone.Data = &SExportStar{Alias: cloneLocName(s.Alias), Path: cloneUTF16(s.Path)}

	case *SExpr:
		clone.Data = &SExpr{Value: CloneExpr(s.Value)}

	case *SFunction:
		clone.Data = &SFunction{Fn: CloneFn(s.Fn), IsExport: s.IsExport}

	case *SClass:
		clone.Data = &SClass{Class: cloneClass(s.Class), IsExport: s.IsExport}

	case *SLabel:
		clone.Data = &SLabel{Name: s.Name, Stmt: CloneStmt(s.Stmt)}

	case *SIf:
		clone.Data = &SIf{Test: CloneExpr(s.Test), Yes: CloneStmt(s.Yes), NoOrNil: CloneStmt(s.NoOrNil)}

	case *SFor:
		clone.Data = &SFor{
			InitOrNil:   CloneStmt(s.InitOrNil),
			TestOrNil:   CloneExpr(s.TestOrNil),
			UpdateOrNil: CloneExpr(s.UpdateOrNil),
			Body:        CloneStmt(s.Body),
		}

	case *SForIn:
		clone.Data = &SForIn{Init: CloneStmt(s.Init), Value: CloneExpr(s.Value), Body: CloneStmt(s.Body)}

	case *SForOf:
		clone.Data = &SForOf{Init: CloneStmt(s.Init), Value: CloneExpr(s.Value), Body: CloneStmt(s.Body), IsAwait: s.IsAwait}

	case *SDoWhile:
		clone.Data = &SDoWhile{Body: CloneStmt(s.Body), Test: CloneExpr(s.Test)}

	case *SWhile:
		clone.Data = &SWhile{Test: CloneExpr(s.Test), Body: CloneStmt(s.Body)}

	case *SWith:
		clone.Data = &SWith{Value: CloneExpr(s.Value), Body: CloneStmt(s.Body)}

	case *STry:
		try := &STry{Block: CloneStmt(s.Block)}
		if s.Catch != nil {
			try.Catch = &Catch{Loc: s.Catch.Loc, BindingOrNil: CloneBinding(s.Catch.BindingOrNil), Block: CloneStmt(s.Catch.Block)}
		}
		if s.Finally != nil {
			try.Finally = &Finally{Loc: s.Finally.Loc, Block: CloneStmt(s.Finally.Block)}
		}
		clone.Data = try

	case *SSwitch:
		cases := make([]Case, len(s.Cases))
		for i, c := range s.Cases {
			cases[i] = Case{Loc: c.Loc, ValueOrNil: CloneExpr(c.ValueOrNil), Body: CloneStmts(c.Body)}
		}
		clone.Data = &SSwitch{Test: CloneExpr(s.Test), BodyLoc: s.BodyLoc, Cases: cases}

	case *SImport:
		clone.Data = &SImport{
			DefaultName:  cloneLocName(s.DefaultName),
			StarName:     cloneLocName(s.StarName),
			Path:         cloneUTF16(s.Path),
			IsSingleLine: s.IsSingleLine,
		}
		if s.Items != nil {
			items := cloneClauseItems(*s.Items)
			clone.Data.(*SImport).Items = &items
		}

	case *SReturn:
		clone.Data = &SReturn{ValueOrNil: CloneExpr(s.ValueOrNil)}

	case *SThrow:
		clone.Data = &SThrow{Value: CloneExpr(s.Value)}

	case *SLocal:
		decls := make([]Decl, len(s.Decls))
		for i, decl := range s.Decls {
			decls[i] = Decl{Binding: CloneBinding(decl.Binding), ValueOrNil: CloneExpr(decl.ValueOrNil)}
		}
		clone.Data = &SLocal{Decls: decls, Kind: s.Kind, IsExport: s.IsExport}

	case *SBreak:
		clone.Data = &SBreak{Label: cloneLocName(s.Label)}

	case *SContinue:
		clone.Data = &SContinue{Label: cloneLocName(s.Label)}

	default:
		panic("Internal error")
	}

	return clone
}
