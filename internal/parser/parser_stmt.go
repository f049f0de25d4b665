package parser

import (
	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/token"
)

// parseStmt dispatches on the leading token; each alternative below is
// unambiguous on its first token except the trailing three (id=, Atom=,
// Atom;), which parseAssignOrCallStmt disambiguates.
func (p *Parser) parseStmt() (*ast.CstNode, *ast.Node, error) {
	switch p.peek().Kind {
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwReadln:
		return p.parseReadlnStmt()
	case token.KwPrintln:
		return p.parsePrintlnStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	default:
		return p.parseAssignOrCallStmt()
	}
}

// 'if' '(' Exp ')' '{' Stmt+ '}' 'else' '{' Stmt+ '}'
func (p *Parser) parseIfStmt() (*ast.CstNode, *ast.Node, error) {
	kwIf, _ := p.expect(token.KwIf)
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, nil, err
	}
	condCst, cond, err := p.parseExp()
	if err != nil {
		return nil, nil, err
	}
	rparen, err := p.expect(token.RParen)
	if err != nil {
		return nil, nil, err
	}
	thenCst, thenBlock, err := p.parseBracedStmts(true)
	if err != nil {
		return nil, nil, err
	}
	kwElse, err := p.expect(token.KwElse)
	if err != nil {
		return nil, nil, err
	}
	elseCst, elseBlock, err := p.parseBracedStmts(true)
	if err != nil {
		return nil, nil, err
	}
	n := &ast.Node{Kind: ast.NIfStmt, Tok: kwIf, Left: cond, Body: thenBlock, Else: elseBlock}
	cst := ast.Seq("IfStmt", ast.Leaf(kwIf), ast.Leaf(lparen), condCst, ast.Leaf(rparen),
		thenCst, ast.Leaf(kwElse), elseCst)
	return cst, n, nil
}

// 'while' '(' Exp ')' '{' Stmt* '}'
func (p *Parser) parseWhileStmt() (*ast.CstNode, *ast.Node, error) {
	kwWhile, _ := p.expect(token.KwWhile)
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, nil, err
	}
	condCst, cond, err := p.parseExp()
	if err != nil {
		return nil, nil, err
	}
	rparen, err := p.expect(token.RParen)
	if err != nil {
		return nil, nil, err
	}
	bodyCst, body, err := p.parseBracedStmts(false)
	if err != nil {
		return nil, nil, err
	}
	n := &ast.Node{Kind: ast.NWhileStmt, Tok: kwWhile, Left: cond, Body: body}
	cst := ast.Seq("WhileStmt", ast.Leaf(kwWhile), ast.Leaf(lparen), condCst, ast.Leaf(rparen), bodyCst)
	return cst, n, nil
}

// parseBracedStmts parses '{' Stmt* '}' (or Stmt+ when requireOne is set,
// used for if/else bodies which the grammar requires to be non-empty).
func (p *Parser) parseBracedStmts(requireOne bool) (*ast.CstNode, *ast.Node, error) {
	lbrace, err := p.expect(token.LBrace)
	if err != nil {
		return nil, nil, err
	}
	cst := []*ast.CstNode{ast.Leaf(lbrace)}
	block := &ast.Node{Kind: ast.NBlock, Tok: lbrace}
	for !p.at(token.RBrace) {
		sCst, s, err := p.parseStmt()
		if err != nil {
			return nil, nil, err
		}
		cst = append(cst, sCst)
		block.Nodes = append(block.Nodes, s)
	}
	if requireOne && len(block.Nodes) == 0 {
		return nil, nil, diag.New(diag.IllegalSyntax, p.peek().Pos, "expected at least one statement")
	}
	rbrace, err := p.expect(token.RBrace)
	if err != nil {
		return nil, nil, err
	}
	cst = append(cst, ast.Leaf(rbrace))
	return ast.Seq("Block", cst...), block, nil
}

// 'readln' '(' id ')' ';'
func (p *Parser) parseReadlnStmt() (*ast.CstNode, *ast.Node, error) {
	kw, _ := p.expect(token.KwReadln)
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, nil, err
	}
	idTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, nil, err
	}
	rparen, err := p.expect(token.RParen)
	if err != nil {
		return nil, nil, err
	}
	semi, err := p.expect(token.Semi)
	if err != nil {
		return nil, nil, err
	}
	n := &ast.Node{Kind: ast.NReadlnStmt, Tok: kw, Name: idTok.Lit}
	cst := ast.Seq("Readln", ast.Leaf(kw), ast.Leaf(lparen), ast.Leaf(idTok), ast.Leaf(rparen), ast.Leaf(semi))
	return cst, n, nil
}

// 'println' '(' Exp ')' ';'
func (p *Parser) parsePrintlnStmt() (*ast.CstNode, *ast.Node, error) {
	kw, _ := p.expect(token.KwPrintln)
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, nil, err
	}
	expCst, exp, err := p.parseExp()
	if err != nil {
		return nil, nil, err
	}
	rparen, err := p.expect(token.RParen)
	if err != nil {
		return nil, nil, err
	}
	semi, err := p.expect(token.Semi)
	if err != nil {
		return nil, nil, err
	}
	n := &ast.Node{Kind: ast.NPrintlnStmt, Tok: kw, Left: exp}
	cst := ast.Seq("Println", ast.Leaf(kw), ast.Leaf(lparen), expCst, ast.Leaf(rparen), ast.Leaf(semi))
	return cst, n, nil
}

// 'return' Exp? ';'
func (p *Parser) parseReturnStmt() (*ast.CstNode, *ast.Node, error) {
	kw, _ := p.expect(token.KwReturn)
	cst := []*ast.CstNode{ast.Leaf(kw)}
	n := &ast.Node{Kind: ast.NReturnStmt, Tok: kw}
	if !p.at(token.Semi) {
		expCst, exp, err := p.parseExp()
		if err != nil {
			return nil, nil, err
		}
		cst = append(cst, expCst)
		n.Left = exp
	}
	semi, err := p.expect(token.Semi)
	if err != nil {
		return nil, nil, err
	}
	cst = append(cst, ast.Leaf(semi))
	return ast.Seq("Return", cst...), n, nil
}

// id '=' Exp ';' | Atom '=' Exp ';' | Atom ';'
//
// A bare identifier LHS with no trailing '.'/'(' suffix is textually
// indistinguishable from the grammar's first alternative, so both are
// parsed through the single Atom production and the statement shape is
// decided afterwards from what the resulting Atom turned out to be.
func (p *Parser) parseAssignOrCallStmt() (*ast.CstNode, *ast.Node, error) {
	lhsCst, lhs, err := p.parseAtom()
	if err != nil {
		return nil, nil, err
	}
	if p.at(token.Assign) {
		eq := p.advance()
		if lhs.Kind != ast.NIdentExpr && lhs.Kind != ast.NFieldAccess {
			return nil, nil, diag.New(diag.IllegalSyntax, eq.Pos, "left side of assignment must be an identifier or field access")
		}
		rhsCst, rhs, err := p.parseExp()
		if err != nil {
			return nil, nil, err
		}
		semi, err := p.expect(token.Semi)
		if err != nil {
			return nil, nil, err
		}
		n := &ast.Node{Kind: ast.NAssignStmt, Tok: lhs.Tok, Left: lhs, Right: rhs}
		return ast.Seq("Assign", lhsCst, ast.Leaf(eq), rhsCst, ast.Leaf(semi)), n, nil
	}
	if lhs.Kind != ast.NMethodCall {
		return nil, nil, diag.New(diag.IllegalSyntax, lhs.Tok.Pos, "expected assignment or method call statement")
	}
	semi, err := p.expect(token.Semi)
	if err != nil {
		return nil, nil, err
	}
	n := &ast.Node{Kind: ast.NCallStmt, Tok: lhs.Tok, Left: lhs}
	return ast.Seq("CallStmt", lhsCst, ast.Leaf(semi)), n, nil
}
