package parser

import (
	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/token"
)

// expAttempt captures the outcome of trying one of Exp's three
// alternatives from a common start position.
type expAttempt struct {
	cst *ast.CstNode
	n   *ast.Node
	end int
	err error
}

// Exp ::= BExp | AExp | SExp
//
// The three alternatives are not first-token disjoint (an Atom can start
// any of them), so all three are tried from the same mark and the one
// that consumes the most tokens wins; ties are broken B, then S, then A.
func (p *Parser) parseExp() (*ast.CstNode, *ast.Node, error) {
	start := p.mark()

	try := func(f func() (*ast.CstNode, *ast.Node, error)) expAttempt {
		p.reset(start)
		cst, n, err := f()
		return expAttempt{cst: cst, n: n, end: p.mark(), err: err}
	}

	b := try(p.parseBExp)
	s := try(p.parseSExp)
	a := try(p.parseAExp)

	best := expAttempt{end: -1}
	firstErr := b.err
	for _, att := range []expAttempt{b, s, a} {
		if att.err != nil {
			continue
		}
		if att.end > best.end {
			best = att
		}
	}
	if best.end < 0 {
		if firstErr != nil {
			return nil, nil, firstErr
		}
		return nil, nil, diag.New(diag.IllegalSyntax, p.peek().Pos, "expected an expression")
	}
	p.reset(best.end)
	return best.cst, best.n, nil
}

// BExp ::= Conj ( '||' Conj )*
func (p *Parser) parseBExp() (*ast.CstNode, *ast.Node, error) {
	cst, n, err := p.parseConj()
	if err != nil {
		return nil, nil, err
	}
	for p.at(token.OrOr) {
		op := p.advance()
		rCst, r, err := p.parseConj()
		if err != nil {
			return nil, nil, err
		}
		n = &ast.Node{Kind: ast.NBinaryExpr, Tok: op, BOp: ast.OpOr, Left: n, Right: r}
		cst = ast.Seq("Or", cst, ast.Leaf(op), rCst)
	}
	return cst, n, nil
}

// Conj ::= RExp ( '&&' RExp )*
func (p *Parser) parseConj() (*ast.CstNode, *ast.Node, error) {
	cst, n, err := p.parseRExp()
	if err != nil {
		return nil, nil, err
	}
	for p.at(token.AndAnd) {
		op := p.advance()
		rCst, r, err := p.parseRExp()
		if err != nil {
			return nil, nil, err
		}
		n = &ast.Node{Kind: ast.NBinaryExpr, Tok: op, BOp: ast.OpAnd, Left: n, Right: r}
		cst = ast.Seq("And", cst, ast.Leaf(op), rCst)
	}
	return cst, n, nil
}

// RExp ::= AExp BOp AExp | BGrd
// AExp BOp AExp is tried first, per written grammar order; on any failure
// (including a missing relational operator after a successfully parsed
// AExp) the cursor backtracks to BGrd.
func (p *Parser) parseRExp() (*ast.CstNode, *ast.Node, error) {
	m := p.mark()
	if cst, n, ok := p.tryParseRelExp(); ok {
		return cst, n, nil
	}
	p.reset(m)
	return p.parseBGrd()
}

func (p *Parser) tryParseRelExp() (*ast.CstNode, *ast.Node, bool) {
	lhsCst, lhs, err := p.parseAExp()
	if err != nil {
		return nil, nil, false
	}
	op, bop, ok := p.relOp()
	if !ok {
		return nil, nil, false
	}
	p.advance()
	rhsCst, rhs, err := p.parseAExp()
	if err != nil {
		return nil, nil, false
	}
	n := &ast.Node{Kind: ast.NBinaryExpr, Tok: op, BOp: bop, Left: lhs, Right: rhs}
	return ast.Seq("RelExp", lhsCst, ast.Leaf(op), rhsCst), n, true
}

func (p *Parser) relOp() (token.Token, ast.BinOp, bool) {
	t := p.peek()
	switch t.Kind {
	case token.Lt:
		return t, ast.OpLt, true
	case token.Gt:
		return t, ast.OpGt, true
	case token.Le:
		return t, ast.OpLe, true
	case token.Ge:
		return t, ast.OpGe, true
	case token.EqEq:
		return t, ast.OpEq, true
	case token.NotEq:
		return t, ast.OpNe, true
	default:
		return token.Token{}, 0, false
	}
}

// BGrd ::= '!' BGrd | 'true' | 'false' | Atom
// A parenthesized boolean expression reaches this through the Atom
// alternative: AtomStart's '(' Exp ')' case recurses into parseExp, which
// tries BExp among its three alternatives.
func (p *Parser) parseBGrd() (*ast.CstNode, *ast.Node, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwTrue:
		p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NBoolLit, Tok: t, BVal: true}, nil
	case token.KwFalse:
		p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NBoolLit, Tok: t, BVal: false}, nil
	case token.Not:
		p.advance()
		cst, n, err := p.parseBGrd()
		if err != nil {
			return nil, nil, err
		}
		return ast.Seq("Not", ast.Leaf(t), cst), &ast.Node{Kind: ast.NUnaryExpr, Tok: t, UOp: ast.OpNot, Left: n}, nil
	default:
		return p.parseAtom()
	}
}

// AExp ::= Term ( ('+'|'-') Term )*
func (p *Parser) parseAExp() (*ast.CstNode, *ast.Node, error) {
	cst, n, err := p.parseTerm()
	if err != nil {
		return nil, nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		op := p.advance()
		bop := ast.OpAdd
		if op.Kind == token.Minus {
			bop = ast.OpSub
		}
		rCst, r, err := p.parseTerm()
		if err != nil {
			return nil, nil, err
		}
		n = &ast.Node{Kind: ast.NBinaryExpr, Tok: op, BOp: bop, Left: n, Right: r}
		cst = ast.Seq("Add", cst, ast.Leaf(op), rCst)
	}
	return cst, n, nil
}

// Term ::= Ftr ( ('*'|'/') Ftr )*
func (p *Parser) parseTerm() (*ast.CstNode, *ast.Node, error) {
	cst, n, err := p.parseFtr()
	if err != nil {
		return nil, nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) {
		op := p.advance()
		bop := ast.OpMul
		if op.Kind == token.Slash {
			bop = ast.OpDiv
		}
		rCst, r, err := p.parseFtr()
		if err != nil {
			return nil, nil, err
		}
		n = &ast.Node{Kind: ast.NBinaryExpr, Tok: op, BOp: bop, Left: n, Right: r}
		cst = ast.Seq("Mul", cst, ast.Leaf(op), rCst)
	}
	return cst, n, nil
}

// Ftr ::= int_lit | '-' Ftr | Atom
// A parenthesized arithmetic expression reaches this through the Atom
// alternative's '(' Exp ')' case, same as BGrd above.
func (p *Parser) parseFtr() (*ast.CstNode, *ast.Node, error) {
	t := p.peek()
	switch t.Kind {
	case token.IntLit:
		p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NIntLit, Tok: t, IVal: t.IVal}, nil
	case token.Minus:
		p.advance()
		cst, n, err := p.parseFtr()
		if err != nil {
			return nil, nil, err
		}
		return ast.Seq("Neg", ast.Leaf(t), cst), &ast.Node{Kind: ast.NUnaryExpr, Tok: t, UOp: ast.OpNeg, Left: n}, nil
	default:
		return p.parseAtom()
	}
}

// SExp ::= (str_lit | Atom) ('+' (str_lit | Atom))*
// String concatenation parses structurally here; internal/lower rejects it
// at lowering time, since there is no runtime concatenation support.
func (p *Parser) parseSExp() (*ast.CstNode, *ast.Node, error) {
	cst, n, err := p.parseStrOrAtom()
	if err != nil {
		return nil, nil, err
	}
	for p.at(token.Plus) {
		op := p.advance()
		rCst, r, err := p.parseStrOrAtom()
		if err != nil {
			return nil, nil, err
		}
		n = &ast.Node{Kind: ast.NBinaryExpr, Tok: op, BOp: ast.OpAdd, Left: n, Right: r}
		cst = ast.Seq("Concat", cst, ast.Leaf(op), rCst)
	}
	return cst, n, nil
}

func (p *Parser) parseStrOrAtom() (*ast.CstNode, *ast.Node, error) {
	if p.at(token.StringLit) {
		t := p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NStringLit, Tok: t, SVal: t.Lit}, nil
	}
	return p.parseAtom()
}

// Atom  ::= AtomStart Atom'
// Atom' ::= '.' id Atom' | '(' ExpList? ')' Atom' | ε
//
// The bare '(' ExpList ')' alternative (no preceding '.') is a local method
// call: the current spine value must be a plain identifier naming the
// method, and the call node carries no explicit receiver; lowering
// supplies `this`.
func (p *Parser) parseAtom() (*ast.CstNode, *ast.Node, error) {
	cst, n, err := p.parseAtomStart()
	if err != nil {
		return nil, nil, err
	}
	for {
		switch {
		case p.at(token.Dot):
			dot := p.advance()
			nameTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, nil, err
			}
			if p.at(token.LParen) {
				lparen := p.advance()
				argsCst, args, err := p.parseExpList()
				if err != nil {
					return nil, nil, err
				}
				rparen, err := p.expect(token.RParen)
				if err != nil {
					return nil, nil, err
				}
				head := &ast.Node{Kind: ast.NFieldAccess, Tok: nameTok, Name: nameTok.Lit, Left: n}
				call := &ast.Node{Kind: ast.NMethodCall, Tok: nameTok, Name: nameTok.Lit, Left: head, Nodes: args}
				cst = ast.Seq("MethodCall", cst, ast.Leaf(dot), ast.Leaf(nameTok), ast.Leaf(lparen), argsCst, ast.Leaf(rparen))
				n = call
				continue
			}
			field := &ast.Node{Kind: ast.NFieldAccess, Tok: nameTok, Name: nameTok.Lit, Left: n}
			cst = ast.Seq("FieldAccess", cst, ast.Leaf(dot), ast.Leaf(nameTok))
			n = field
		case p.at(token.LParen) && n.Kind == ast.NIdentExpr:
			lparen := p.advance()
			argsCst, args, err := p.parseExpList()
			if err != nil {
				return nil, nil, err
			}
			rparen, err := p.expect(token.RParen)
			if err != nil {
				return nil, nil, err
			}
			call := &ast.Node{Kind: ast.NMethodCall, Tok: n.Tok, Name: n.Name, Left: n, Nodes: args}
			cst = ast.Seq("LocalCall", cst, ast.Leaf(lparen), argsCst, ast.Leaf(rparen))
			n = call
		default:
			return cst, n, nil
		}
	}
}

func (p *Parser) parseAtomStart() (*ast.CstNode, *ast.Node, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwThis:
		p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NThisExpr, Tok: t}, nil
	case token.KwNull:
		p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NNullExpr, Tok: t}, nil
	case token.Ident:
		p.advance()
		return ast.Leaf(t), &ast.Node{Kind: ast.NIdentExpr, Tok: t, Name: t.Lit}, nil
	case token.KwNew:
		p.advance()
		cname, err := p.expect(token.ClassName)
		if err != nil {
			return nil, nil, err
		}
		lparen, err := p.expect(token.LParen)
		if err != nil {
			return nil, nil, err
		}
		rparen, err := p.expect(token.RParen)
		if err != nil {
			return nil, nil, err
		}
		n := &ast.Node{Kind: ast.NNewExpr, Tok: cname, Name: cname.Lit}
		return ast.Seq("New", ast.Leaf(t), ast.Leaf(cname), ast.Leaf(lparen), ast.Leaf(rparen)), n, nil
	case token.LParen:
		p.advance()
		cst, n, err := p.parseExp()
		if err != nil {
			return nil, nil, err
		}
		rparen, err := p.expect(token.RParen)
		if err != nil {
			return nil, nil, err
		}
		return ast.Seq("Paren", ast.Leaf(t), cst, ast.Leaf(rparen)), n, nil
	default:
		return nil, nil, diag.New(diag.IllegalSyntax, t.Pos, "expected an expression, got %s", t.Kind)
	}
}

// ExpList ::= (Exp (',' Exp)*)?
func (p *Parser) parseExpList() (*ast.CstNode, []*ast.Node, error) {
	if p.at(token.RParen) {
		return ast.Seq("ExpList"), nil, nil
	}
	var cst []*ast.CstNode
	var args []*ast.Node
	for {
		eCst, e, err := p.parseExp()
		if err != nil {
			return nil, nil, err
		}
		cst = append(cst, eCst)
		args = append(args, e)
		if !p.at(token.Comma) {
			break
		}
		cst = append(cst, ast.Leaf(p.advance()))
	}
	return ast.Seq("ExpList", cst...), args, nil
}
