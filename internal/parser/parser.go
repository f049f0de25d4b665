// Package parser implements JLite's hand-written, backtracking
// recursive-descent parser. It builds a lossless CST and a
// collapsed AST in lockstep from the same token stream.
package parser

import (
	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/token"
	"jlite.dev/jlitec/internal/types"
)

// Parser holds a token cursor with full backtracking: every alternative is
// tried in written order by saving the cursor, attempting the production,
// and restoring the cursor on failure.
type Parser struct {
	toks []token.Token
	pos  int
}

func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) mark() int { return p.pos }

func (p *Parser) reset(m int) { p.pos = m }

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		t := p.peek()
		return token.Token{}, diag.New(diag.IllegalSyntax, t.Pos, "expected %s, got %s", k, t.Kind)
	}
	return p.advance(), nil
}

// ParseProgram parses a complete JLite program.
func ParseProgram(toks []token.Token) (*ast.CstNode, *ast.Program, error) {
	p := New(toks)
	mainCst, mainClass, err := p.parseMainClass()
	if err != nil {
		return nil, nil, err
	}
	cstChildren := []*ast.CstNode{mainCst}
	prog := &ast.Program{MainClass: mainClass}
	for !p.at(token.EOF) {
		cst, cls, err := p.parseClassDecl()
		if err != nil {
			return nil, nil, err
		}
		cstChildren = append(cstChildren, cst)
		prog.Classes = append(prog.Classes, cls)
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, nil, err
	}
	return ast.Seq("Program", cstChildren...), prog, nil
}

// MainClass ::= 'class' cname '{' 'Void' 'main' '(' FmlList ')' MdBody '}'
func (p *Parser) parseMainClass() (*ast.CstNode, *ast.Node, error) {
	kwClass, err := p.expect(token.KwClass)
	if err != nil {
		return nil, nil, err
	}
	cname, err := p.expect(token.ClassName)
	if err != nil {
		return nil, nil, err
	}
	lbrace, err := p.expect(token.LBrace)
	if err != nil {
		return nil, nil, err
	}
	voidTok, err := p.expect(token.KwVoid)
	if err != nil {
		return nil, nil, err
	}
	mainTok := p.peek()
	if mainTok.Kind != token.Ident || mainTok.Lit != "main" {
		return nil, nil, diag.New(diag.IllegalSyntax, mainTok.Pos, "expected 'main', got %s", mainTok.Kind)
	}
	p.advance()
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, nil, err
	}
	fmlCst, params, err := p.parseFmlList()
	if err != nil {
		return nil, nil, err
	}
	rparen, err := p.expect(token.RParen)
	if err != nil {
		return nil, nil, err
	}
	bodyCst, body, err := p.parseMdBody()
	if err != nil {
		return nil, nil, err
	}
	main := &ast.Node{
		Kind: ast.NMethodDecl, Tok: voidTok, Name: "main",
		DeclType: types.TVoid(), Nodes: params, Body: body,
	}
	cls := &ast.Node{
		Kind: ast.NClassDecl, Tok: cname, Name: cname.Lit,
		Methods: []*ast.Node{main},
	}
	cst := []*ast.CstNode{ast.Leaf(kwClass), ast.Leaf(cname), ast.Leaf(lbrace),
		ast.Leaf(voidTok), ast.Leaf(mainTok), ast.Leaf(lparen), fmlCst, ast.Leaf(rparen),
		bodyCst}
	// Auxiliary methods may follow main inside the main class; they behave
	// exactly like any other class's methods.
	for !p.at(token.RBrace) {
		mCst, m, err := p.parseMdDecl()
		if err != nil {
			return nil, nil, err
		}
		cst = append(cst, mCst)
		cls.Methods = append(cls.Methods, m)
	}
	rbrace, err := p.expect(token.RBrace)
	if err != nil {
		return nil, nil, err
	}
	cst = append(cst, ast.Leaf(rbrace))
	return ast.Seq("MainClass", cst...), cls, nil
}

// ClassDecl ::= 'class' cname '{' VarDecl* MdDecl* '}'
func (p *Parser) parseClassDecl() (*ast.CstNode, *ast.Node, error) {
	kwClass, err := p.expect(token.KwClass)
	if err != nil {
		return nil, nil, err
	}
	cname, err := p.expect(token.ClassName)
	if err != nil {
		return nil, nil, err
	}
	lbrace, err := p.expect(token.LBrace)
	if err != nil {
		return nil, nil, err
	}
	cst := []*ast.CstNode{ast.Leaf(kwClass), ast.Leaf(cname), ast.Leaf(lbrace)}
	cls := &ast.Node{Kind: ast.NClassDecl, Tok: cname, Name: cname.Lit}

	for {
		vCst, v, ok := p.tryParseVarDecl()
		if !ok {
			break
		}
		cst = append(cst, vCst)
		cls.Fields = append(cls.Fields, v)
	}
	for !p.at(token.RBrace) {
		mCst, m, err := p.parseMdDecl()
		if err != nil {
			return nil, nil, err
		}
		cst = append(cst, mCst)
		cls.Methods = append(cls.Methods, m)
	}
	rbrace, err := p.expect(token.RBrace)
	if err != nil {
		return nil, nil, err
	}
	cst = append(cst, ast.Leaf(rbrace))
	return ast.Seq("ClassDecl", cst...), cls, nil
}

// tryParseVarDecl attempts `Type id ';'`, backtracking to the mark on any
// failure so the caller can fall through to MdDecl/Stmt parsing instead.
func (p *Parser) tryParseVarDecl() (*ast.CstNode, *ast.Node, bool) {
	m := p.mark()
	cst, v, err := p.parseVarDecl()
	if err != nil {
		p.reset(m)
		return nil, nil, false
	}
	return cst, v, true
}

// VarDecl ::= Type id ';'
func (p *Parser) parseVarDecl() (*ast.CstNode, *ast.Node, error) {
	typeCst, ty, typeTok, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}
	idTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, nil, err
	}
	semi, err := p.expect(token.Semi)
	if err != nil {
		return nil, nil, err
	}
	v := &ast.Node{Kind: ast.NVarDecl, Tok: typeTok, Name: idTok.Lit, DeclType: ty}
	return ast.Seq("VarDecl", typeCst, ast.Leaf(idTok), ast.Leaf(semi)), v, nil
}

// Type ::= 'Int' | 'Bool' | 'String' | 'Void' | cname
func (p *Parser) parseType() (*ast.CstNode, types.JLiteType, token.Token, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwInt:
		p.advance()
		return ast.Leaf(t), types.TInt(), t, nil
	case token.KwBool:
		p.advance()
		return ast.Leaf(t), types.TBool(), t, nil
	case token.KwString:
		p.advance()
		return ast.Leaf(t), types.TString(), t, nil
	case token.KwVoid:
		p.advance()
		return ast.Leaf(t), types.TVoid(), t, nil
	case token.ClassName:
		p.advance()
		return ast.Leaf(t), types.TClass(t.Lit), t, nil
	default:
		return nil, types.JLiteType{}, token.Token{}, diag.New(diag.IllegalSyntax, t.Pos, "expected a type, got %s", t.Kind)
	}
}

// MdDecl ::= Type id '(' FmlList ')' MdBody
func (p *Parser) parseMdDecl() (*ast.CstNode, *ast.Node, error) {
	typeCst, retType, retTok, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, nil, err
	}
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, nil, err
	}
	fmlCst, params, err := p.parseFmlList()
	if err != nil {
		return nil, nil, err
	}
	rparen, err := p.expect(token.RParen)
	if err != nil {
		return nil, nil, err
	}
	bodyCst, body, err := p.parseMdBody()
	if err != nil {
		return nil, nil, err
	}
	m := &ast.Node{
		Kind: ast.NMethodDecl, Tok: retTok, Name: nameTok.Lit,
		DeclType: retType, Nodes: params, Body: body,
	}
	cst := ast.Seq("MdDecl", typeCst, ast.Leaf(nameTok), ast.Leaf(lparen), fmlCst,
		ast.Leaf(rparen), bodyCst)
	return cst, m, nil
}

// FmlList ::= (Type id (',' Type id)*)?
func (p *Parser) parseFmlList() (*ast.CstNode, []*ast.Node, error) {
	var cst []*ast.CstNode
	var params []*ast.Node
	if !p.canStartType() {
		return ast.Seq("FmlList"), nil, nil
	}
	for {
		typeCst, ty, tok, err := p.parseType()
		if err != nil {
			return nil, nil, err
		}
		idTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, &ast.Node{Kind: ast.NParam, Tok: tok, Name: idTok.Lit, DeclType: ty})
		cst = append(cst, typeCst, ast.Leaf(idTok))
		if !p.at(token.Comma) {
			break
		}
		cst = append(cst, ast.Leaf(p.advance()))
	}
	return ast.Seq("FmlList", cst...), params, nil
}

func (p *Parser) canStartType() bool {
	switch p.peek().Kind {
	case token.KwInt, token.KwBool, token.KwString, token.KwVoid, token.ClassName:
		return true
	default:
		return false
	}
}

// MdBody ::= '{' VarDecl* Stmt+ '}'
func (p *Parser) parseMdBody() (*ast.CstNode, *ast.Node, error) {
	lbrace, err := p.expect(token.LBrace)
	if err != nil {
		return nil, nil, err
	}
	cst := []*ast.CstNode{ast.Leaf(lbrace)}
	block := &ast.Node{Kind: ast.NBlock, Tok: lbrace}
	for {
		vCst, v, ok := p.tryParseVarDecl()
		if !ok {
			break
		}
		cst = append(cst, vCst)
		block.Fields = append(block.Fields, v)
	}
	for !p.at(token.RBrace) {
		sCst, s, err := p.parseStmt()
		if err != nil {
			return nil, nil, err
		}
		cst = append(cst, sCst)
		block.Nodes = append(block.Nodes, s)
	}
	if len(block.Nodes) == 0 {
		return nil, nil, diag.New(diag.IllegalSyntax, p.peek().Pos, "method body requires at least one statement")
	}
	rbrace, err := p.expect(token.RBrace)
	if err != nil {
		return nil, nil, err
	}
	cst = append(cst, ast.Leaf(rbrace))
	return ast.Seq("MdBody", cst...), block, nil
}
