// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Implements a Recursive Descent Parser with Pratt Parsing for expressions.
//          It converts a stream of Tokens (from the Lexer) into an Abstract Syntax Tree (AST).
//          This component defines the grammar and syntax rules of Pith.
// ==============================================================================================

package parser

import (
	"fmt"
	"strings"

	"pith/ast"
	"pith/lexer"
	"pith/token"
)

// Precedence constants determine the order of operations in expressions.
// Higher values mean the operator binds more tightly. Unary prefix sits
// above exponentiation on purpose: "-x^y" parses as (-x)^y.
const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	PREFIX
	POSTFIX
)

var precedences = map[token.TokenType]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.LT:       COMPARISON,
	token.GT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     ADDITIVE,
	token.MINUS:    ADDITIVE,
	token.STAR:     MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
	token.PERCENT:  MULTIPLICATIVE,
	token.CARET:    EXPONENT,
	token.LPAREN:   POSTFIX,
	token.DOT:      POSTFIX,
	token.LBRACKET: POSTFIX,
}

type (
	prefixParseFn func() *ast.Node
	infixParseFn  func(*ast.Node) *ast.Node
)

// Parser struct holds the state of the parsing process.
type Parser struct {
	l         *lexer.Lexer // Pointer to the lexer
	curToken  token.Token  // The current token under examination
	peekToken token.Token  // The next token (lookahead)
	errors    []string     // Collection of syntax errors found

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New initializes a new Parser instance.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	// Register Prefix Parsing Functions (nuds)
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LBRACE, p.parseMapLiteral)
	p.registerPrefix(token.NEW, p.parseNewExpression)

	// Register Infix Parsing Functions (leds)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, tt := range []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.CARET,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ,
		token.AND, token.OR,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseFieldAccessExpression)

	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek asserts that the next token is of a specific type.
// If it is, it advances the parser. If not, it records an error.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("line %d: expected next token to be %s, got %s instead",
		p.peekToken.Line, t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) errorf(line int, format string, a ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, a...)))
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram is the entry point for parsing: it produces the root node.
func (p *Parser) ParseProgram() *ast.Node {
	program := ast.NewNode(ast.Program, p.curToken.Line)
	program.Children = p.parseStatements(func(tt token.TokenType) bool { return false })
	return program
}

// parseStatements parses statements until stop(curToken.Type) is true or
// EOF is reached. NEWLINE tokens between statements are skipped here -
// the parser does not consume NEWLINE as part of any single statement.
func (p *Parser) parseStatements(stop func(token.TokenType) bool) []*ast.Node {
	var stmts []*ast.Node
	for !stop(p.curToken.Type) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}

// parseBlock consumes ':', an optional NEWLINE, INDENT, the statements of
// the block, and the closing DEDENT. The caller must leave curToken on
// the token immediately preceding the ':'.
func (p *Parser) parseBlock() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.COLON) {
		return ast.NewNode(ast.Block, line)
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if !p.expectPeek(token.INDENT) {
		return ast.NewNode(ast.Block, line)
	}
	p.nextToken()
	block := ast.NewNode(ast.Block, line)
	block.Children = p.parseStatements(func(tt token.TokenType) bool { return tt == token.DEDENT })
	return block
}

// parseCaseBody consumes a switch case's or default's ':' and, if the
// lexer emitted an INDENT for it, the indented statements that follow.
// A case with nothing indented underneath it (fall-through, as in
// "case 2:" immediately followed by another "case") is a valid empty
// block rather than a parse error. The caller must leave curToken on
// the token immediately preceding the ':'.
func (p *Parser) parseCaseBody() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.COLON) {
		return ast.NewNode(ast.Block, line)
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if !p.peekTokenIs(token.INDENT) {
		return ast.NewNode(ast.Block, line)
	}
	p.nextToken() // INDENT
	p.nextToken()
	block := ast.NewNode(ast.Block, line)
	block.Children = p.parseStatements(func(tt token.TokenType) bool { return tt == token.DEDENT })
	return block
}

// parseStatement determines the type of statement based on the current token.
func (p *Parser) parseStatement() *ast.Node {
	switch p.curToken.Type {
	case token.CLASS:
		return p.parseClassDef()
	case token.DEFINE:
		return p.parseFuncDef()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FOREACH:
		return p.parseForeachStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return ast.NewNode(ast.Break, p.curToken.Line)
	case token.CONTINUE:
		return ast.NewNode(ast.Continue, p.curToken.Line)
	case token.PASS:
		return ast.NewNode(ast.Pass, p.curToken.Line)
	default:
		if token.IsTypeName(p.curToken.Type) {
			return p.parseTypedDecl()
		}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IDENT) {
			return p.parseUserTypedDecl()
		}
		return p.parseExpressionOrAssignment()
	}
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// parseTypeNameText reads a primitive type keyword (and, for list/map, its
// generic parameter list) starting at curToken, leaving curToken on the
// last token consumed, and returns its textual spelling.
func (p *Parser) parseTypeNameText() string {
	switch p.curToken.Type {
	case token.LIST_T:
		text := "list"
		if p.peekTokenIs(token.LT) {
			p.nextToken() // '<'
			p.nextToken()
			elem := p.curToken.Literal
			text = fmt.Sprintf("list<%s>", elem)
			if !p.expectPeek(token.GT) {
				return text
			}
		}
		return text
	case token.MAP_T:
		text := "map"
		if p.peekTokenIs(token.LT) {
			p.nextToken() // '<'
			p.nextToken()
			key := p.curToken.Literal
			if !p.expectPeek(token.COMMA) {
				return text
			}
			p.nextToken()
			val := p.curToken.Literal
			text = fmt.Sprintf("map<%s,%s>", key, val)
			if !p.expectPeek(token.GT) {
				return text
			}
		}
		return text
	default:
		return p.curToken.Literal
	}
}

// parseArraySpec parses the optional "[size]" suffix of a typed
// declaration. curToken must be the LBRACKET.
func (p *Parser) parseArraySpec() *ast.Node {
	spec := ast.NewNode(ast.ArraySpec, p.curToken.Line)
	if !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		spec.Children = []*ast.Node{p.parseExpression(LOWEST)}
	}
	p.expectPeek(token.RBRACKET)
	return spec
}

// parseTypedDecl parses `TypeName [generics] [[size]] name [= expr]`.
func (p *Parser) parseTypedDecl() *ast.Node {
	line := p.curToken.Line
	typeName := p.parseTypeNameText()

	node := ast.NewNode(ast.VarDecl, line)
	node.TypeName = typeName
	node.Children = []*ast.Node{nil, nil}

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		node.Children[0] = p.parseArraySpec()
	}

	if !p.expectPeek(token.IDENT) {
		return node
	}
	node.Text = p.curToken.Literal

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		node.Children[1] = p.parseExpression(LOWEST)
	}
	return node
}

// parseUserTypedDecl parses `Foo x [= expr]` where Foo is a previously
// declared class name. A declaration with no initializer evaluates to
// void rather than defaulting to any implicit self-reference.
func (p *Parser) parseUserTypedDecl() *ast.Node {
	line := p.curToken.Line
	typeName := p.curToken.Literal
	p.nextToken() // move to the variable name
	node := ast.NewNode(ast.VarDecl, line)
	node.TypeName = typeName
	node.Text = p.curToken.Literal
	node.Children = []*ast.Node{nil, nil}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		node.Children[1] = p.parseExpression(LOWEST)
	}
	return node
}

func (p *Parser) parseExpressionOrAssignment() *ast.Node {
	expr := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		rhs := p.parseExpression(LOWEST)
		assign := ast.NewNode(ast.Assign, expr.Line)
		assign.Children = []*ast.Node{expr, rhs}
		return assign
	}
	return expr
}

// ---------------------------------------------------------------------
// Statement forms
// ---------------------------------------------------------------------

func (p *Parser) parsePrintStatement() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.Print, line)
	}
	args := p.parseExpressionList(token.RPAREN)
	node := ast.NewNode(ast.Print, line)
	node.Children = args
	return node
}

func (p *Parser) parseImportStatement() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.STRING) {
		return ast.NewNode(ast.Import, line)
	}
	node := ast.NewNode(ast.Import, line)
	node.Text = p.curToken.Literal
	return node
}

func (p *Parser) parseReturnStatement() *ast.Node {
	line := p.curToken.Line
	p.nextToken()
	node := ast.NewNode(ast.Return, line)
	node.Children = []*ast.Node{p.parseExpression(LOWEST)}
	return node
}

func (p *Parser) parseIfStatement() *ast.Node {
	line := p.curToken.Line
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	node := ast.NewNode(ast.If, line)
	node.Children = []*ast.Node{cond, body}

	if p.peekTokenIs(token.ELIF) {
		p.nextToken()
		node.Children = append(node.Children, p.parseElif())
	} else if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		node.Children = append(node.Children, p.parseBlock())
	}
	return node
}

func (p *Parser) parseElif() *ast.Node {
	line := p.curToken.Line
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	node := ast.NewNode(ast.If, line)
	node.Children = []*ast.Node{cond, body}

	if p.peekTokenIs(token.ELIF) {
		p.nextToken()
		node.Children = append(node.Children, p.parseElif())
	} else if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		node.Children = append(node.Children, p.parseBlock())
	}
	return node
}

func (p *Parser) parseWhileStatement() *ast.Node {
	line := p.curToken.Line
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	node := ast.NewNode(ast.While, line)
	node.Children = []*ast.Node{cond, body}
	return node
}

func (p *Parser) parseDoWhileStatement() *ast.Node {
	line := p.curToken.Line
	body := p.parseBlock()
	if !p.expectPeek(token.WHILE) {
		return ast.NewNode(ast.DoWhile, line)
	}
	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.DoWhile, line)
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return ast.NewNode(ast.DoWhile, line)
	}
	node := ast.NewNode(ast.DoWhile, line)
	node.Children = []*ast.Node{body, cond}
	return node
}

func (p *Parser) parseForStatement() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.CFor, line)
	}
	p.nextToken()

	var initStmt *ast.Node
	if !p.curTokenIs(token.SEMI) {
		initStmt = p.parseStatement()
		p.nextToken()
	}
	if !p.curTokenIs(token.SEMI) {
		p.errorf(p.curToken.Line, "expected ';' in for-loop header, got %s", p.curToken.Type)
	}
	p.nextToken()

	var cond *ast.Node
	if !p.curTokenIs(token.SEMI) {
		cond = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if !p.curTokenIs(token.SEMI) {
		p.errorf(p.curToken.Line, "expected ';' in for-loop header, got %s", p.curToken.Type)
	}
	p.nextToken()

	var inc *ast.Node
	if !p.curTokenIs(token.RPAREN) {
		inc = p.parseStatement()
		p.nextToken()
	}
	if !p.curTokenIs(token.RPAREN) {
		p.errorf(p.curToken.Line, "expected ')' in for-loop header, got %s", p.curToken.Type)
	}

	body := p.parseBlock()
	node := ast.NewNode(ast.CFor, line)
	node.Children = []*ast.Node{initStmt, cond, inc, body}
	return node
}

func (p *Parser) parseForeachStatement() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.ForEach, line)
	}
	p.nextToken()
	typeName := p.parseTypeNameText()
	if !p.expectPeek(token.IDENT) {
		return ast.NewNode(ast.ForEach, line)
	}
	varName := p.curToken.Literal
	if !p.expectPeek(token.IN) {
		return ast.NewNode(ast.ForEach, line)
	}
	p.nextToken()
	coll := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return ast.NewNode(ast.ForEach, line)
	}
	body := p.parseBlock()
	node := ast.NewNode(ast.ForEach, line)
	node.TypeName = typeName
	node.Text = varName
	node.Children = []*ast.Node{coll, body}
	return node
}

func (p *Parser) parseSwitchStatement() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.Switch, line)
	}
	p.nextToken()
	subject := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return ast.NewNode(ast.Switch, line)
	}
	if !p.expectPeek(token.COLON) {
		return ast.NewNode(ast.Switch, line)
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if !p.expectPeek(token.INDENT) {
		return ast.NewNode(ast.Switch, line)
	}
	p.nextToken()

	node := ast.NewNode(ast.Switch, line)
	node.Children = []*ast.Node{subject}

	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.NEWLINE:
			p.nextToken()
		case token.CASE:
			caseLine := p.curToken.Line
			p.nextToken()
			match := p.parseExpression(LOWEST)
			body := p.parseCaseBody()
			caseNode := ast.NewNode(ast.Case, caseLine)
			caseNode.Children = []*ast.Node{match, body}
			node.Children = append(node.Children, caseNode)
			p.nextToken()
		case token.DEFAULT:
			defLine := p.curToken.Line
			body := p.parseCaseBody()
			defNode := ast.NewNode(ast.DefaultCase, defLine)
			defNode.Children = []*ast.Node{body}
			node.Children = append(node.Children, defNode)
			p.nextToken()
		default:
			p.errorf(p.curToken.Line, "expected case or default in switch body, got %s", p.curToken.Type)
			return node
		}
	}
	return node
}

// ---------------------------------------------------------------------
// Functions & classes
// ---------------------------------------------------------------------

func (p *Parser) parseFuncDef() *ast.Node {
	line := p.curToken.Line
	p.nextToken()

	returnType := ""
	if token.IsTypeName(p.curToken.Type) {
		returnType = p.parseTypeNameText()
		p.nextToken()
	} else if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IDENT) {
		returnType = p.curToken.Literal
		p.nextToken()
	}

	if !p.curTokenIs(token.IDENT) {
		p.errorf(p.curToken.Line, "expected function name, got %s", p.curToken.Type)
	}
	name := p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.FuncDef, line)
	}
	params := p.parseFuncParams()

	body := p.parseBlock()
	node := ast.NewNode(ast.FuncDef, line)
	node.Text = name
	node.TypeName = returnType
	node.Params = params
	node.Children = []*ast.Node{body}
	return node
}

// parseFuncParams parses `([Type] name, [Type] name, ...)`, discarding
// parameter types and retaining only names.
func (p *Parser) parseFuncParams() []string {
	var params []string
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		if token.IsTypeName(p.curToken.Type) || (p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IDENT)) {
			p.parseTypeNameText()
			p.nextToken()
		}
		params = append(params, p.curToken.Literal)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseClassDef() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.IDENT) {
		return ast.NewNode(ast.ClassDef, line)
	}
	node := ast.NewNode(ast.ClassDef, line)
	node.Text = p.curToken.Literal

	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return node
		}
		node.ParentName = p.curToken.Literal
	}

	if !p.expectPeek(token.COLON) {
		return node
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if !p.expectPeek(token.INDENT) {
		return node
	}
	p.nextToken()

	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		if p.curTokenIs(token.PASS) {
			p.nextToken()
			continue
		}
		member := p.parseClassMember()
		if member != nil {
			node.Children = append(node.Children, member)
		}
		p.nextToken()
	}
	return node
}

func (p *Parser) parseClassMember() *ast.Node {
	if p.curTokenIs(token.DEFINE) {
		return p.parseFuncDef()
	}
	if token.IsTypeName(p.curToken.Type) || p.curTokenIs(token.IDENT) {
		line := p.curToken.Line
		typeName := p.parseTypeNameText()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		node := ast.NewNode(ast.FieldDecl, line)
		node.TypeName = typeName
		node.Text = p.curToken.Literal
		return node
	}
	p.errorf(p.curToken.Line, "unexpected token in class body: %s", p.curToken.Type)
	return nil
}

// ---------------------------------------------------------------------
// Expressions (Pratt parsing)
// ---------------------------------------------------------------------

// parseExpression manages precedence to parse expressions correctly.
func (p *Parser) parseExpression(precedence int) *ast.Node {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Line, "no prefix parse function for %s", p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

// --- Prefix Parsing Functions ---

func (p *Parser) parseIdentifier() *ast.Node {
	n := ast.NewNode(ast.VarRef, p.curToken.Line)
	n.Text = p.curToken.Literal
	return n
}

func (p *Parser) parseIntegerLiteral() *ast.Node {
	n := ast.NewNode(ast.IntLit, p.curToken.Line)
	n.Text = p.curToken.Literal
	return n
}

func (p *Parser) parseFloatLiteral() *ast.Node {
	n := ast.NewNode(ast.FloatLit, p.curToken.Line)
	n.Text = p.curToken.Literal
	return n
}

func (p *Parser) parseStringLiteral() *ast.Node {
	n := ast.NewNode(ast.StringLit, p.curToken.Line)
	n.Text = p.curToken.Literal
	return n
}

func (p *Parser) parseBooleanLiteral() *ast.Node {
	n := ast.NewNode(ast.BoolLit, p.curToken.Line)
	n.Text = p.curToken.Literal
	return n
}

func (p *Parser) parsePrefixExpression() *ast.Node {
	n := ast.NewNode(ast.UnaryOp, p.curToken.Line)
	n.Text = p.curToken.Literal
	p.nextToken()
	n.Children = []*ast.Node{p.parseExpression(PREFIX)}
	return n
}

func (p *Parser) parseGroupedExpression() *ast.Node {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return exp
}

func (p *Parser) parseListLiteral() *ast.Node {
	n := ast.NewNode(ast.ListLit, p.curToken.Line)
	n.Children = p.parseExpressionList(token.RBRACKET)
	return n
}

func (p *Parser) parseMapLiteral() *ast.Node {
	n := ast.NewNode(ast.MapLit, p.curToken.Line)
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			return n
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		n.Children = append(n.Children, key, val)
		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return n
		}
	}
	p.expectPeek(token.RBRACE)
	return n
}

func (p *Parser) parseNewExpression() *ast.Node {
	line := p.curToken.Line
	if !p.expectPeek(token.IDENT) {
		return ast.NewNode(ast.New, line)
	}
	callee := ast.NewNode(ast.VarRef, p.curToken.Line)
	callee.Text = p.curToken.Literal
	if !p.expectPeek(token.LPAREN) {
		return ast.NewNode(ast.New, line)
	}
	args := p.parseExpressionList(token.RPAREN)
	call := ast.NewNode(ast.Call, callee.Line)
	call.Children = append([]*ast.Node{callee}, args...)

	n := ast.NewNode(ast.New, line)
	n.Children = []*ast.Node{call}
	return n
}

// Helper to parse comma-separated lists (arrays, arguments), leaving
// curToken on end.
func (p *Parser) parseExpressionList(end token.TokenType) []*ast.Node {
	var list []*ast.Node
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(end)
	return list
}

// --- Infix Parsing Functions ---

func (p *Parser) parseInfixExpression(left *ast.Node) *ast.Node {
	n := ast.NewNode(ast.BinaryOp, p.curToken.Line)
	n.Text = p.curTokenOperatorText()
	precedence := p.curPrecedence()
	p.nextToken()
	n.Children = []*ast.Node{left, p.parseExpression(precedence)}
	return n
}

// curTokenOperatorText maps and/or keyword tokens to their textual
// operator form so the evaluator has one canonical spelling to switch on.
func (p *Parser) curTokenOperatorText() string {
	switch p.curToken.Type {
	case token.AND:
		return "and"
	case token.OR:
		return "or"
	default:
		return p.curToken.Literal
	}
}

func (p *Parser) parseCallExpression(fn *ast.Node) *ast.Node {
	n := ast.NewNode(ast.Call, p.curToken.Line)
	args := p.parseExpressionList(token.RPAREN)
	n.Children = append([]*ast.Node{fn}, args...)
	return n
}

func (p *Parser) parseIndexExpression(left *ast.Node) *ast.Node {
	n := ast.NewNode(ast.IndexAccess, p.curToken.Line)
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return n
	}
	n.Children = []*ast.Node{left, index}
	return n
}

func (p *Parser) parseFieldAccessExpression(left *ast.Node) *ast.Node {
	n := ast.NewNode(ast.FieldAccess, p.curToken.Line)
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Text = p.curToken.Literal
	n.Children = []*ast.Node{left}
	return n
}

// ErrorSummary joins all accumulated parse errors into one message,
// useful for batch-mode reporting.
func (p *Parser) ErrorSummary() string {
	return strings.Join(p.errors, "\n")
}
