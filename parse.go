package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Expr = Sum
// Sum = Product { ('+' | '-') Product }
// Product = Factor { ('*' | '/' | '%') Factor }
// Factor = ('+' | '-') Factor | Atom [ '**' Factor ]
// Atom = num | name | name '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'
//
// '**' is right-associative and binds tighter than the unary sign on its
// left, so -2**2 is -(2**2); the exponent position accepts a sign, so 2**-1
// is legal. There is no implicit multiplication: adjacent terms are a syntax
// error.
//
// The parser accepts any identifier as a name or call without consulting the
// function registry; names are validated during evaluation. That keeps the
// parser a pure function of its input.

// Expr is a parsed expression that can be evaluated against a registry.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// maxDepth is the nesting limit for brackets, signs, and exponents. Inputs
// that nest deeper fail with DepthError rather than risking the stack.
const maxDepth = 256

// Parse parses an expression so it can be evaluated.
func Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	n, err := parsesum(scan, 0)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// String creates a string representation of the parsed expression, with
// every subterm parenthesized.
func (e *Expr) String() string {
	return e.n.String()
}

// parsesum parses a sequence of products. If there is no error, then
// parsesum pushes the last token it scans, including EOF.
func parsesum(scan *lexer, depth int) (*node, error) {
	n, err := parseproduct(scan, depth)
	if err != nil {
		return nil, err
	}
	for {
		tok := scan.must()
		if tok.kind != tokenOp || (tok.text != "+" && tok.text != "-") {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseproduct(scan, depth)
		if err != nil {
			return nil, err
		}
		kind := nodeAdd
		if tok.text == "-" {
			kind = nodeSub
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// parseproduct parses a sequence of factors. The terminating token is left
// pushed.
func parseproduct(scan *lexer, depth int) (*node, error) {
	n, err := parsefactor(scan, depth)
	if err != nil {
		return nil, err
	}
	for {
		tok := scan.must()
		var kind nodeKind
		switch {
		case tok.kind != tokenOp:
			scan.push(tok)
			return n, nil
		case tok.text == "*":
			kind = nodeMul
		case tok.text == "/":
			kind = nodeDiv
		case tok.text == "%":
			kind = nodeMod
		default:
			scan.push(tok)
			return n, nil
		}
		rhs, err := parsefactor(scan, depth)
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// parsefactor parses an optionally signed atom with an optional exponent.
// The terminating token is left pushed.
func parsefactor(scan *lexer, depth int) (*node, error) {
	if depth >= maxDepth {
		return nil, &DepthError{Col: scan.pos(), Limit: maxDepth}
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenOp && (tok.text == "+" || tok.text == "-") {
		// Unary sign. The sign applies to the whole factor, so -2**2 parses
		// as -(2**2).
		rhs, err := parsefactor(scan, depth+1)
		if err != nil {
			return nil, err
		}
		kind := nodeNop
		if tok.text == "-" {
			kind = nodeNeg
		}
		return &node{kind: kind, left: rhs}, nil
	}
	scan.push(tok)
	n, err := parseatom(scan, depth)
	if err != nil {
		return nil, err
	}
	end, err := scan.next()
	if err != nil {
		return nil, err
	}
	if end.kind == tokenOp && end.text == "**" {
		// Right-associative: the exponent is a full factor, sign included.
		rhs, err := parsefactor(scan, depth+1)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodePow, left: n, right: rhs}, nil
	}
	scan.push(end)
	return n, nil
}

// parseatom parses a number, a name, a call, or a parenthesized expression.
// The terminating token is left pushed.
func parseatom(scan *lexer, depth int) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &LexError{Text: tok.text, Class: "number", Col: tok.pos}
		}
		return &node{kind: nodeNum, val: v}, nil
	case tokenIdent:
		nxt, err := scan.next()
		if err != nil {
			return nil, err
		}
		if nxt.kind != tokenOpen {
			// A bare identifier is a reference to a registry constant,
			// resolved at evaluation time.
			scan.push(nxt)
			return &node{kind: nodeName, name: tok.text}, nil
		}
		args, err := parseargs(scan, depth+1, nxt)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: tok.text, args: args}, nil
	case tokenOpen:
		n, err := parsesum(scan, depth+1)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind == tokenEOF {
			return nil, &BracketError{Col: end.pos, Left: "(", Right: ""}
		}
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end)
		}
		return n, nil
	case tokenOp:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parseargs parses the bracketed argument list of a call, after the open
// bracket has been scanned. Unlike the other parse functions, it consumes
// the closing bracket.
func parseargs(scan *lexer, depth int, open lexToken) ([]*node, error) {
	if depth >= maxDepth {
		return nil, &DepthError{Col: open.pos, Limit: maxDepth}
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose {
		// Niladic call.
		return nil, nil
	}
	scan.push(tok)
	var args []*node
	for {
		a, err := parsesum(scan, depth)
		if err != nil {
			// Reporting an unclosed bracket is more helpful than an empty
			// expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				return nil, &BracketError{Col: ee.Col, Left: open.text, Right: ""}
			}
			return nil, err
		}
		args = append(args, a)
		end := scan.must()
		switch end.kind {
		case tokenClose:
			return args, nil
		case tokenSep:
			continue
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: open.text, Right: ""}
		default:
			return nil, itShouldNotHaveEndedThisWay(end)
		}
	}
}

// pos reports the column of the next token to be scanned.
func (l *lexer) pos() int {
	if l.p.kind != tokenNone {
		return l.p.pos
	}
	return l.rune
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token after a complete subexpression.
func itShouldNotHaveEndedThisWay(tok lexToken) error {
	switch tok.kind {
	case tokenClose:
		// A close bracket with nothing open.
		return &BracketError{Col: tok.pos, Left: "", Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		// Adjacency: there is no implicit multiplication, so a number,
		// name, or bracket following a complete expression is an error.
		return &TrailingError{Col: tok.pos, Token: tok.text}
	}
}
