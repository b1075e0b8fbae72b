package calc

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.val != m.val {
			return n, m
		}
	case nodeName:
		if n.name != m.name {
			return n, m
		}
	case nodeCall:
		if n.name != m.name || len(n.args) != len(m.args) {
			return n, m
		}
		for i := range n.args {
			if d, e := n.args[i].diff(m.args[i]); d != nil || e != nil {
				return d, e
			}
		}
	case nodeNeg, nodeNop:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "((((1))))", "1"},

		{"plus", "+1", "+(1)"},
		{"neg", "-1", "-(1)"},
		{"negneg", "--1", "-(-1)"},
		{"negname", "-pi", "-(pi)"},

		{"add4", "1+2+3+4", "((1+2)+3)+4"},
		{"sub4", "1-2-3-4", "((1-2)-3)-4"},
		{"mul4", "1*2*3*4", "((1*2)*3)*4"},
		{"div4", "1/2/3/4", "((1/2)/3)/4"},
		{"mod4", "10%4%3", "(10%4)%3"},
		{"pow4", "2**3**4**5", "2**(3**(4**5))"},

		{"desc", "2**3*4+5", "((2**3)*4)+5"},
		{"asc", "2+3*4**5", "2+(3*(4**5))"},
		{"modprec", "2+3%4", "2+(3%4)"},
		{"divmod", "8/4%3", "(8/4)%3"},

		{"negpow", "-2**2", "-(2**2)"},
		{"powneg", "2**-3", "2**(-3)"},
		{"pownegpow", "2**-3**-4", "2**(-(3**(-4)))"},
		{"pownegneg", "2**--3", "2**(-(-3))"},
		{"negsub", "-1-2", "(-1)-2"},
		{"negmul", "-2*3", "(-2)*3"},
		{"negpowmul", "-2**2*3", "(-(2**2))*3"},

		{"callargs", "pow(1+2, 2*3)", "pow((1+2), (2*3))"},
		{"callneg", "sqrt(-1)", "sqrt((-1))"},
		{"callpow", "sqrt(2)**2", "(sqrt(2))**2"},
		{"negcall", "-sqrt(2)", "-(sqrt(2))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "num",
			src:  "3.5",
			n:    &node{kind: nodeNum, val: 3.5},
		},
		{
			name: "exponent",
			src:  "1e3",
			n:    &node{kind: nodeNum, val: 1000},
		},
		{
			name: "name",
			src:  "pi",
			n:    &node{kind: nodeName, name: "pi"},
		},
		{
			name: "call0",
			src:  "pi()",
			n:    &node{kind: nodeCall, name: "pi"},
		},
		{
			name: "call1",
			src:  "sqrt(2)",
			n: &node{
				kind: nodeCall,
				name: "sqrt",
				args: []*node{{kind: nodeNum, val: 2}},
			},
		},
		{
			name: "call2",
			src:  "pow(2, 3)",
			n: &node{
				kind: nodeCall,
				name: "pow",
				args: []*node{{kind: nodeNum, val: 2}, {kind: nodeNum, val: 3}},
			},
		},
		{
			// The parser does not consult the registry; arity and name
			// validation happen at evaluation time.
			name: "call2-unary",
			src:  "sqrt(8, 2)",
			n: &node{
				kind: nodeCall,
				name: "sqrt",
				args: []*node{{kind: nodeNum, val: 8}, {kind: nodeNum, val: 2}},
			},
		},
		{
			name: "precedence",
			src:  "2+3*4",
			n: &node{
				kind: nodeAdd,
				left: &node{kind: nodeNum, val: 2},
				right: &node{
					kind:  nodeMul,
					left:  &node{kind: nodeNum, val: 3},
					right: &node{kind: nodeNum, val: 4},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"num", "3.5"},
		{"bignum", "1.25e300"},
		{"neg", "-1"},
		{"plus", "+1"},
		{"add", "1+2"},
		{"sub", "1-2"},
		{"mul", "1*2"},
		{"div", "1/2"},
		{"mod", "7%3"},
		{"pow", "2**3"},
		{"powneg", "2**-3"},
		{"name", "pi"},
		{"call0", "pi()"},
		{"call1", "sqrt(2)"},
		{"call2", "pow(2, 3)"},
		{"nested", "sqrt(pow(2, 3)+1)*-pi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		res  []string
	}{
		{"empty", "", new(EmptyExpressionError), []string{`(?i)\bno\b.*\bexpression\b`}},
		{"spaces", "  \t ", new(EmptyExpressionError), []string{`(?i)\bno\b.*\bexpression\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), []string{`\)`}},
		{"emptyoperand", "2*", new(EmptyExpressionError), []string{`(?i)\bend\b`}},
		{"emptyunary", "2*-", new(EmptyExpressionError), []string{`(?i)\bend\b`}},
		{"emptyexponent", "2**", new(EmptyExpressionError), []string{`(?i)\bend\b`}},
		{"left", "(2", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}},
		{"left-nested", "2+(3*4", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}},
		{"right", "2+3)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}},
		{"call-left", "sqrt(", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}},
		{"call-left-args", "pow(2,", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}},
		{"nonunary", "*2", new(OperatorError), []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}},
		{"doubleslash", "2*/3", new(OperatorError), []string{`(?i)\bunary\b`, `/`}},
		{"sep", "1, 2", new(SeparatorError), []string{`","`}},
		{"sepbrackets", "(1, 2)", new(SeparatorError), []string{`","`}},
		{"sepleading", "pow(, 2)", new(SeparatorError), []string{`","`}},
		{"septrailing", "pow(2,)", new(EmptyExpressionError), []string{`\)`}},
		{"adjacent", "2(3+4)", new(TrailingError), []string{`"\("`}},
		{"adjacent-nums", "2 3", new(TrailingError), []string{`"3"`}},
		{"adjacent-paren", "(2)(3)", new(TrailingError), []string{`"\("`}},
		{"adjacent-name", "pi 3", new(TrailingError), []string{`"3"`}},
		{"lexer", "$", new(LexError), []string{`\$`}},
		{"caret", "2^3", new(LexError), []string{`(?i)\binvalid\b`}},
		{"glyph", "2×3", new(LexError), []string{`(?i)\binvalid\b`}},
		{"badnum", "1.2.3", new(LexError), []string{`(?i)\bnumber\b`}},
		{"trailingalpha", "2pi", new(LexError), []string{`(?i)\bnumber\b`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if k, ok := KindOf(err); !ok || k != Syntax {
				t.Errorf("error from %q has kind %v, not Syntax", c.src, k)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestParseDepth(t *testing.T) {
	cases := []struct {
		name string
		src  string
		deep bool
	}{
		{"parens-ok", strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200), false},
		{"parens-deep", strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300), true},
		{"signs-ok", strings.Repeat("-", 200) + "1", false},
		{"signs-deep", strings.Repeat("-", 300) + "1", true},
		{"pow-deep", strings.Repeat("2**", 300) + "2", true},
		{"calls-deep", strings.Repeat("sqrt(", 300) + "1" + strings.Repeat(")", 300), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if !c.deep {
				if err != nil {
					t.Fatalf("failed to parse: %v", err)
				}
				return
			}
			if a != nil {
				t.Errorf("parsed non-nil to %v", a.n)
			}
			if _, ok := err.(*DepthError); !ok {
				t.Errorf("error is %T, not *DepthError: %v", err, err)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"desc", "2**3*4+5+6*7**8"},
		{"parens", "(((2**3)*4)+5)+6*(7**8)"},
		{"nums", "1**1.1*1.1e1+1.1e-1+.1"},
		{"call1", "sqrt(2)"},
		{"call2", "pow(2, 10)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
