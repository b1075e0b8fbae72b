package calc

import (
	"io"
	"math"
	"strings"
)

// Evaluate computes the value of an expression against the default registry.
// Evaluation is pure: it reads only the expression and the registry, so any
// number of evaluations may run concurrently.
func Evaluate(e *Expr) (float64, error) {
	return Default().Evaluate(e)
}

// Evaluate computes the value of an expression against r. The result is
// always a finite real number; every failure is a typed error whose
// classification KindOf reports.
func (r *Registry) Evaluate(e *Expr) (float64, error) {
	v, err := e.n.eval(r)
	if err != nil {
		return 0, err
	}
	// The result contract promises a finite real. Overflow to an infinity
	// and NaN from infinite intermediates land here.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &UnsupportedResultError{}
	}
	return v, nil
}

// eval computes the value of the subtree rooted at n.
func (n *node) eval(r *Registry) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.val, nil
	case nodeName:
		fn := r.Lookup(n.name)
		if fn == nil || fn.Arity() != 0 {
			// A bare name must resolve to a constant; referencing a
			// function without calling it is rejected the same way as an
			// unknown name.
			return 0, &UnknownFunctionError{Name: n.name}
		}
		return fn.Call(nil)
	case nodeCall:
		fn := r.Lookup(n.name)
		if fn == nil {
			return 0, &UnknownFunctionError{Name: n.name}
		}
		args := make([]float64, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(r)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		if len(args) != fn.Arity() {
			return 0, &ArityError{Func: n.name, Want: fn.Arity(), Got: len(args)}
		}
		return fn.Call(args)
	case nodeNeg:
		v, err := n.left.eval(r)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case nodeNop:
		return n.left.eval(r)
	case nodeAdd:
		l, rv, err := n.operands(r)
		if err != nil {
			return 0, err
		}
		return l + rv, nil
	case nodeSub:
		l, rv, err := n.operands(r)
		if err != nil {
			return 0, err
		}
		return l - rv, nil
	case nodeMul:
		l, rv, err := n.operands(r)
		if err != nil {
			return 0, err
		}
		return l * rv, nil
	case nodeDiv:
		l, rv, err := n.operands(r)
		if err != nil {
			return 0, err
		}
		// The zero check must precede the division; IEEE division by zero
		// would silently yield an infinity.
		if rv == 0 {
			return 0, &DivisionByZeroError{}
		}
		return l / rv, nil
	case nodeMod:
		l, rv, err := n.operands(r)
		if err != nil {
			return 0, err
		}
		// math.Mod with a zero divisor is NaN; reject it like division.
		if rv == 0 {
			return 0, &DivisionByZeroError{}
		}
		return math.Mod(l, rv), nil
	case nodePow:
		l, rv, err := n.operands(r)
		if err != nil {
			return 0, err
		}
		return pow(l, rv)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// operands evaluates both children of a binary node, left first.
func (n *node) operands(r *Registry) (l, rv float64, err error) {
	l, err = n.left.eval(r)
	if err != nil {
		return 0, 0, err
	}
	rv, err = n.right.eval(r)
	if err != nil {
		return 0, 0, err
	}
	return l, rv, nil
}

// Eval is a shortcut to parse an expression and evaluate it with the default
// registry.
func Eval(src io.RuneScanner) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return Evaluate(e)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string) (float64, error) {
	return Eval(strings.NewReader(src))
}
