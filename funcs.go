package calc

import (
	"math"
	"sort"
)

// Func is an operation from reals to reals with a fixed arity. Functions
// must be pure: the evaluator may call them in any number of goroutines.
type Func interface {
	// Arity returns the number of arguments the function takes. The
	// evaluator never calls Call with a different count.
	Arity() int
	// Call evaluates the function. If an argument is outside the function's
	// domain, Call returns a DomainError and callers must not use the value.
	Call(args []float64) (float64, error)
}

// Registry is a closed mapping from name to operation. It is the whitelist
// that makes evaluation safe: any name absent from it is rejected. A
// Registry is immutable once constructed and safe for concurrent use.
type Registry struct {
	fns map[string]Func
}

// NewRegistry builds a registry from a name to function mapping. The map is
// copied; later changes to it do not affect the registry.
func NewRegistry(fns map[string]Func) *Registry {
	m := make(map[string]Func, len(fns))
	for k, v := range fns {
		if v == nil {
			continue
		}
		m[k] = v
	}
	return &Registry{fns: m}
}

// Lookup returns the function registered under name, or nil if the name is
// not allowed.
func (r *Registry) Lookup(name string) Func {
	return r.fns[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	v := make([]string, 0, len(r.fns))
	for k := range r.fns {
		v = append(v, k)
	}
	sort.Strings(v)
	return v
}

// Default returns the process-wide registry of calculator functions and
// constants. It is constructed once and never mutated.
func Default() *Registry {
	return defaultRegistry
}

var defaultRegistry = NewRegistry(map[string]Func{
	// constants
	"pi": Constant(math.Pi),
	"e":  Constant(math.E),

	// trig
	"sin": Monadic(func(x float64) (float64, error) { return math.Sin(x), nil }),
	"cos": Monadic(func(x float64) (float64, error) { return math.Cos(x), nil }),
	"tan": Monadic(func(x float64) (float64, error) { return math.Tan(x), nil }),

	// roots and logarithms
	"sqrt": Monadic(func(x float64) (float64, error) {
		if x < 0 {
			return 0, &DomainError{X: x, Arg: 1, Func: "sqrt"}
		}
		return math.Sqrt(x), nil
	}),
	"ln": Monadic(func(x float64) (float64, error) {
		if x <= 0 {
			return 0, &DomainError{X: x, Arg: 1, Func: "ln"}
		}
		return math.Log(x), nil
	}),
	"log": Monadic(func(x float64) (float64, error) {
		if x <= 0 {
			return 0, &DomainError{X: x, Arg: 1, Func: "log"}
		}
		return math.Log10(x), nil
	}),

	"abs": Monadic(func(x float64) (float64, error) { return math.Abs(x), nil }),

	"factorial": Monadic(factorial),

	"reciprocal": Monadic(func(x float64) (float64, error) {
		if x == 0 {
			return 0, &DivisionByZeroError{}
		}
		return 1 / x, nil
	}),

	"pow": Dyadic(pow),
})

// maxFactorial is the largest operand factorial accepts; 171! overflows
// float64.
const maxFactorial = 170

// factorial computes n! for integral 0 <= n <= maxFactorial. Any other
// operand, including a value with a fractional part, is a DomainError.
func factorial(x float64) (float64, error) {
	if x < 0 || x != math.Trunc(x) || x > maxFactorial {
		return 0, &DomainError{X: x, Arg: 1, Func: "factorial"}
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r, nil
}

// pow is the operation behind both the registered pow function and the **
// operator. A negative base with a fractional exponent has a complex result,
// which is unsupported.
func pow(x, y float64) (float64, error) {
	if x < 0 && y != math.Trunc(y) {
		return 0, &UnsupportedResultError{Op: "**"}
	}
	return math.Pow(x, y), nil
}

type constant float64

func (c constant) Arity() int {
	return 0
}

func (c constant) Call([]float64) (float64, error) {
	return float64(c), nil
}

// Constant wraps a value into a niladic Func. Constants are referenced by
// bare name in expressions, e.g. "2*pi".
func Constant(v float64) Func {
	return constant(v)
}

type monadic func(float64) (float64, error)

func (m monadic) Arity() int {
	return 1
}

func (m monadic) Call(args []float64) (float64, error) {
	return m(args[0])
}

// Monadic wraps a function of one variable into a Func. Out-of-domain
// arguments should yield a DomainError naming the function.
func Monadic(f func(float64) (float64, error)) Func {
	return monadic(f)
}

type dyadic func(x, y float64) (float64, error)

func (d dyadic) Arity() int {
	return 2
}

func (d dyadic) Call(args []float64) (float64, error) {
	return d(args[0], args[1])
}

// Dyadic wraps a function of two variables into a Func.
func Dyadic(f func(x, y float64) (float64, error)) Func {
	return dyadic(f)
}
