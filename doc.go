// Package calc implements a safe calculator expression evaluator.
//
// An expression is parsed once into a tree and evaluated once against a
// closed registry of functions and constants. Any name absent from the
// registry is rejected, so input can never reach anything beyond the
// whitelisted math operations. Results are always finite IEEE-754 doubles;
// divisions by zero, out-of-domain arguments, and would-be complex values
// are reported as typed errors rather than NaN or Inf.
//
// The syntax is the usual calculator notation: "2+3*4", "(2+3)*4",
// "sqrt(2)", "pow(2, 10)", "-pi". Exponentiation is written "**" and is
// right-associative. There is no implicit multiplication; "2(3+4)" is a
// syntax error.
package calc
