// Package session implements the stateful layer between an expression
// evaluator and a calculator front end: the expression buffer, input
// normalization, result history, the ANS value, and the memory register.
//
// A Session is a single-user state machine. It is not safe for concurrent
// use; front ends drive it from one goroutine.
package session

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wintermond/calc"
)

// normalizer rewrites display glyphs into the evaluator's canonical
// operators. The square root glyph opens a call, so input like "√9" becomes
// "sqrt(9" and the user (or front end) closes the bracket.
var normalizer = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"^", "**",
	"√", "sqrt(",
)

// Normalize rewrites the calculator glyphs ×, ÷, ^, and √ into the canonical
// operators *, /, **, and sqrt(. All other text passes through unchanged.
func Normalize(s string) string {
	return normalizer.Replace(s)
}

// FormatValue renders a result for display and for re-insertion into the
// expression buffer, rounding to twelve significant digits so that artifacts
// of binary arithmetic like 0.30000000000000004 display as 0.3.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// Entry is one committed calculation.
type Entry struct {
	// Expr is the expression text as it was evaluated.
	Expr string
	// Value is the result.
	Value float64
}

// Session holds calculator state between evaluations.
type Session struct {
	reg   *calc.Registry
	log   *slog.Logger
	limit int

	expr   string
	ans    float64
	hasAns bool
	mem    float64
	hist   []Entry
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the function registry expressions evaluate against. The
// default is calc.Default.
func WithRegistry(r *calc.Registry) Option {
	return func(s *Session) { s.reg = r }
}

// WithLogger sets the logger for evaluation events, logged at debug level.
// The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithHistoryLimit bounds the history to the n most recent entries. The
// default is 100. n <= 0 means unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.limit = n }
}

// New creates a calculator session.
func New(opts ...Option) *Session {
	s := &Session{
		reg:   calc.Default(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		limit: 100,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Append normalizes text and adds it to the expression buffer.
func (s *Session) Append(text string) {
	s.expr += Normalize(text)
}

// Backspace removes the last rune from the expression buffer.
func (s *Session) Backspace() {
	if s.expr == "" {
		return
	}
	r := []rune(s.expr)
	s.expr = string(r[:len(r)-1])
}

// Clear empties the expression buffer. History, ANS, and memory are kept.
func (s *Session) Clear() {
	s.expr = ""
}

// Expression returns the current contents of the expression buffer.
func (s *Session) Expression() string {
	return s.expr
}

// Evaluate parses and evaluates the expression buffer. On success the
// calculation is committed: it is appended to the history, it becomes ANS,
// and the buffer is cleared. On failure the buffer is kept so the user can
// correct it.
func (s *Session) Evaluate() (float64, error) {
	v, err := s.eval(s.expr)
	if err != nil {
		return 0, err
	}
	s.commit(s.expr, v)
	s.expr = ""
	return v, nil
}

// Percent appends a division by one hundred to the buffer, so "50" becomes
// "50/100".
func (s *Session) Percent() {
	s.expr += "/100"
}

// ToggleSign negates the buffer. If the buffer evaluates, it is replaced by
// the negated result; otherwise a leading minus sign is added or removed so
// the toggle also works mid-entry.
func (s *Session) ToggleSign() {
	if s.expr == "" {
		if s.hasAns {
			s.expr = FormatValue(-s.ans)
		}
		return
	}
	if v, err := s.eval(s.expr); err == nil {
		s.expr = FormatValue(-v)
		return
	}
	if strings.HasPrefix(s.expr, "-") {
		s.expr = s.expr[1:]
	} else {
		s.expr = "-" + s.expr
	}
}

// Reciprocal commits 1/x of the current value. The calculation is recorded
// in the history as a reciprocal call, and a zero value fails with a
// division by zero.
func (s *Session) Reciprocal() (float64, error) {
	return s.apply("reciprocal")
}

// Factorial commits the factorial of the current value. Negative,
// fractional, and too-large values fail with a domain error.
func (s *Session) Factorial() (float64, error) {
	return s.apply("factorial")
}

// apply wraps the current value in a call to a registry function and commits
// the result. The buffer is used if it is nonempty, otherwise ANS.
func (s *Session) apply(name string) (float64, error) {
	src := s.expr
	if src == "" {
		if !s.hasAns {
			return 0, &calc.EmptyExpressionError{Col: 1}
		}
		src = FormatValue(s.ans)
	}
	src = name + "(" + src + ")"
	v, err := s.eval(src)
	if err != nil {
		return 0, err
	}
	s.commit(src, v)
	s.expr = ""
	return v, nil
}

// Ans returns the most recently committed result. The second result is
// false if nothing has been committed yet.
func (s *Session) Ans() (float64, bool) {
	return s.ans, s.hasAns
}

// InsertAns appends the last committed result to the buffer. It does nothing
// if nothing has been committed yet.
func (s *Session) InsertAns() {
	if s.hasAns {
		s.expr += FormatValue(s.ans)
	}
}

// MemAdd adds the current value to the memory register. The buffer is used
// if it is nonempty, otherwise ANS.
func (s *Session) MemAdd() error {
	v, err := s.value()
	if err != nil {
		return err
	}
	s.mem += v
	return nil
}

// MemSub subtracts the current value from the memory register. The buffer is
// used if it is nonempty, otherwise ANS.
func (s *Session) MemSub() error {
	v, err := s.value()
	if err != nil {
		return err
	}
	s.mem -= v
	return nil
}

// MemRecall appends the memory register to the buffer.
func (s *Session) MemRecall() {
	s.expr += FormatValue(s.mem)
}

// MemClear zeroes the memory register.
func (s *Session) MemClear() {
	s.mem = 0
}

// Memory returns the memory register.
func (s *Session) Memory() float64 {
	return s.mem
}

// History returns a copy of the committed calculations, oldest first.
func (s *Session) History() []Entry {
	v := make([]Entry, len(s.hist))
	copy(v, s.hist)
	return v
}

// value is the operand of memory operations: the evaluated buffer if there
// is one, ANS otherwise.
func (s *Session) value() (float64, error) {
	if s.expr != "" {
		return s.eval(s.expr)
	}
	if s.hasAns {
		return s.ans, nil
	}
	return 0, &calc.EmptyExpressionError{Col: 1}
}

// eval parses and evaluates src against the session's registry.
func (s *Session) eval(src string) (float64, error) {
	e, err := calc.ParseString(src)
	if err != nil {
		s.log.Debug("parse failed", slog.String("expr", src), slog.Any("err", err))
		return 0, err
	}
	v, err := s.reg.Evaluate(e)
	if err != nil {
		s.log.Debug("evaluation failed", slog.String("expr", src), slog.Any("err", err))
		return 0, err
	}
	s.log.Debug("evaluated", slog.String("expr", src), slog.Float64("value", v))
	return v, nil
}

// commit records a finished calculation and makes its result ANS.
func (s *Session) commit(src string, v float64) {
	s.hist = append(s.hist, Entry{Expr: src, Value: v})
	if s.limit > 0 && len(s.hist) > s.limit {
		s.hist = s.hist[len(s.hist)-s.limit:]
	}
	s.ans, s.hasAns = v, true
}
