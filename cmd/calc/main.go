// Command calc evaluates calculator expressions. With arguments it evaluates
// each argument and prints the results; without arguments it runs an
// interactive prompt with history, memory registers, and ANS.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	slogmulti "github.com/samber/slog-multi"

	"github.com/wintermond/calc/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(0)
	var (
		verb     string
		quiet    bool
		debuglog string
	)
	flag.StringVar(&verb, "fmt", "", "result formatting string (default rounds to twelve significant digits)")
	flag.BoolVar(&quiet, "q", false, "suppress log output")
	flag.StringVar(&debuglog, "debuglog", "", "write debug logs to this file")
	flag.Parse()

	logger, closelog, err := buildLogger(quiet, debuglog)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer closelog()

	s := session.New(session.WithLogger(logger))
	format := session.FormatValue
	if verb != "" {
		format = func(v float64) string { return fmt.Sprintf(verb, v) }
	}

	if flag.NArg() > 0 {
		code := 0
		for _, arg := range flag.Args() {
			s.Clear()
			s.Append(arg)
			v, err := s.Evaluate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				code = 1
				continue
			}
			fmt.Println(format(v))
		}
		return code
	}
	return repl(s, format)
}

// buildLogger assembles the session logger: warnings and up on stderr unless
// quieted, plus everything to a file when one is given.
func buildLogger(quiet bool, debugfile string) (*slog.Logger, func(), error) {
	var handlers []slog.Handler
	if !quiet {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	closer := func() {}
	if debugfile != "" {
		f, err := os.OpenFile(debugfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		closer = func() { f.Close() }
	}
	if len(handlers) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer, nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func repl(s *session.Session, format func(float64) string) int {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".calc_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			return 0
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "quit", "exit":
			return 0
		case "help":
			help()
		case "ans":
			if v, ok := s.Ans(); ok {
				fmt.Println(format(v))
			} else {
				fmt.Println("no result yet")
			}
		case "m+":
			if err := s.MemAdd(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "m-":
			if err := s.MemSub(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "mr":
			fmt.Println(format(s.Memory()))
		case "mc":
			s.MemClear()
		case "history":
			for _, e := range s.History() {
				fmt.Printf("%s = %s\n", e.Expr, format(e.Value))
			}
		case "clear":
			s.Clear()
		default:
			s.Clear()
			s.Append(line)
			v, err := s.Evaluate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Println(format(v))
		}
	}
}

func help() {
	fmt.Print(`enter an expression to evaluate it, or one of:
  ans      print the last result
  m+       add the last result to memory
  m-       subtract the last result from memory
  mr       print the memory register
  mc       clear the memory register
  history  print committed calculations
  clear    discard the current entry
  help     this text
  quit     leave
operators: + - * / % ** (also × ÷ ^ √)
functions: abs cos e factorial ln log pi pow reciprocal sin sqrt tan
`)
}
