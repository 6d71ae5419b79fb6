package builtin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/env"
)

type ioFunc struct {
	name     string
	arity    int
	callback func(args []*env.Value) (*env.Value, error)
}

// registerIO wires `std::core::io`'s nine functions, grounded on
// original_source/src/std/core/io.rs: four print-family functions
// (print/eprint/warn/panic), exit, and four blocking stdin reads
// (read_num/read_str/read_char/read_bool).
func (l *Loader) registerIO(into *env.Env, names []ast.UseName, all bool) {
	for _, f := range l.ioTable() {
		if alias, ok := selected(names, all, f.name); ok {
			native(into, f.name, alias, f.arity, f.callback)
		}
	}
}

func (l *Loader) ioTable() []ioFunc {
	return []ioFunc{
		{"print", 1, func(args []*env.Value) (*env.Value, error) {
			fmt.Fprintln(l.out, display(args[0]))
			return env.Void(), nil
		}},
		{"eprint", 1, func(args []*env.Value) (*env.Value, error) {
			fmt.Fprintln(l.err, l.color.Sprintf(l.color.Red("%s"), display(args[0])))
			return env.Void(), nil
		}},
		{"warn", 1, func(args []*env.Value) (*env.Value, error) {
			fmt.Fprintln(l.err, l.color.Sprintf(l.color.Yellow("%s"), display(args[0])))
			return env.Void(), nil
		}},
		{"panic", 1, func(args []*env.Value) (*env.Value, error) {
			fmt.Fprintln(l.err, l.color.Sprintf(l.color.BgRed("%s"), display(args[0])))
			os.Exit(1)
			return env.Void(), nil
		}},
		{"exit", 1, func(args []*env.Value) (*env.Value, error) {
			code := 0
			if args[0].Kind == env.VNumber {
				code = int(args[0].Number)
			}
			os.Exit(code)
			return env.Void(), nil
		}},
		{"read_num", 0, func(args []*env.Value) (*env.Value, error) {
			line, err := l.readLine()
			if err != nil {
				return env.Null(), nil
			}
			n, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return env.Null(), nil
			}
			return env.Number(n), nil
		}},
		{"read_str", 0, func(args []*env.Value) (*env.Value, error) {
			line, err := l.readLine()
			if err != nil {
				return env.Null(), nil
			}
			return env.String(line), nil
		}},
		{"read_char", 0, func(args []*env.Value) (*env.Value, error) {
			r, _, err := l.in.ReadRune()
			if err != nil {
				return env.Null(), nil
			}
			return env.Char(r), nil
		}},
		{"read_bool", 0, func(args []*env.Value) (*env.Value, error) {
			line, err := l.readLine()
			if err != nil {
				return env.Null(), nil
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "true":
				return env.Bool(true), nil
			case "false":
				return env.Bool(false), nil
			default:
				return env.Null(), nil
			}
		}},
	}
}

func (l *Loader) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// display renders a Value the way print/eprint/warn show it: strings
// unquoted, everything else via its literal form.
func display(v *env.Value) string {
	switch v.Kind {
	case env.VString:
		return v.Str
	case env.VChar:
		return string(v.Char)
	case env.VNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case env.VBool:
		return strconv.FormatBool(v.Bool)
	case env.VNull:
		return "null"
	case env.VVoid:
		return "void"
	default:
		return fmt.Sprintf("%v", v)
	}
}
