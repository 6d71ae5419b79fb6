package builtin

import (
	"fmt"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/env"
)

// registerTest wires `std::core::test::assert`, grounded on
// original_source/src/std/core/test.rs: registered at all only when the
// interpreter is running in test mode (`--test`/`-t`), and even then never
// aborts the run — it prints a colored pass/fail line and always returns
// Void, matching original_source's `assert` being a reporting aid rather
// than a panic.
func (l *Loader) registerTest(into *env.Env, names []ast.UseName, all bool, isTest bool) {
	if !isTest {
		return
	}
	if alias, ok := selected(names, all, "assert"); ok {
		native(into, "assert", alias, 2, l.assert)
	}
}

func (l *Loader) assert(args []*env.Value) (*env.Value, error) {
	cond := args[0]
	msg := display(args[1])

	if cond.Kind == env.VBool && cond.Bool {
		fmt.Fprintln(l.out, l.color.Sprintf(l.color.Green("%s"), "ok: "+msg))
	} else {
		fmt.Fprintln(l.err, l.color.Sprintf(l.color.Red("%s"), "failed: "+msg))
	}
	return env.Void(), nil
}
