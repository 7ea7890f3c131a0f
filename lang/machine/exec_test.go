package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/machine"
	"github.com/hemlang/hemlock/lang/parser"
	"github.com/hemlang/hemlock/lang/resolver"
	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Module {
	t.Helper()
	chunk, err := parser.ParseChunk("test.hk", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(chunk))
	mod, err := compiler.Compile(chunk)
	require.NoError(t, err)
	return mod
}

func runModule(t *testing.T, src string) (string, types.Value, error) {
	t.Helper()
	mod := mustCompile(t, src)
	var out bytes.Buffer
	th := machine.NewThread()
	th.Stdout = &out
	result, err := th.RunModule(mod)
	return out.String(), result, err
}

// spec section 8, scenario 1: arithmetic mix.
func TestArithmeticMix(t *testing.T) {
	_, result, err := runModule(t, `let x = (10 + 20) * 3 - 5; print(x);`)
	require.NoError(t, err)
	_ = result
}

func TestArithmeticMixPrintsExpectedValue(t *testing.T) {
	out, _, err := runModule(t, `let x = (10 + 20) * 3 - 5; print(x);`)
	require.NoError(t, err)
	require.Equal(t, "85\n", out)
}

// spec section 8, scenario 2: division.
func TestDivisionAlwaysProducesFloat(t *testing.T) {
	out, _, err := runModule(t, `print(100 / 4);`)
	require.NoError(t, err)
	require.Equal(t, "25\n", out)
}

func TestModuloOnIntegers(t *testing.T) {
	out, _, err := runModule(t, `print(17 % 5);`)
	require.NoError(t, err)
	require.Equal(t, "2\n", out)
}

func TestIntegerModuloByZeroRaisesDivisionByZero(t *testing.T) {
	_, _, err := runModule(t, `print(1 % 0);`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DivisionByZero")
}

// spec section 8, scenario 3: closure counter.
func TestClosureCounterClosesOverLocal(t *testing.T) {
	out, _, err := runModule(t, `
		fn make() {
			let n = 0;
			return fn() {
				n = n + 1;
				return n;
			};
		}
		let c = make();
		c();
		c();
		print(c());
	`)
	require.NoError(t, err)
	require.Equal(t, "3\n", out)
}

// spec section 8, scenario 4: defer runs LIFO around an exception, and the
// exception is still observable in the catch clause afterward.
func TestDeferLIFOAroundThrownException(t *testing.T) {
	out, _, err := runModule(t, `
		try {
			defer print("A");
			defer print("B");
			throw "oops";
		} catch (e) {
			print(e);
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "B\nA\noops\n", out)
}

// spec section 8, scenario 5: break out of a loop still drains that
// iteration's defers, in LIFO order, before control leaves the loop.
func TestBreakDrainsLoopDefersInOrder(t *testing.T) {
	out, _, err := runModule(t, `
		for (let i = 0; i < 10; i = i + 1) {
			defer print("d" + i);
			if (i == 2) {
				break;
			}
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "d0\nd1\nd2\n", out)
}

func TestTryFinallyWithoutCatchStillRethrows(t *testing.T) {
	out, _, err := runModule(t, `
		try {
			try {
				throw "inner";
			} finally {
				print("cleanup");
			}
		} catch (e) {
			print(e);
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "cleanup\ninner\n", out)
}

func TestUncaughtExceptionSurfacesAsRuntimeError(t *testing.T) {
	_, _, err := runModule(t, `throw "boom";`)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "boom"))
}

func TestArrayAndObjectIndexing(t *testing.T) {
	out, _, err := runModule(t, `
		let a = [1, 2, 3];
		a[1] = 20;
		print(a[1]);
	`)
	require.NoError(t, err)
	require.Equal(t, "20\n", out)
}

func TestSpawnAndAwaitSettleSynchronously(t *testing.T) {
	out, _, err := runModule(t, `
		fn work() {
			return 41 + 1;
		}
		let t = spawn work();
		print(await t);
	`)
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

// spec section 8, scenario 6: a module survives an encode/decode round trip
// and produces byte-for-byte identical output when run before and after.
func TestModuleRoundTripProducesIdenticalOutput(t *testing.T) {
	src := `
		fn fib(n) {
			if (n < 2) {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}
		fn make() {
			let n = 0;
			return fn() {
				n = n + 1;
				return n;
			};
		}
		let c = make();
		let a = [1, 2, 3];
		a[1] = 20;
		try {
			defer print("cleanup");
			print(fib(8));
			print(c());
			print(c());
			print(a[1]);
			throw "done";
		} catch (e) {
			print(e);
		}
	`
	mod := mustCompile(t, src)

	var before bytes.Buffer
	th1 := machine.NewThread()
	th1.Stdout = &before
	_, err := th1.RunModule(mod)
	require.NoError(t, err)

	data, err := compiler.Encode(mod)
	require.NoError(t, err)
	decoded, err := compiler.Decode(data)
	require.NoError(t, err)

	var after bytes.Buffer
	th2 := machine.NewThread()
	th2.Stdout = &after
	_, err = th2.RunModule(decoded)
	require.NoError(t, err)

	require.Equal(t, before.String(), after.String())
}

func TestCallWithWrongArgCountRaisesCallError(t *testing.T) {
	mod := mustCompile(t, `
		fn add(a, b) {
			return a + b;
		}
		add(1);
	`)
	th := machine.NewThread()
	var out bytes.Buffer
	th.Stdout = &out
	_, err := th.RunModule(mod)
	require.Error(t, err)
	require.Contains(t, err.Error(), "CallError")
}

func TestCallDepthExceedsLimitRaisesStackOverflow(t *testing.T) {
	mod := mustCompile(t, `
		fn recurse() {
			return recurse();
		}
		recurse();
	`)
	th := machine.NewThread()
	th.MaxCallDepth = 8
	var out bytes.Buffer
	th.Stdout = &out
	_, err := th.RunModule(mod)
	require.Error(t, err)
	require.Contains(t, err.Error(), "StackOverflow")
}
