package result

import (
	"errors"
	"strings"
	"testing"
)

func TestSuccessAndFailureAreExclusive(t *testing.T) {
	t.Parallel()

	ok := Success[error](42)
	if !ok.IsSuccess() || ok.IsFailure() {
		t.Fatalf("success reported as failure: %+v", ok)
	}
	if v, present := ok.Get(); !present || v != 42 {
		t.Fatalf("unexpected success value: got=%d present=%v", v, present)
	}
	if _, present := ok.Failure(); present {
		t.Fatal("success exposed a failure payload")
	}

	bad := Failure[int](errors.New("boom"))
	if bad.IsSuccess() || !bad.IsFailure() {
		t.Fatalf("failure reported as success: %+v", bad)
	}
	if _, present := bad.Get(); present {
		t.Fatal("failure exposed a success value")
	}
	if f, present := bad.Failure(); !present || f.Error() != "boom" {
		t.Fatalf("unexpected failure payload: got=%v present=%v", f, present)
	}
}

func TestConstructorsRejectNilPayloads(t *testing.T) {
	t.Parallel()

	assertPanics(t, "nil success", func() {
		var p *int
		Success[error](p)
	})
	assertPanics(t, "nil failure", func() {
		Failure[int, error](nil)
	})
}

func TestMapSkipsFailure(t *testing.T) {
	t.Parallel()

	called := false
	bad := Failure[int](errors.New("boom"))
	mapped := Map(bad, func(int) string {
		called = true
		return "never"
	})
	if called {
		t.Fatal("map invoked its function on a failure")
	}
	if f, present := mapped.Failure(); !present || f.Error() != "boom" {
		t.Fatalf("failure not carried through map: got=%v present=%v", f, present)
	}
}

func TestMapTransformsSuccess(t *testing.T) {
	t.Parallel()

	got := Map(Success[error](21), func(v int) int { return v * 2 })
	if v, _ := got.Get(); v != 42 {
		t.Fatalf("unexpected mapped value: got=%d want=42", v)
	}
}

func TestFlatMapOnSuccessIsExactlyF(t *testing.T) {
	t.Parallel()

	f := func(v int) Result[error, string] {
		if v < 0 {
			return Failure[string](errors.New("negative"))
		}
		return Success[error]("v=" + strings.Repeat("x", v))
	}

	direct := f(3)
	chained := FlatMap(Success[error](3), f)
	dv, _ := direct.Get()
	cv, _ := chained.Get()
	if dv != cv {
		t.Fatalf("flatMap diverged from direct application: got=%q want=%q", cv, dv)
	}

	failed := FlatMap(Success[error](-1), f)
	if failed.IsSuccess() {
		t.Fatal("flatMap swallowed the inner failure")
	}
}

func TestFlatMapShortCircuits(t *testing.T) {
	t.Parallel()

	called := false
	out := FlatMap(Failure[int](errors.New("boom")), func(int) Result[error, int] {
		called = true
		return Success[error](0)
	})
	if called || out.IsSuccess() {
		t.Fatalf("flatMap did not short-circuit: called=%v result=%+v", called, out)
	}
}

func TestMapFailureRetypes(t *testing.T) {
	t.Parallel()

	bad := Failure[int](errors.New("boom"))
	mapped := MapFailure(bad, func(err error) string { return "wrapped: " + err.Error() })
	if f, _ := mapped.Failure(); f != "wrapped: boom" {
		t.Fatalf("unexpected mapped failure: got=%q", f)
	}

	ok := MapFailure(Success[error](7), func(error) string { return "never" })
	if v, _ := ok.Get(); v != 7 {
		t.Fatalf("mapFailure touched a success: got=%d want=7", v)
	}
}

func TestFoldIsTotal(t *testing.T) {
	t.Parallel()

	onFailure := func(err error) string { return "failure:" + err.Error() }
	onSuccess := func(v int) string { return "success" }

	if got := Fold(Success[error](1), onFailure, onSuccess); got != "success" {
		t.Fatalf("unexpected fold of success: got=%q", got)
	}
	if got := Fold(Failure[int](errors.New("x")), onFailure, onSuccess); got != "failure:x" {
		t.Fatalf("unexpected fold of failure: got=%q", got)
	}

	var zero Result[error, int]
	out := Fold(zero, func(error) string { return "zero-failure" }, onSuccess)
	if out != "zero-failure" {
		t.Fatalf("fold of zero value not total: got=%q", out)
	}
}

func TestGetOrElseVariants(t *testing.T) {
	t.Parallel()

	bad := Failure[int](errors.New("boom"))
	if got := bad.GetOrElse(9); got != 9 {
		t.Fatalf("getOrElse on failure: got=%d want=9", got)
	}
	if got := Success[error](4).GetOrElse(9); got != 4 {
		t.Fatalf("getOrElse on success: got=%d want=4", got)
	}

	computed := false
	if got := bad.GetOrElseCompute(func() int { computed = true; return 8 }); got != 8 || !computed {
		t.Fatalf("getOrElseCompute on failure: got=%d computed=%v", got, computed)
	}
	computed = false
	if got := Success[error](4).GetOrElseCompute(func() int { computed = true; return 8 }); got != 4 || computed {
		t.Fatalf("getOrElseCompute on success: got=%d computed=%v", got, computed)
	}
}

func TestRecoverVariants(t *testing.T) {
	t.Parallel()

	bad := Failure[int](errors.New("boom"))

	recovered := bad.Recover(func(err error) int { return len(err.Error()) })
	if v, _ := recovered.Get(); v != 4 {
		t.Fatalf("recover produced wrong value: got=%d want=4", v)
	}

	rewrapped := bad.RecoverWith(func(err error) Result[error, int] {
		return Failure[int](errors.New("still " + err.Error()))
	})
	if f, _ := rewrapped.Failure(); f == nil || f.Error() != "still boom" {
		t.Fatalf("recoverWith failure payload: got=%v", f)
	}

	untouched := Success[error](3).Recover(func(error) int { return 99 })
	if v, _ := untouched.Get(); v != 3 {
		t.Fatalf("recover touched a success: got=%d want=3", v)
	}
}

func TestFilterOrElse(t *testing.T) {
	t.Parallel()

	even := func(v int) bool { return v%2 == 0 }
	onFalse := func(v int) error { return errors.New("odd value") }

	kept := Success[error](2).FilterOrElse(even, onFalse)
	if kept.IsFailure() {
		t.Fatalf("predicate pass demoted to failure: %+v", kept)
	}

	demoted := Success[error](3).FilterOrElse(even, onFalse)
	if f, present := demoted.Failure(); !present || f.Error() != "odd value" {
		t.Fatalf("predicate fail not demoted: got=%v present=%v", f, present)
	}

	passedThrough := Failure[int](errors.New("boom")).FilterOrElse(even, onFalse)
	if f, _ := passedThrough.Failure(); f.Error() != "boom" {
		t.Fatalf("filter altered an existing failure: got=%v", f)
	}
}

func TestPeekHooksDoNotAlter(t *testing.T) {
	t.Parallel()

	var seenValue, seenFailure int
	ok := Success[error](5).
		Peek(func(v int) { seenValue = v }).
		PeekFailure(func(error) { seenFailure++ })
	if seenValue != 5 || seenFailure != 0 {
		t.Fatalf("peek hooks misfired on success: value=%d failures=%d", seenValue, seenFailure)
	}
	if v, _ := ok.Get(); v != 5 {
		t.Fatalf("peek altered the value: got=%d want=5", v)
	}

	seenValue, seenFailure = 0, 0
	Failure[int](errors.New("boom")).
		Peek(func(v int) { seenValue = v }).
		PeekFailure(func(error) { seenFailure++ })
	if seenValue != 0 || seenFailure != 1 {
		t.Fatalf("peek hooks misfired on failure: value=%d failures=%d", seenValue, seenFailure)
	}
}

func TestCombineReturnsFirstFailure(t *testing.T) {
	t.Parallel()

	if got := Combine[error](); got.IsFailure() {
		t.Fatalf("combine of nothing failed: %+v", got)
	}

	all := Combine(OK[error](), OK[error]())
	if all.IsFailure() {
		t.Fatalf("combine of successes failed: %+v", all)
	}

	first := errors.New("first")
	second := errors.New("second")
	out := Combine(
		OK[error](),
		Failure[Unit](first),
		Failure[Unit](second),
	)
	if f, _ := out.Failure(); !errors.Is(f, first) {
		t.Fatalf("combine returned wrong failure: got=%v want=%v", f, first)
	}
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}
