package errs

import (
	"errors"
	"testing"
)

func TestWrapUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := Wrap(ParseFailure, "parsing file.go", underlying)

	if !errors.Is(err, underlying) {
		t.Fatalf("expected wrapped error to unwrap to underlying error")
	}
	if got := KindOf(err); got != ParseFailure {
		t.Fatalf("KindOf: got %v, want %v", got, ParseFailure)
	}
	want := "parse_failure: parsing file.go: boom"
	if err.Error() != want {
		t.Fatalf("Error(): got %q, want %q", err.Error(), want)
	}
}

func TestNewHasNoUnderlying(t *testing.T) {
	err := New(NotFound, "no such symbol")
	if err.Unwrap() != nil {
		t.Fatalf("expected New() error to have no wrapped cause")
	}
	if err.Error() != "not_found: no such symbol" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsMatchesOnlyItsOwnKind(t *testing.T) {
	err := New(Transient, "retry me")
	if !Is(err, Transient) {
		t.Fatalf("expected Is to match Transient")
	}
	if Is(err, Fatal) {
		t.Fatalf("expected Is not to match Fatal")
	}
}

func TestKindOfDefaultsToFatalForForeignErrors(t *testing.T) {
	if got := KindOf(errors.New("not ours")); got != Fatal {
		t.Fatalf("KindOf: got %v, want %v", got, Fatal)
	}
}

func TestRPCCodeDistinguishesKinds(t *testing.T) {
	for _, k := range []Kind{NotFound, FeatureDisabled} {
		if got := RPCCode(k); got != -32000 {
			t.Fatalf("RPCCode(%v): got %d, want -32000", k, got)
		}
	}
	if got := RPCCode(InvalidInput); got != -32602 {
		t.Fatalf("RPCCode(InvalidInput): got %d, want -32602", got)
	}
	if got := RPCCode(Fatal); got != -32603 {
		t.Fatalf("RPCCode(Fatal): got %d, want -32603", got)
	}
	// Every kind besides the NotFound/FeatureDisabled pair gets its own code.
	distinct := []Kind{InvalidInput, ParseFailure, NoFunctionBody, IndexUnavailable, Transient, Fatal}
	seen := map[int]Kind{}
	for _, k := range distinct {
		code := RPCCode(k)
		if prior, ok := seen[code]; ok {
			t.Fatalf("RPCCode(%v) collides with RPCCode(%v) at %d", k, prior, code)
		}
		seen[code] = k
	}
}
