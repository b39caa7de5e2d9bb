package invariant_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/relic-lang/relic/core/invariant"
)

// violation runs fn and returns the recovered panic message, or "" if fn returned normally.
func violation(fn func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%v", r)
		}
	}()
	fn()
	return ""
}

func TestAssertionsPass(t *testing.T) {
	var nonNil = &struct{}{}
	checks := map[string]func(){
		"precondition":  func() { invariant.Precondition(true, "ok") },
		"postcondition": func() { invariant.Postcondition(1+1 == 2, "ok") },
		"invariant":     func() { invariant.Invariant(len("relic") == 5, "ok") },
		"not nil":       func() { invariant.NotNil(nonNil, "value") },
		"in range":      func() { invariant.InRange(3, 1, 3, "tab size") },
		"no error":      func() { invariant.ExpectNoError(nil, "encode") },
	}
	for name, fn := range checks {
		t.Run(name, func(t *testing.T) {
			if msg := violation(fn); msg != "" {
				t.Fatalf("unexpected panic: %s", msg)
			}
		})
	}
}

func TestAssertionsFail(t *testing.T) {
	var nilPtr *int
	tests := []struct {
		name string
		fn   func()
		want []string
	}{
		{"precondition", func() { invariant.Precondition(false, "chunk must not be empty") },
			[]string{"PRECONDITION VIOLATION", "chunk must not be empty"}},
		{"postcondition", func() { invariant.Postcondition(false, "stack must be %s", "empty") },
			[]string{"POSTCONDITION VIOLATION", "stack must be empty"}},
		{"invariant", func() { invariant.Invariant(false, "recognizer made no progress") },
			[]string{"INVARIANT VIOLATION", "recognizer made no progress"}},
		{"untyped nil", func() { invariant.NotNil(nil, "resolver") },
			[]string{"PRECONDITION VIOLATION", "resolver must not be nil"}},
		{"typed nil", func() { invariant.NotNil(nilPtr, "cursor") },
			[]string{"cursor must not be nil"}},
		{"below range", func() { invariant.InRange(0, 1, 8, "tab size") },
			[]string{"tab size must be in range [1, 8], got 0"}},
		{"above range", func() { invariant.InRange(9, 1, 8, "tab size") },
			[]string{"got 9"}},
		{"error", func() { invariant.ExpectNoError(errors.New("boom"), "encode") },
			[]string{"POSTCONDITION VIOLATION", "encode must not fail: boom"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := violation(tt.fn)
			if msg == "" {
				t.Fatal("expected panic")
			}
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("panic message %q does not contain %q", msg, want)
				}
			}
			if !strings.Contains(msg, "\n  at ") {
				t.Errorf("expected caller location in %q", msg)
			}
		})
	}
}

func TestViolationValue(t *testing.T) {
	defer func() {
		v, ok := recover().(*invariant.Violation)
		if !ok {
			t.Fatal("expected a *invariant.Violation")
		}
		if v.Kind != "INVARIANT" || v.Message != "stage 3 left open" {
			t.Errorf("got %s %q", v.Kind, v.Message)
		}
		if !strings.HasSuffix(v.File, "invariant_test.go") {
			t.Errorf("violation located in %s, expected the test file", v.File)
		}
	}()
	invariant.Invariant(false, "stage %d left open", 3)
}
