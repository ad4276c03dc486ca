package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"

	"github.com/disposejs/dispose/internal/exitcode"
	"github.com/disposejs/dispose/internal/passes"
	"github.com/disposejs/dispose/internal/pipeline"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New(""), 4)
	wrapped := fmt.Errorf("wrapping: %w", base)
	verify := &pipeline.VerifyError{Path: "a.js", Text: "Expected \";\""}

	testCases := map[string]struct {
		error
		int
	}{
		"nil":     {nil, 0},
		"default": {errors.New(""), 1},
		"usage":   {exitcode.Set(errors.New(""), exitcode.Usage), 2},
		"wrapped": {wrapped, 4},
		"verify":  {fmt.Errorf("a.js: %w", verify), 3},
		"joined":  {multierror.Append(errors.New("a"), verify, errors.New("b")), 3},
		"failure": {multierror.Append(nil, errors.New("a"), errors.New("b")), 1},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.error
			want := tc.int
			got := exitcode.Get(err)
			if got != want {
				t.Errorf("%v: %d != %d", err, got, want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("same-message", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 2)
		got := err.Error()
		want := coder.Error()
		if got != want {
			t.Errorf("error message %q != %q", got, want)
		}
	})
	t.Run("keep-chain", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 3)

		if !errors.Is(coder, err) {
			t.Errorf("broken chain: %v is not %v", coder, err)
		}
	})
	t.Run("nil", func(t *testing.T) {
		if exitcode.Set(nil, 2) != nil {
			t.Error("expected nil")
		}
	})
}

func TestIsInputError(t *testing.T) {
	if !exitcode.IsInputError(fmt.Errorf("a.js: %w", &passes.UnsupportedPatternError{Reason: "x"})) {
		t.Error("expected an unsupported pattern to be an input error")
	}
	if !exitcode.IsInputError(&pipeline.ParseError{Path: "a.js"}) {
		t.Error("expected a parse error to be an input error")
	}
	if exitcode.IsInputError(errors.New("open a.js: permission denied")) {
		t.Error("expected a file error not to be an input error")
	}
}
