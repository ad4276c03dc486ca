package api_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/disposejs/dispose/internal/test"
	"github.com/disposejs/dispose/pkg/api"
)

func TestTransform(t *testing.T) {
	result := api.Transform("const a = /* #__DISPOSE__ */ {b: 1}; f(a.b)", api.TransformOptions{})
	require.Empty(t, result.Errors)
	test.AssertEqual(t, result.Code, "f(1);\n")
	test.AssertEqual(t, result.Applied["propagate"], 1)
}

func TestTransformKeepMarkers(t *testing.T) {
	result := api.Transform("x = Object.keys({a: 1})", api.TransformOptions{KeepMarkers: true, Passes: []string{"keys"}})
	require.Empty(t, result.Errors)
	test.AssertEqual(t, result.Code, "x = /* #__DISPOSE__ */ [\"a\"];\n")
}

func TestTransformErrors(t *testing.T) {
	input := "const [a, b] = /* #__DISPOSE__ */ [1, ...x];\nf(a, b);\n"
	result := api.Transform(input, api.TransformOptions{Sourcefile: "input.js"})
	require.Len(t, result.Errors, 1)
	test.AssertEqual(t, result.Code, input)
	test.AssertEqual(t, result.Errors[0].Text, "cannot take an element at or after a spread element")
	test.AssertEqual(t, result.Errors[0].Location.File, "input.js")
	test.AssertEqual(t, result.Errors[0].Location.Line, 1)
	test.AssertEqual(t, result.Errors[0].Location.Column, 10)

	result = api.Transform("let = ;", api.TransformOptions{})
	require.NotEmpty(t, result.Errors)
	test.AssertEqual(t, result.Code, "let = ;")

	result = api.Transform("x", api.TransformOptions{Passes: []string{"nope"}})
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0].Text, `unknown pass "nope"`)
	test.AssertEqual(t, result.Errors[0].Location == nil, true)
}

func TestTransformConcurrently(t *testing.T) {
	var waitGroup sync.WaitGroup
	codes := make([]string, 16)
	for i := range codes {
		waitGroup.Add(1)
		go func(i int) {
			defer waitGroup.Done()
			codes[i] = api.Transform("x = (() => [1, 2])()[1]", api.TransformOptions{}).Code
		}(i)
	}
	waitGroup.Wait()
	for _, code := range codes {
		test.AssertEqual(t, code, "x = [1, 2][1];\n")
	}
}

func TestPassNames(t *testing.T) {
	test.AssertEqual(t, api.PassNames(), []string{"deadcode", "fold", "iife", "inline", "keys", "propagate", "pure"})
}
