package bookstests

import (
	"context"

	"github.com/simplebooks/books-contract-tests/callspec"
	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/framework"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/state"
)

type testCase struct {
	order       int
	name        string
	description string
	action      func(*T)
}

// SuiteParams contains everything RunTestSuite needs to reach the API and the shared state.
type SuiteParams struct {
	Client      *client.Client
	Store       *state.Store
	Registry    *schemas.Registry
	Defaults    callspec.CallDefaults
	CatalogSize int
}

func allTestCases() []testCase {
	var ret []testCase
	ret = append(ret, statusAndBooksTests()...)
	ret = append(ret, apiClientsTests()...)
	ret = append(ret, createOrderTests()...)
	ret = append(ret, readOrderTests()...)
	ret = append(ret, updateOrderTests()...)
	ret = append(ret, deleteOrderTests()...)
	return ret
}

func sequence(env *environment, cases []testCase) framework.Sequence {
	seq := make(framework.Sequence, 0, len(cases))
	for _, tc := range cases {
		action := tc.action
		seq = append(seq, framework.Step{
			Order:       tc.order,
			Name:        tc.name,
			Description: tc.description,
			Action: func(c *framework.Context) {
				action(&T{context: c, env: env})
			},
		})
	}
	return seq
}

// TestNames returns the name of every test case, in execution order, as it would be reported
// and matched by filters.
func TestNames() []string {
	seq, err := sequence(nil, allTestCases()).Sorted()
	if err != nil {
		panic(err)
	}
	ret := make([]string, 0, len(seq))
	for _, step := range seq {
		ret = append(ret, step.TestName())
	}
	return ret
}

// RunTestSuite runs every test case in order against the API described by params.
func RunTestSuite(
	ctx context.Context,
	params SuiteParams,
	filter framework.Filter,
	testLogger framework.TestLogger,
) (framework.Results, error) {
	return runTestCases(ctx, params, allTestCases(), filter, testLogger)
}

func runTestCases(
	ctx context.Context,
	params SuiteParams,
	cases []testCase,
	filter framework.Filter,
	testLogger framework.TestLogger,
) (framework.Results, error) {
	catalogSize := params.CatalogSize
	if catalogSize <= 0 {
		catalogSize = DefaultCatalogSize
	}
	registry := params.Registry
	if registry == nil {
		registry = schemas.MustNewRegistry()
	}
	env := &environment{
		ctx:         ctx,
		client:      params.Client,
		store:       params.Store,
		registry:    registry,
		defaults:    params.Defaults,
		catalogSize: catalogSize,
	}
	var runErr error
	results := framework.Run(filter, testLogger, func(c *framework.Context) {
		runErr = c.RunSequence(sequence(env, cases))
	})
	return results, runErr
}
