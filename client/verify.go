package client

import (
	"fmt"

	"github.com/simplebooks/books-contract-tests/callspec"
	"github.com/simplebooks/books-contract-tests/schemas"
)

// ContractError is one way in which a response did not satisfy its expectation.
type ContractError struct {
	Expect callspec.Expectation
	// Kind is "status" or "schema".
	Kind    string
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s check failed: %s", e.Kind, e.Message)
}

// Verify checks resp against the expectation of spec and returns every violation found. The
// schema is checked even if the status is wrong, since both are useful in a failure report.
func Verify(registry *schemas.Registry, spec callspec.Spec, resp *Response) []*ContractError {
	var ret []*ContractError
	expect := spec.Expect
	if resp.StatusCode != expect.StatusCode {
		ret = append(ret, &ContractError{
			Expect:  expect,
			Kind:    "status",
			Message: fmt.Sprintf("expected HTTP %d, got %d", expect.StatusCode, resp.StatusCode),
		})
	}
	if expect.Schema != "" {
		if err := registry.Validate(expect.Schema, resp.Body); err != nil {
			ret = append(ret, &ContractError{Expect: expect, Kind: "schema", Message: err.Error()})
		}
	}
	return ret
}
